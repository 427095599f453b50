package handler

import (
	"net/http"
	"time"

	"tgfilebot/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin UI is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const progressInterval = 2 * time.Second

// BroadcastProgress streams delivery reports for one broadcast over a
// websocket until the broadcast completes or the client hangs up. The
// dashboard uses it for its live progress bar.
func (h *Handler) BroadcastProgress(c *gin.Context) {
	b, ok := h.broadcastFromParam(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		report, err := h.Broadcasts.Report(b.ID)
		if err != nil {
			h.Log.Error().Err(err).Uint("broadcast", b.ID).Msg("failed to build progress report")
			return
		}
		current, err := h.Store.GetBroadcastByID(b.ID)
		if err != nil {
			return
		}

		if err := conn.WriteJSON(gin.H{
			"status": current.Status,
			"report": report,
		}); err != nil {
			return
		}
		if current.Status == models.BroadcastCompleted && report.Pending == 0 {
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
