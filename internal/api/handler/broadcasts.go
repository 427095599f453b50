package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type broadcastView struct {
	models.Broadcast
	Report *models.DeliveryReport `json:"report"`
}

// ListBroadcasts returns a bot's broadcasts, newest first, each with its
// recomputed delivery counts.
func (h *Handler) ListBroadcasts(c *gin.Context) {
	bot, ok := h.botFromParam(c)
	if !ok {
		return
	}
	broadcasts, err := h.Store.ListBroadcasts(bot.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list broadcasts"})
		return
	}

	views := make([]broadcastView, 0, len(broadcasts))
	for _, b := range broadcasts {
		report, err := h.Broadcasts.Report(b.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build delivery report"})
			return
		}
		views = append(views, broadcastView{Broadcast: b, Report: report})
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetBroadcast(c *gin.Context) {
	b, ok := h.broadcastFromParam(c)
	if !ok {
		return
	}
	report, err := h.Broadcasts.Report(b.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build delivery report"})
		return
	}
	c.JSON(http.StatusOK, broadcastView{Broadcast: *b, Report: report})
}

// RequeueBroadcast puts the failed recipients of a broadcast back in the
// queue and reports how many were revived.
func (h *Handler) RequeueBroadcast(c *gin.Context) {
	b, ok := h.broadcastFromParam(c)
	if !ok {
		return
	}
	requeued, err := h.Broadcasts.Requeue(c.Request.Context(), b.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to requeue broadcast"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requeued": requeued})
}

func (h *Handler) broadcastFromParam(c *gin.Context) (*models.Broadcast, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad broadcast id"})
		return nil, false
	}
	b, err := h.Store.GetBroadcastByID(uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "broadcast not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load broadcast"})
		return nil, false
	}
	return b, true
}
