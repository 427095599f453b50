package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleWebhook receives one Telegram update for the bot addressed by
// the token in the path. Unknown tokens get 404 so Telegram drops the
// webhook after enough failures; anything else is 200, handler errors
// are logged inside the app.
func (h *Handler) HandleWebhook(c *gin.Context) {
	app, err := h.Registry.Get(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown bot"})
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.Log.Warn().Err(err).Msg("undecodable webhook payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad update payload"})
		return
	}

	app.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}
