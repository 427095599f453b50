// Package handler exposes the admin JSON API: bot provisioning, file
// uploads, broadcast control and the webhook endpoint Telegram delivers
// updates to.
package handler

import (
	"tgfilebot/backend/internal/broadcast"
	"tgfilebot/backend/internal/config"
	"tgfilebot/backend/internal/extractor"
	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/storage"
	"tgfilebot/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler carries the dependencies shared by all admin endpoints.
type Handler struct {
	Store       storage.Storage
	Registry    *telegram.Registry
	Broadcasts  *broadcast.Engine
	Provisioner *telegram.Provisioner
	Extractor   extractor.Extractor
	Cfg         *config.Config
	Log         zerolog.Logger

	// NewApp builds the update pipeline for a freshly provisioned bot.
	// Injected so the handler package does not need every bot dependency.
	NewApp func(bot *models.Bot, client *telegram.Client) *telegram.App
}

// Routes mounts all endpoints. The webhook is the only unauthenticated
// route besides login: its URL embeds the bot token, which only we and
// Telegram know.
func (h *Handler) Routes(r *gin.Engine) {
	r.POST("/api/bot/:token", h.HandleWebhook)
	r.POST("/api/admin/login", h.Login)

	admin := r.Group("/api/admin", h.AuthRequired())
	{
		admin.GET("/stats", h.Stats)
		admin.GET("/bots", h.ListBots)
		admin.POST("/bots", h.CreateBot)
		admin.DELETE("/bots/:id", h.DeleteBot)
		admin.POST("/bots/:id/channels", h.CreateChannel)
		admin.GET("/bots/:id/channels", h.ListChannels)
		admin.GET("/bots/:id/broadcasts", h.ListBroadcasts)
		admin.GET("/broadcasts/:id", h.GetBroadcast)
		admin.POST("/broadcasts/:id/requeue", h.RequeueBroadcast)
		admin.GET("/broadcasts/:id/ws", h.BroadcastProgress)
		admin.POST("/files", h.UploadFile)
	}
}
