package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createBotRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateBot provisions a new bot from its token: authenticates it
// against Telegram, points the webhook here, persists it and starts
// serving its updates. Provisioning runs before the insert, so a bad
// token never leaves a dead row.
func (h *Handler) CreateBot(c *gin.Context) {
	var req createBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	bot, client, err := h.Provisioner.Provision(req.Token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.CreateBot(bot); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "bot already exists"})
		return
	}

	h.Registry.Add(h.NewApp(bot, client))
	c.JSON(http.StatusCreated, bot)
}

func (h *Handler) ListBots(c *gin.Context) {
	bots, err := h.Store.ListBots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bots"})
		return
	}
	c.JSON(http.StatusOK, bots)
}

// DeleteBot detaches the webhook, stops serving updates and removes the
// bot. Its users and channels go with it via the FK cascade.
func (h *Handler) DeleteBot(c *gin.Context) {
	bot, ok := h.botFromParam(c)
	if !ok {
		return
	}

	if app, err := h.Registry.Get(bot.Token); err == nil {
		if err := app.Client.DeleteWebhook(); err != nil {
			h.Log.Warn().Err(err).Str("bot", bot.Username).Msg("failed to delete webhook")
		}
	}
	h.Registry.Remove(bot.Token)

	if err := h.Store.DeleteBot(bot.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bot"})
		return
	}
	c.Status(http.StatusNoContent)
}

type createChannelRequest struct {
	ChannelID  string `json:"channel_id" binding:"required"`
	Username   string `json:"username"`
	InviteLink string `json:"invite_link"`
	Private    bool   `json:"private"`
}

// CreateChannel adds a subscription requirement to a bot after checking
// the bot actually administers the channel.
func (h *Handler) CreateChannel(c *gin.Context) {
	bot, ok := h.botFromParam(c)
	if !ok {
		return
	}
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	ch := &models.SubscribeChannel{
		ChannelID:  req.ChannelID,
		Username:   req.Username,
		InviteLink: req.InviteLink,
		Private:    req.Private,
		Active:     true,
		BotID:      bot.ID,
	}

	app, err := h.Registry.Get(bot.Token)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "bot is not running"})
		return
	}
	if err := h.Provisioner.ValidateChannel(c.Request.Context(), app.Client, ch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.CreateChannel(ch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) ListChannels(c *gin.Context) {
	bot, ok := h.botFromParam(c)
	if !ok {
		return
	}
	channels, err := h.Store.ActiveChannels(bot.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}
	c.JSON(http.StatusOK, channels)
}

// botFromParam resolves the :id path parameter to a bot row and writes
// the error response itself when it cannot.
func (h *Handler) botFromParam(c *gin.Context) (*models.Bot, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad bot id"})
		return nil, false
	}
	bot, err := h.Store.GetBotByID(uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "bot not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bot"})
		return nil, false
	}
	return bot, true
}
