// Package telegram hosts the per-bot update pipeline: the provider
// client, the middleware chain, the router and the handlers behind it.
package telegram

import (
	"context"
	"sync"

	"tgfilebot/backend/internal/broadcast"
	"tgfilebot/backend/internal/localization"
	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/search"
	"tgfilebot/backend/internal/storage"
	"tgfilebot/backend/internal/subscription"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// App is one running bot: its provider client plus everything its
// handlers need. The webhook endpoint feeds updates into HandleUpdate.
type App struct {
	Bot        *models.Bot
	Client     *Client
	Store      storage.Storage
	Loc        *localization.Localizer
	Engine     *search.Engine
	Gate       *subscription.Gate
	Broadcasts *broadcast.Engine
	Log        zerolog.Logger

	router *Router

	mu     sync.Mutex
	drafts map[int64]broadcastDraft
}

// broadcastDraft is a captured source message awaiting admin
// confirmation.
type broadcastDraft struct {
	FromChatID int64
	MessageID  int
}

func NewApp(bot *models.Bot, client *Client, store storage.Storage, loc *localization.Localizer,
	engine *search.Engine, broadcasts *broadcast.Engine, log zerolog.Logger) *App {

	a := &App{
		Bot:        bot,
		Client:     client,
		Store:      store,
		Loc:        loc,
		Engine:     engine,
		Gate:       subscription.NewGate(botChannels{store: store}, client, log),
		Broadcasts: broadcasts,
		Log:        log.With().Str("bot", bot.Username).Logger(),
		router:     NewRouter(),
		drafts:     make(map[int64]broadcastDraft),
	}
	a.routes()
	return a
}

// botChannels narrows the storage interface to the gate's channel needs.
type botChannels struct {
	store storage.Storage
}

func (b botChannels) ActiveChannels(botID uint) ([]models.SubscribeChannel, error) {
	return b.store.ActiveChannels(botID)
}

// routes wires every handler with its middleware chain. Identity comes
// first in each chain; the subscription gate wraps only the gated
// actions, never the commands a user needs to get unstuck.
func (a *App) routes() {
	r := a.router

	ensure := a.EnsureUser()
	require := a.RequireUser()
	gate := a.RequireSubscription()
	admin := a.RequireAdmin()
	typing := a.Typing()

	r.HandleCommand("start", Chain(a.handleStart, ensure))
	r.HandleCommand("language", Chain(a.handleLanguageMenu, ensure))
	r.HandleCommand("help", Chain(a.handleHelp, ensure))
	r.HandleCommand("about", Chain(a.handleAbout, ensure))
	r.HandleCommand("share", Chain(a.handleShare, ensure))
	r.HandleCommand("stats", Chain(a.handleStats, require, admin))
	r.HandleCommand("broadcast", Chain(a.handleBroadcastStart, require, admin))

	r.HandleCallback(cbLanguage, Chain(a.handleLanguageCallback, require))
	r.HandleCallback(cbCheckSub, Chain(a.handleCheckSubscription, require))
	r.HandleCallback(cbSearchPage, Chain(a.handleSearchPage, require, gate, typing))
	r.HandleCallback(cbGetFile, Chain(a.handleGetFile, require, typing))
	r.HandleCallback(cbBroadcastOK, Chain(a.handleBroadcastConfirm, require, admin))
	r.HandleCallback(cbBroadcastNo, Chain(a.handleBroadcastCancel, require, admin))

	r.HandleText(Chain(a.handleText, ensure, gate, typing))
	r.HandleOther(Chain(a.handleOther, ensure))
}

// HandleUpdate dispatches one webhook update. Handler errors are logged
// here; Telegram gets a 200 regardless, a retry storm helps nobody.
func (a *App) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	c := &Context{Ctx: ctx, App: a, Update: update}
	if err := a.router.Dispatch(c); err != nil {
		a.Log.Error().Err(err).
			Int("update", update.UpdateID).
			Int64("chat", c.ChatID()).
			Msg("update handling failed")
	}
}

func (a *App) putDraft(chatID int64, d broadcastDraft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drafts[chatID] = d
}

func (a *App) takeDraft(chatID int64) (broadcastDraft, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.drafts[chatID]
	delete(a.drafts, chatID)
	return d, ok
}
