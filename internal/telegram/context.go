package telegram

import (
	"context"

	"tgfilebot/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Context carries one update through the middleware chain into its
// handler. User is nil until an identity middleware fills it.
type Context struct {
	Ctx    context.Context
	App    *App
	Update tgbotapi.Update
	User   *models.User
}

// Handler processes one fully dispatched update.
type Handler func(*Context) error

// Middleware wraps a handler with behavior that runs before it and may
// refuse to call it at all.
type Middleware func(Handler) Handler

// Chain applies middlewares to a handler, first one outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// From returns the Telegram account behind the update, or nil for
// updates without a sender.
func (c *Context) From() *tgbotapi.User {
	if c.Update.CallbackQuery != nil {
		return c.Update.CallbackQuery.From
	}
	if c.Update.Message != nil {
		return c.Update.Message.From
	}
	return nil
}

// ChatID returns the chat the update belongs to, or 0.
func (c *Context) ChatID() int64 {
	if c.Update.CallbackQuery != nil && c.Update.CallbackQuery.Message != nil {
		return c.Update.CallbackQuery.Message.Chat.ID
	}
	if c.Update.Message != nil {
		return c.Update.Message.Chat.ID
	}
	return 0
}

// Text returns the message text, or "" for non-text updates.
func (c *Context) Text() string {
	if c.Update.Message != nil {
		return c.Update.Message.Text
	}
	return ""
}

// CallbackData returns the callback payload, or "".
func (c *Context) CallbackData() string {
	if c.Update.CallbackQuery != nil {
		return c.Update.CallbackQuery.Data
	}
	return ""
}

// T resolves a localization key in the user's effective language.
func (c *Context) T(key string) string {
	lang := "en"
	if c.User != nil {
		if l := c.User.EffectiveLanguage(); l != "" {
			lang = l
		}
	}
	return c.App.Loc.GetString(lang, key)
}

// Reply sends a plain text message into the update's chat.
func (c *Context) Reply(text string) error {
	_, err := c.App.Client.SendMessage(c.ChatID(), text, nil)
	return err
}

// ReplyWithMarkup sends a message with a keyboard into the chat.
func (c *Context) ReplyWithMarkup(text string, markup interface{}) error {
	_, err := c.App.Client.SendMessage(c.ChatID(), text, markup)
	return err
}

// AnswerCallback acknowledges the update's callback query, if any.
func (c *Context) AnswerCallback(text string) error {
	if c.Update.CallbackQuery == nil {
		return nil
	}
	return c.App.Client.AnswerCallback(c.Update.CallbackQuery.ID, text)
}
