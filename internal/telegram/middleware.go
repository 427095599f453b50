package telegram

import (
	"errors"

	"tgfilebot/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EnsureUser upserts the sender into the bot's user table and attaches
// the row to the context. Events without a sender are dropped silently.
// The /start payload, when present, is recorded as the deeplink the
// user arrived through.
func (a *App) EnsureUser() Middleware {
	return func(next Handler) Handler {
		return func(c *Context) error {
			from := c.From()
			if from == nil {
				return nil
			}

			var deeplink string
			if c.Update.Message != nil && c.Update.Message.Command() == "start" {
				deeplink = c.Update.Message.CommandArguments()
			}

			user, err := a.Store.UpsertUser(a.Bot.ID, storage.Identity{
				TelegramID:   from.ID,
				FirstName:    from.FirstName,
				LastName:     from.LastName,
				Username:     from.UserName,
				LanguageCode: from.LanguageCode,
				Deeplink:     deeplink,
			})
			if err != nil {
				return err
			}
			c.User = user
			return next(c)
		}
	}
}

// RequireUser attaches an already known user without writing anything.
// Senders that never ran /start are told to, and the event stops there.
func (a *App) RequireUser() Middleware {
	return func(next Handler) Handler {
		return func(c *Context) error {
			from := c.From()
			if from == nil {
				return nil
			}
			user, err := a.Store.GetUserByTelegramID(a.Bot.ID, from.ID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					_ = c.AnswerCallback("")
					return c.Reply(c.T("start_required"))
				}
				return err
			}
			c.User = user
			return next(c)
		}
	}
}

// RequireSubscription runs the live channel gate before the handler.
// A user with channels still missing gets one prompt listing them and
// the handler never runs.
func (a *App) RequireSubscription() Middleware {
	return func(next Handler) Handler {
		return func(c *Context) error {
			if c.User == nil {
				return nil
			}
			ok, remaining, err := a.Gate.Check(c.Ctx, c.User)
			if err != nil {
				return err
			}
			if ok {
				return next(c)
			}
			_ = c.AnswerCallback("")
			return c.ReplyWithMarkup(c.T("subscribe_prompt"), SubscribeKeyboard(remaining, c.T("btn_check_subscription")))
		}
	}
}

// RequireAdmin stops non-admin users with a single localized refusal.
func (a *App) RequireAdmin() Middleware {
	return func(next Handler) Handler {
		return func(c *Context) error {
			if c.User == nil || !c.User.IsAdmin {
				if c.Update.CallbackQuery != nil {
					return c.AnswerCallback(c.T("admins_only"))
				}
				return c.Reply(c.T("admins_only"))
			}
			return next(c)
		}
	}
}

// Typing shows the typing indicator while the handler works. Failures
// here are cosmetic and never block the handler.
func (a *App) Typing() Middleware {
	return func(next Handler) Handler {
		return func(c *Context) error {
			if chatID := c.ChatID(); chatID != 0 {
				if err := a.Client.SendChatAction(chatID, tgbotapi.ChatTyping); err != nil {
					a.Log.Debug().Err(err).Int64("chat", chatID).Msg("chat action failed")
				}
			}
			return next(c)
		}
	}
}
