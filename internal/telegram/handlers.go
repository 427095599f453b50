package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/search"
	"tgfilebot/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// menuKeyboard renders the persistent menu for the chat's current search
// mode. The mode button always offers the switch to the other mode.
func (a *App) menuKeyboard(c *Context) tgbotapi.ReplyKeyboardMarkup {
	mode, err := a.Store.GetSearchMode(a.Bot.ID, c.ChatID())
	if err != nil {
		a.Log.Warn().Err(err).Msg("failed to load search mode, assuming normal")
	}
	modeLabel := c.T("btn_mode_deep")
	if search.NormalizeMode(mode) == search.ModeDeep {
		modeLabel = c.T("btn_mode_normal")
	}
	return MainMenuKeyboard(modeLabel,
		c.T("btn_language"), c.T("btn_help"), c.T("btn_about"), c.T("btn_share"))
}

func emptyInline() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup()
}

// handleStart greets the user. First contact asks for a language before
// anything else; a getfile deeplink payload delivers the file directly.
func (a *App) handleStart(c *Context) error {
	if args := c.Update.Message.CommandArguments(); strings.HasPrefix(args, cbGetFile) {
		id, err := strconv.ParseUint(strings.TrimPrefix(args, cbGetFile), 10, 64)
		if err == nil {
			return a.sendFile(c, uint(id))
		}
	}

	if c.User.SelectedLanguage == nil {
		return c.ReplyWithMarkup(c.T("choose_language"), LanguageKeyboard())
	}
	return c.ReplyWithMarkup(c.T("start_message"), a.menuKeyboard(c))
}

func (a *App) handleLanguageMenu(c *Context) error {
	return c.ReplyWithMarkup(c.T("choose_language"), LanguageKeyboard())
}

// handleLanguageCallback stores the picked language and re-renders the
// menu in it.
func (a *App) handleLanguageCallback(c *Context) error {
	code := strings.TrimPrefix(c.CallbackData(), cbLanguage)
	if !SupportedLanguage(code) {
		return c.AnswerCallback("")
	}
	if err := a.Store.SetUserLanguage(c.User.ID, code); err != nil {
		return err
	}
	c.User.SelectedLanguage = &code

	_ = c.AnswerCallback("")
	cq := c.Update.CallbackQuery
	if cq.Message != nil {
		if err := a.Client.EditMessage(cq.Message.Chat.ID, cq.Message.MessageID, c.T("language_saved"), emptyInline()); err != nil {
			return err
		}
	}
	return c.ReplyWithMarkup(c.T("start_message"), a.menuKeyboard(c))
}

func (a *App) handleHelp(c *Context) error {
	return c.Reply(c.T("help_message"))
}

func (a *App) handleAbout(c *Context) error {
	return c.Reply(c.T("about_message"))
}

// handleShare sends the bot's own deep link for forwarding to friends.
func (a *App) handleShare(c *Context) error {
	return c.Reply(fmt.Sprintf("%s\nhttps://t.me/%s", c.T("share_message"), a.Bot.Username))
}

// handleText is the catch-all for plain text. Menu button labels are
// matched first; everything else is a search query in the chat's
// current mode.
func (a *App) handleText(c *Context) error {
	text := strings.TrimSpace(c.Text())

	switch text {
	case c.T("btn_mode_deep"):
		return a.switchMode(c, search.ModeDeep)
	case c.T("btn_mode_normal"):
		return a.switchMode(c, search.ModeNormal)
	case c.T("btn_language"):
		return a.handleLanguageMenu(c)
	case c.T("btn_help"):
		return a.handleHelp(c)
	case c.T("btn_about"):
		return a.handleAbout(c)
	case c.T("btn_share"):
		return a.handleShare(c)
	}

	mode, err := a.Store.GetSearchMode(a.Bot.ID, c.ChatID())
	if err != nil {
		a.Log.Warn().Err(err).Msg("failed to load search mode, assuming normal")
	}
	mode = search.NormalizeMode(mode)

	return a.runSearch(c, text, mode, 1, 0)
}

func (a *App) switchMode(c *Context, mode string) error {
	if err := a.Store.SetSearchMode(a.Bot.ID, c.ChatID(), mode); err != nil {
		return err
	}
	key := "normal_mode_on"
	if mode == search.ModeDeep {
		key = "deep_mode_on"
	}
	return c.ReplyWithMarkup(c.T(key), a.menuKeyboard(c))
}

// runSearch executes the query, saves the chat's search context and
// renders the requested page. When editMessageID is nonzero the existing
// results message is edited in place instead of sending a new one.
func (a *App) runSearch(c *Context, query, mode string, page, editMessageID int) error {
	ids, err := a.Engine.Search(c.Ctx, c.User, query, mode)
	if errors.Is(err, search.ErrEmptyQuery) {
		return nil
	}
	if err != nil {
		return c.Reply(c.T("search_unavailable"))
	}

	if err := a.Store.SaveSearchContext(a.Bot.ID, c.ChatID(), models.SearchContext{Query: query, Mode: mode}); err != nil {
		a.Log.Warn().Err(err).Msg("failed to save search context, pagination will expire early")
	}

	if len(ids) == 0 {
		if editMessageID != 0 {
			return a.Client.EditMessage(c.ChatID(), editMessageID, c.T("search_no_results"), emptyInline())
		}
		return c.Reply(c.T("search_no_results"))
	}

	view := search.Paginate(ids, page)
	files, err := a.Store.GetFilesByIDs(view.Items)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(c.T("search_results_found"), view.Total)
	markup := ResultsKeyboard(files, view, mode)
	if editMessageID != 0 {
		return a.Client.EditMessage(c.ChatID(), editMessageID, text, markup)
	}
	return c.ReplyWithMarkup(text, markup)
}

// handleSearchPage serves a pagination tap. The callback carries only
// mode and page; the query is reconstructed from the chat's search
// context and the search is re-run, so results reflect the index as it
// is now.
func (a *App) handleSearchPage(c *Context) error {
	parts := strings.Split(strings.TrimPrefix(c.CallbackData(), cbSearchPage), "_")
	if len(parts) != 2 {
		return c.AnswerCallback("")
	}
	mode := search.NormalizeMode(parts[0])
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return c.AnswerCallback("")
	}

	sc, err := a.Store.LoadSearchContext(a.Bot.ID, c.ChatID())
	if err != nil {
		return err
	}
	if sc == nil {
		_ = c.AnswerCallback("")
		return c.Reply(c.T("search_context_expired"))
	}

	_ = c.AnswerCallback("")
	messageID := 0
	if cq := c.Update.CallbackQuery; cq.Message != nil {
		messageID = cq.Message.MessageID
	}
	return a.runSearch(c, sc.Query, mode, page, messageID)
}

// handleGetFile serves a result button tap.
func (a *App) handleGetFile(c *Context) error {
	id, err := strconv.ParseUint(strings.TrimPrefix(c.CallbackData(), cbGetFile), 10, 64)
	if err != nil {
		return c.AnswerCallback("")
	}
	_ = c.AnswerCallback("")
	return a.sendFile(c, uint(id))
}

// sendFile delivers one file, re-checking the subscription gate when the
// file demands it. Stale ids from old result messages get a soft
// not-found reply.
func (a *App) sendFile(c *Context, id uint) error {
	f, err := a.Store.GetFileByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Reply(c.T("file_not_found"))
	}
	if err != nil {
		return err
	}

	if f.RequireSubscription {
		ok, remaining, err := a.Gate.Check(c.Ctx, c.User)
		if err != nil {
			return err
		}
		if !ok {
			return c.ReplyWithMarkup(c.T("subscribe_prompt"), SubscribeKeyboard(remaining, c.T("btn_check_subscription")))
		}
	}

	caption := f.Title
	if f.Description != "" {
		caption += "\n" + f.Description
	}
	return a.Client.SendDocument(c.ChatID(), f.FilePath, caption)
}

// handleCheckSubscription re-runs the gate when the user taps the
// re-check button under the subscribe prompt.
func (a *App) handleCheckSubscription(c *Context) error {
	ok, remaining, err := a.Gate.Check(c.Ctx, c.User)
	if err != nil {
		return err
	}

	cq := c.Update.CallbackQuery
	if ok {
		_ = c.AnswerCallback(c.T("subscription_ok"))
		if cq.Message != nil {
			return a.Client.EditMessage(cq.Message.Chat.ID, cq.Message.MessageID, c.T("subscription_ok"), emptyInline())
		}
		return nil
	}

	// Still gated. The edit is a no-op when nothing changed since the
	// prompt was rendered, so the user only sees the toast.
	_ = c.AnswerCallback(c.T("still_not_subscribed"))
	if cq.Message != nil {
		return a.Client.EditMessage(cq.Message.Chat.ID, cq.Message.MessageID,
			c.T("subscribe_prompt"), SubscribeKeyboard(remaining, c.T("btn_check_subscription")))
	}
	return nil
}

// handleStats reports headline counters to an admin.
func (a *App) handleStats(c *Context) error {
	users, err := a.Store.CountUsers(a.Bot.ID)
	if err != nil {
		return err
	}
	files, err := a.Store.CountFiles()
	if err != nil {
		return err
	}
	searches, err := a.Store.CountSearches()
	if err != nil {
		return err
	}
	return c.Reply(fmt.Sprintf(c.T("stats_message"), users, files, searches))
}

// handleOther answers non-text messages outside any conversation.
func (a *App) handleOther(c *Context) error {
	return c.Reply(c.T("text_only_hint"))
}
