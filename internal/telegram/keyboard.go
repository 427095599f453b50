package telegram

import (
	"fmt"

	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/search"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes. Handlers are registered on these, and the
// keyboards below are the only places that mint them.
const (
	cbLanguage    = "language_setting_"
	cbSearchPage  = "search_"
	cbGetFile     = "getfile_"
	cbCheckSub    = "check_subscription"
	cbBroadcastOK = "brdcast_confirm"
	cbBroadcastNo = "brdcast_cancel"
)

var languages = []struct {
	Code  string
	Label string
}{
	{"uz", "🇺🇿 O'zbekcha"},
	{"ru", "🇷🇺 Русский"},
	{"en", "🇬🇧 English"},
	{"tr", "🇹🇷 Türkçe"},
}

// LanguageKeyboard offers one button per supported interface language.
func LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range languages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.Label, cbLanguage+l.Code),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SupportedLanguage reports whether a language code can be selected.
func SupportedLanguage(code string) bool {
	for _, l := range languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// SubscribeKeyboard lists the channels the user still has to join, one
// join link per row, with a re-check button underneath.
func SubscribeKeyboard(remaining []models.SubscribeChannel, checkLabel string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range remaining {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(ch.Title(), ch.Link()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(checkLabel, cbCheckSub),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ResultsKeyboard renders one page of search results: a button per file
// and, when the set spans multiple pages, a navigation row whose
// callbacks carry the mode and target page. The query itself lives in
// the chat's search context, not in the callback.
func ResultsKeyboard(files []models.TgFile, view search.PageView, mode string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range files {
		title := f.Title
		if title == "" {
			title = f.FileName
		}
		if len([]rune(title)) > 40 {
			title = string([]rune(title)[:40]) + "…"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("%s%d", cbGetFile, f.ID)),
		))
	}

	if view.Pages > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if view.HasPrev {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"⬅️", fmt.Sprintf("%s%s_%d", cbSearchPage, mode, view.Page-1)))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d/%d", view.Page, view.Pages), fmt.Sprintf("%s%s_%d", cbSearchPage, mode, view.Page)))
		if view.HasNext {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"➡️", fmt.Sprintf("%s%s_%d", cbSearchPage, mode, view.Page+1)))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MainMenuKeyboard is the persistent reply keyboard under the input
// field. Button labels double as routes: the text handler matches them
// before treating input as a search query.
func MainMenuKeyboard(modeLabel, langLabel, helpLabel, aboutLabel, shareLabel string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(modeLabel),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(langLabel),
			tgbotapi.NewKeyboardButton(helpLabel),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(aboutLabel),
			tgbotapi.NewKeyboardButton(shareLabel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// BroadcastConfirmKeyboard asks the admin to confirm or abort sending.
func BroadcastConfirmKeyboard(confirmLabel, cancelLabel string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(confirmLabel, cbBroadcastOK),
			tgbotapi.NewInlineKeyboardButtonData(cancelLabel, cbBroadcastNo),
		),
	)
}
