package telegram

import (
	"errors"
	"fmt"

	"tgfilebot/backend/internal/storage"
)

// handleBroadcastStart opens the compose conversation: the next message
// the admin sends in this chat becomes the broadcast source. /cancel
// aborts at any point.
func (a *App) handleBroadcastStart(c *Context) error {
	require := a.RequireUser()
	admin := a.RequireAdmin()
	a.router.StartConversation(c.ChatID(), &Conversation{
		Handler: Chain(a.handleBroadcastCapture, require, admin),
		Fallback: map[string]Handler{
			"cancel": Chain(a.handleBroadcastAbort, require),
		},
	})
	return c.Reply(c.T("broadcast_prompt"))
}

// handleBroadcastCapture stores the source message and asks for
// confirmation. Any message kind works; delivery copies it verbatim.
func (a *App) handleBroadcastCapture(c *Context) error {
	msg := c.Update.Message
	a.putDraft(msg.Chat.ID, broadcastDraft{
		FromChatID: msg.Chat.ID,
		MessageID:  msg.MessageID,
	})
	return c.ReplyWithMarkup(c.T("broadcast_confirm_prompt"),
		BroadcastConfirmKeyboard(c.T("btn_broadcast_confirm"), c.T("btn_broadcast_cancel")))
}

// handleBroadcastConfirm hands the captured message to the fan-out
// engine.
func (a *App) handleBroadcastConfirm(c *Context) error {
	chatID := c.ChatID()
	draft, ok := a.takeDraft(chatID)
	a.router.EndConversation(chatID)
	if !ok {
		return c.AnswerCallback(c.T("broadcast_expired"))
	}

	_ = c.AnswerCallback("")
	cq := c.Update.CallbackQuery

	b, err := a.Broadcasts.Enqueue(c.Ctx, a.Bot, draft.FromChatID, draft.MessageID)
	if errors.Is(err, storage.ErrNoRecipients) {
		if cq.Message != nil {
			return a.Client.EditMessage(cq.Message.Chat.ID, cq.Message.MessageID, c.T("broadcast_no_recipients"), emptyInline())
		}
		return nil
	}
	if err != nil {
		return err
	}

	report, err := a.Broadcasts.Report(b.ID)
	if err != nil {
		return err
	}
	text := fmt.Sprintf(c.T("broadcast_enqueued"), report.Total)
	if cq.Message != nil {
		return a.Client.EditMessage(cq.Message.Chat.ID, cq.Message.MessageID, text, emptyInline())
	}
	return c.Reply(text)
}

// handleBroadcastCancel drops the draft from the confirm button.
func (a *App) handleBroadcastCancel(c *Context) error {
	chatID := c.ChatID()
	a.takeDraft(chatID)
	a.router.EndConversation(chatID)

	_ = c.AnswerCallback("")
	if cq := c.Update.CallbackQuery; cq.Message != nil {
		return a.Client.EditMessage(cq.Message.Chat.ID, cq.Message.MessageID, c.T("broadcast_cancelled"), emptyInline())
	}
	return nil
}

// handleBroadcastAbort drops the draft from the /cancel fallback.
func (a *App) handleBroadcastAbort(c *Context) error {
	chatID := c.ChatID()
	a.takeDraft(chatID)
	a.router.EndConversation(chatID)
	return c.Reply(c.T("broadcast_cancelled"))
}
