package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tgfilebot/backend/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Client wraps the Bot API for one bot token. Every call goes through an
// HTTP client with a hard timeout, so a slow Telegram outage degrades
// into errors instead of piling up goroutines.
type Client struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

// NewClient authenticates the token against Telegram (getMe) and returns
// a ready client.
func NewClient(token string, log zerolog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: config.ProviderTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	return &Client{api: api, log: log}, nil
}

// Self returns the bot account behind the token.
func (c *Client) Self() tgbotapi.User {
	return c.api.Self
}

// SendMessage sends a text message, optionally with a keyboard, and
// returns the sent message id.
func (c *Client) SendMessage(chatID int64, text string, markup interface{}) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditMessage replaces the text and inline keyboard of a sent message.
// Editing a message into identical content is not an error to us: the
// user sees the same state either way.
func (c *Client) EditMessage(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := c.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	return nil
}

// AnswerCallback acknowledges a callback query so the client stops
// showing the loading spinner. Text, when present, appears as a toast.
func (c *Client) AnswerCallback(callbackID, text string) error {
	_, err := c.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// SendChatAction shows a status like "typing" in the chat.
func (c *Client) SendChatAction(chatID int64, action string) error {
	_, err := c.api.Request(tgbotapi.NewChatAction(chatID, action))
	return err
}

// SendDocument uploads a local file to the chat.
func (c *Client) SendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := c.api.Send(doc)
	return err
}

// CopyMessage re-sends a source message to another chat without the
// forward header. This is the broadcast delivery primitive.
func (c *Client) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error {
	// The Bot API library carries its own request timeout; ctx only
	// short-circuits before the call when the engine is shutting down.
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.Request(tgbotapi.NewCopyMessage(toChatID, fromChatID, messageID))
	return err
}

// GetChatMember returns the membership status of a user in a channel.
// The channel may be referenced by numeric id or by @username.
func (c *Client) GetChatMember(ctx context.Context, channelID string, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatConfig: chatRef(channelID),
			UserID:     userID,
		},
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// SetWebhook points Telegram at the given delivery URL.
func (c *Client) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = c.api.Request(wh)
	return err
}

// DeleteWebhook detaches the bot from its delivery URL.
func (c *Client) DeleteWebhook() error {
	_, err := c.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// chatRef builds a chat reference from a stored channel identifier,
// which is either a numeric chat id or a channel username.
func chatRef(channelID string) tgbotapi.ChatConfig {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return tgbotapi.ChatConfig{ChatID: id}
	}
	username := channelID
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return tgbotapi.ChatConfig{ChannelUsername: username}
}
