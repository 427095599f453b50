package telegram

import (
	"strings"
	"sync"
)

// Conversation is a per-chat state that intercepts the next messages in
// that chat until it ends. Fallback commands (like /cancel) still work
// inside it and take precedence over the conversation handler.
type Conversation struct {
	Handler  Handler
	Fallback map[string]Handler
}

type callbackRoute struct {
	prefix  string
	handler Handler
}

// Router dispatches one update to exactly one handler. Precedence, in
// order: the chat's open conversation, an exact command match, the first
// registered callback prefix match, the text catch-all, the non-text
// catch-all.
type Router struct {
	mu        sync.RWMutex
	commands  map[string]Handler
	callbacks []callbackRoute
	text      Handler
	other     Handler
	active    map[int64]*Conversation
}

func NewRouter() *Router {
	return &Router{
		commands: make(map[string]Handler),
		active:   make(map[int64]*Conversation),
	}
}

// HandleCommand registers an exact command handler, name without slash.
func (r *Router) HandleCommand(name string, h Handler) {
	r.commands[name] = h
}

// HandleCallback registers a callback-data prefix handler. Prefixes are
// tried in registration order, so register the more specific ones first.
func (r *Router) HandleCallback(prefix string, h Handler) {
	r.callbacks = append(r.callbacks, callbackRoute{prefix: prefix, handler: h})
}

// HandleText registers the catch-all for plain text messages.
func (r *Router) HandleText(h Handler) {
	r.text = h
}

// HandleOther registers the catch-all for non-text message kinds.
func (r *Router) HandleOther(h Handler) {
	r.other = h
}

// StartConversation opens a conversation for the chat, replacing any
// existing one.
func (r *Router) StartConversation(chatID int64, conv *Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[chatID] = conv
}

// EndConversation closes the chat's conversation, if any.
func (r *Router) EndConversation(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, chatID)
}

func (r *Router) conversation(chatID int64) *Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[chatID]
}

// Dispatch routes the update. Unroutable updates are silently dropped.
func (r *Router) Dispatch(c *Context) error {
	if c.Update.CallbackQuery != nil {
		data := c.Update.CallbackQuery.Data
		for _, route := range r.callbacks {
			if strings.HasPrefix(data, route.prefix) {
				return route.handler(c)
			}
		}
		// Unknown callback data, likely from a message sent by an older
		// build. Acknowledge so the client stops spinning.
		return c.AnswerCallback("")
	}

	msg := c.Update.Message
	if msg == nil {
		return nil
	}

	if conv := r.conversation(msg.Chat.ID); conv != nil {
		if msg.IsCommand() {
			if h, ok := conv.Fallback[msg.Command()]; ok {
				return h(c)
			}
		}
		return conv.Handler(c)
	}

	if msg.IsCommand() {
		if h, ok := r.commands[msg.Command()]; ok {
			return h(c)
		}
		// Unknown commands fall through to the text catch-all.
	}

	if msg.Text != "" {
		if r.text != nil {
			return r.text(c)
		}
		return nil
	}

	if r.other != nil {
		return r.other(c)
	}
	return nil
}
