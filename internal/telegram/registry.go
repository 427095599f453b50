package telegram

import (
	"errors"
	"sync"

	"tgfilebot/backend/internal/broadcast"
)

// ErrBotNotRegistered is returned for tokens with no running app, e.g.
// webhook calls for a bot that was deleted.
var ErrBotNotRegistered = errors.New("bot is not registered")

// Registry holds the running apps keyed by bot token. Registration is
// explicit: a bot serves updates only between Add and Remove.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]*App
}

func NewRegistry() *Registry {
	return &Registry{apps: make(map[string]*App)}
}

// Add registers the app under its bot token, replacing any previous app
// for the same token.
func (r *Registry) Add(app *App) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.Bot.Token] = app
}

// Get resolves the running app for a token.
func (r *Registry) Get(token string) (*App, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[token]
	if !ok {
		return nil, ErrBotNotRegistered
	}
	return app, nil
}

// Remove unregisters the token. Unknown tokens are a no-op.
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.apps, token)
}

// Apps returns a snapshot of the running apps.
func (r *Registry) Apps() []*App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apps := make([]*App, 0, len(r.apps))
	for _, app := range r.apps {
		apps = append(apps, app)
	}
	return apps
}

// SenderFor lets the broadcast engine deliver through the registered
// client of the broadcast's bot.
func (r *Registry) SenderFor(botToken string) (broadcast.Sender, error) {
	app, err := r.Get(botToken)
	if err != nil {
		return nil, err
	}
	return app.Client, nil
}
