// Package subscription evaluates channel-subscription gating: whether a
// user currently satisfies every active channel requirement of a bot.
package subscription

import (
	"context"

	"tgfilebot/backend/internal/models"

	"github.com/rs/zerolog"
)

// Membership states that count as joined.
const (
	MemberStateCreator       = "creator"
	MemberStateAdministrator = "administrator"
	MemberStateMember        = "member"
)

// MembershipChecker is the one provider call the gate needs.
type MembershipChecker interface {
	GetChatMember(ctx context.Context, channelID string, userID int64) (string, error)
}

// ChannelSource loads the current active requirement set for a bot.
type ChannelSource interface {
	ActiveChannels(botID uint) ([]models.SubscribeChannel, error)
}

// Gate performs the live subscription check. Results are deliberately
// never cached: users leave channels between taps, so every gated action
// re-verifies against the provider.
type Gate struct {
	channels ChannelSource
	provider MembershipChecker
	log      zerolog.Logger
}

func NewGate(channels ChannelSource, provider MembershipChecker, log zerolog.Logger) *Gate {
	return &Gate{channels: channels, provider: provider, log: log}
}

// Check returns whether the user satisfies every active channel of their
// bot, plus the ordered channels still missing. An empty requirement set
// is trivially satisfied. A provider error on one channel marks that
// channel as remaining (fail closed) rather than waving the user
// through.
func (g *Gate) Check(ctx context.Context, user *models.User) (bool, []models.SubscribeChannel, error) {
	channels, err := g.channels.ActiveChannels(user.BotID)
	if err != nil {
		return false, nil, err
	}
	if len(channels) == 0 {
		return true, nil, nil
	}

	var remaining []models.SubscribeChannel
	for _, ch := range channels {
		state, err := g.provider.GetChatMember(ctx, ch.ChannelID, user.TelegramID)
		if err != nil {
			g.log.Warn().Err(err).
				Str("channel", ch.ChannelID).
				Int64("user", user.TelegramID).
				Msg("membership check failed, treating channel as not joined")
			remaining = append(remaining, ch)
			continue
		}
		if !joined(state) {
			remaining = append(remaining, ch)
		}
	}
	return len(remaining) == 0, remaining, nil
}

func joined(state string) bool {
	switch state {
	case MemberStateCreator, MemberStateAdministrator, MemberStateMember:
		return true
	}
	return false
}
