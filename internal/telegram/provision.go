package telegram

import (
	"context"
	"fmt"

	"tgfilebot/backend/internal/models"

	"github.com/rs/zerolog"
)

// Provisioner talks to Telegram on behalf of newly added bots and
// channels. It owns no persistence: callers decide what to do with the
// populated models, so a failed webhook call never leaves a half-created
// bot row behind.
type Provisioner struct {
	webhookBase string
	log         zerolog.Logger
}

func NewProvisioner(webhookBase string, log zerolog.Logger) *Provisioner {
	return &Provisioner{webhookBase: webhookBase, log: log}
}

// WebhookURL returns the delivery URL for a token.
func (p *Provisioner) WebhookURL(token string) string {
	return fmt.Sprintf("%s/api/bot/%s", p.webhookBase, token)
}

// Provision authenticates the token, points its webhook at this service
// and returns the populated bot model plus the ready client. Nothing is
// written anywhere.
func (p *Provisioner) Provision(token string) (*models.Bot, *Client, error) {
	client, err := NewClient(token, p.log)
	if err != nil {
		return nil, nil, err
	}

	self := client.Self()
	url := p.WebhookURL(token)
	if err := client.SetWebhook(url); err != nil {
		return nil, nil, fmt.Errorf("failed to set webhook for @%s: %w", self.UserName, err)
	}

	p.log.Info().Str("bot", self.UserName).Msg("bot provisioned")
	return &models.Bot{
		Name:       self.FirstName,
		Username:   self.UserName,
		Token:      token,
		WebhookURL: url,
	}, client, nil
}

// ValidateChannel checks that the bot can actually gate on the channel:
// it must see the chat and hold admin rights in it, otherwise membership
// lookups will fail for every user later.
func (p *Provisioner) ValidateChannel(ctx context.Context, client *Client, ch *models.SubscribeChannel) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	state, err := client.GetChatMember(ctx, ch.ChannelID, client.Self().ID)
	if err != nil {
		return fmt.Errorf("cannot inspect channel %s: %w", ch.Title(), err)
	}
	if state != "administrator" && state != "creator" {
		return fmt.Errorf("bot must be an administrator of %s", ch.Title())
	}
	return nil
}
