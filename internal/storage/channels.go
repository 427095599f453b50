package storage

import "tgfilebot/backend/internal/models"

// CreateChannel persists a gating requirement. Field validation happens
// before this call; see telegram.Provisioner.ValidateChannel for the
// admin-rights check against Telegram.
func (s *Service) CreateChannel(ch *models.SubscribeChannel) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	return s.DB.Create(ch).Error
}

// ActiveChannels loads the current gate requirement set for a bot. The
// result is re-read on every check because the set can change between
// gated actions.
func (s *Service) ActiveChannels(botID uint) ([]models.SubscribeChannel, error) {
	var channels []models.SubscribeChannel
	err := s.DB.Where("bot_id = ? AND active = ?", botID, true).
		Order("created_at").
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}
