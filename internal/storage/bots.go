package storage

import (
	"errors"

	"tgfilebot/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateBot(bot *models.Bot) error {
	return s.DB.Create(bot).Error
}

func (s *Service) SaveBot(bot *models.Bot) error {
	return s.DB.Save(bot).Error
}

// GetBotByToken resolves the bot an inbound webhook belongs to.
func (s *Service) GetBotByToken(token string) (*models.Bot, error) {
	var bot models.Bot
	err := s.DB.Where("token = ?", token).First(&bot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (s *Service) GetBotByID(id uint) (*models.Bot, error) {
	var bot models.Bot
	err := s.DB.First(&bot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (s *Service) ListBots() ([]models.Bot, error) {
	var bots []models.Bot
	if err := s.DB.Order("id").Find(&bots).Error; err != nil {
		return nil, err
	}
	return bots, nil
}

// DeleteBot removes the bot row; users, channels and broadcasts cascade.
func (s *Service) DeleteBot(id uint) error {
	return s.DB.Delete(&models.Bot{}, id).Error
}
