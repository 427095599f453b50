package storage

import (
	"errors"
	"time"

	"tgfilebot/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUser creates or refreshes the (telegram_id, bot) row. The upsert
// is resolved by the database on the unique pair, so concurrent calls for
// the same identity converge on one row with last-write-wins profile
// fields. selected_language and the flags are never touched here.
func (s *Service) UpsertUser(botID uint, id Identity) (*models.User, error) {
	user := models.User{
		TelegramID:    id.TelegramID,
		BotID:         botID,
		FirstName:     id.FirstName,
		LastName:      id.LastName,
		Username:      id.Username,
		StockLanguage: id.LanguageCode,
		Deeplink:      id.Deeplink,
		LastActive:    time.Now(),
	}

	assignments := map[string]interface{}{
		"first_name":     id.FirstName,
		"last_name":      id.LastName,
		"username":       id.Username,
		"stock_language": id.LanguageCode,
		"last_active":    time.Now(),
	}
	// An empty deeplink on a later /start must not erase the recorded
	// acquisition tag.
	if id.Deeplink != "" {
		assignments["deeplink"] = id.Deeplink
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}, {Name: "bot_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the merged row (admin flag, selected
	// language) rather than the insert candidate.
	return s.GetUserByTelegramID(botID, id.TelegramID)
}

// GetUserByTelegramID is the read-only resolution used on fast paths.
func (s *Service) GetUserByTelegramID(botID uint, telegramID int64) (*models.User, error) {
	var user models.User
	err := s.DB.Where("bot_id = ? AND telegram_id = ?", botID, telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SetUserLanguage(userID uint, lang string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("selected_language", lang).Error
}

func (s *Service) SetUserBlocked(userID uint, blocked bool) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_blocked", blocked).Error
}

func (s *Service) SetUserAdmin(botID uint, telegramID int64, admin bool) error {
	res := s.DB.Model(&models.User{}).
		Where("bot_id = ? AND telegram_id = ?", botID, telegramID).
		Update("is_admin", admin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EligibleRecipientIDs returns the users a broadcast fans out to.
// Blocked users are the only hard exclusion; users who left a channel
// still receive broadcasts.
func (s *Service) EligibleRecipientIDs(botID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.User{}).
		Where("bot_id = ? AND is_blocked = ?", botID, false).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Service) CountUsers(botID uint) (int64, error) {
	var n int64
	err := s.DB.Model(&models.User{}).Where("bot_id = ?", botID).Count(&n).Error
	return n, err
}
