package storage

import (
	"errors"
	"time"

	"tgfilebot/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNoRecipients is returned for a broadcast whose bot has no eligible
// recipients at all.
var ErrNoRecipients = errors.New("broadcast has no eligible recipients")

// CreateBroadcastWithRecipients creates the broadcast and its recipient
// rows as one unit: either both exist afterwards or neither does. A
// broadcast with zero recipients would silently complete, so it is
// refused outright.
func (s *Service) CreateBroadcastWithRecipients(b *models.Broadcast, userIDs []uint) error {
	if len(userIDs) == 0 {
		return ErrNoRecipients
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		recipients := make([]models.BroadcastRecipient, 0, len(userIDs))
		for _, uid := range userIDs {
			recipients = append(recipients, models.BroadcastRecipient{
				BroadcastID: b.ID,
				UserID:      uid,
				Status:      models.RecipientPending,
			})
		}
		return tx.CreateInBatches(recipients, 500).Error
	})
}

func (s *Service) GetBroadcastByID(id uint) (*models.Broadcast, error) {
	var b models.Broadcast
	err := s.DB.Preload("Bot").First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) ListBroadcasts(botID uint) ([]models.Broadcast, error) {
	var broadcasts []models.Broadcast
	err := s.DB.Where("bot_id = ?", botID).Order("id DESC").Find(&broadcasts).Error
	if err != nil {
		return nil, err
	}
	return broadcasts, nil
}

func (s *Service) SetBroadcastStatus(id uint, status string) error {
	return s.DB.Model(&models.Broadcast{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// PendingBroadcastIDs lists broadcasts that still have work queued, due
// now or earlier. The worker resumes these on startup.
func (s *Service) PendingBroadcastIDs() ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.Broadcast{}).
		Where("status IN ? AND scheduled_time <= ?",
			[]string{models.BroadcastPending, models.BroadcastInProgress}, time.Now()).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PendingRecipients returns the next batch of undelivered recipients
// with their users preloaded for chat resolution.
func (s *Service) PendingRecipients(broadcastID uint, limit int) ([]models.BroadcastRecipient, error) {
	var recipients []models.BroadcastRecipient
	err := s.DB.Preload("User").
		Where("broadcast_id = ? AND status = ?", broadcastID, models.RecipientPending).
		Order("id").
		Limit(limit).
		Find(&recipients).Error
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

// FinishRecipient records a delivery outcome. The guard on the current
// status makes the pending -> sent/failed transition atomic and
// exactly-once: a second attempt for the same row loses the claim and
// reports false.
func (s *Service) FinishRecipient(id uint, status, errMsg string, sentAt *time.Time) (bool, error) {
	res := s.DB.Model(&models.BroadcastRecipient{}).
		Where("id = ? AND status = ?", id, models.RecipientPending).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errMsg,
			"sent_at":       sentAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequeueFailed resets every failed recipient of the broadcast back to
// pending with cleared error text and revives the broadcast itself.
// Sent recipients are untouched. Returns the number of requeued rows.
func (s *Service) RequeueFailed(broadcastID uint) (int64, error) {
	var requeued int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.BroadcastRecipient{}).
			Where("broadcast_id = ? AND status = ?", broadcastID, models.RecipientFailed).
			Updates(map[string]interface{}{
				"status":        models.RecipientPending,
				"error_message": "",
				"sent_at":       nil,
			})
		if res.Error != nil {
			return res.Error
		}
		requeued = res.RowsAffected
		if requeued == 0 {
			return nil
		}
		return tx.Model(&models.Broadcast{}).
			Where("id = ?", broadcastID).
			Update("status", models.BroadcastPending).Error
	})
	return requeued, err
}

// BroadcastReport recomputes the per-status counts. Nothing stores these.
func (s *Service) BroadcastReport(broadcastID uint) (*models.DeliveryReport, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := s.DB.Model(&models.BroadcastRecipient{}).
		Select("status, count(*) as n").
		Where("broadcast_id = ?", broadcastID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	report := &models.DeliveryReport{}
	for _, r := range rows {
		report.Total += r.N
		switch r.Status {
		case models.RecipientSent:
			report.Sent = r.N
		case models.RecipientFailed:
			report.Failed = r.N
		case models.RecipientPending:
			report.Pending = r.N
		}
	}
	return report, nil
}
