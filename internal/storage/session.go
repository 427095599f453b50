package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"tgfilebot/backend/internal/config"
	"tgfilebot/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

func searchContextKey(botID uint, chatID int64) string {
	return fmt.Sprintf("searchctx:%d:%d", botID, chatID)
}

func searchModeKey(botID uint, chatID int64) string {
	return fmt.Sprintf("searchmode:%d:%d", botID, chatID)
}

// SaveSearchContext persists the last query of a chat so pagination
// callbacks can re-run it. The TTL bounds how long the buttons stay live.
func (s *Service) SaveSearchContext(botID uint, chatID int64, sc models.SearchContext) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return s.Redis.Set(s.Ctx, searchContextKey(botID, chatID), data, config.SearchContextTTL).Err()
}

// LoadSearchContext returns nil without error when the context has
// expired; callers turn that into the "search again" reply.
func (s *Service) LoadSearchContext(botID uint, chatID int64) (*models.SearchContext, error) {
	data, err := s.Redis.Get(s.Ctx, searchContextKey(botID, chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sc models.SearchContext
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// SetSearchMode stores the chat's default search mode (normal or deep).
func (s *Service) SetSearchMode(botID uint, chatID int64, mode string) error {
	return s.Redis.Set(s.Ctx, searchModeKey(botID, chatID), mode, 0).Err()
}

// GetSearchMode falls back to normal when nothing was toggled yet.
func (s *Service) GetSearchMode(botID uint, chatID int64) (string, error) {
	mode, err := s.Redis.Get(s.Ctx, searchModeKey(botID, chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return mode, nil
}
