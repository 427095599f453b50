// Package storage provides persistence for bots, users, files and
// broadcasts (PostgreSQL via GORM) and short-lived conversation state
// (Redis).
package storage

import (
	"context"
	"errors"
	"time"

	"tgfilebot/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced row does not exist, e.g. a
// stale callback pointing at a deleted file or broadcast.
var ErrNotFound = errors.New("not found")

// Identity carries the profile hints arriving with every Telegram update.
type Identity struct {
	TelegramID   int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	Deeplink     string
}

type Storage interface {
	// Bots
	CreateBot(bot *models.Bot) error
	SaveBot(bot *models.Bot) error
	GetBotByToken(token string) (*models.Bot, error)
	GetBotByID(id uint) (*models.Bot, error)
	ListBots() ([]models.Bot, error)
	DeleteBot(id uint) error

	// Users
	UpsertUser(botID uint, id Identity) (*models.User, error)
	GetUserByTelegramID(botID uint, telegramID int64) (*models.User, error)
	SetUserLanguage(userID uint, lang string) error
	SetUserBlocked(userID uint, blocked bool) error
	SetUserAdmin(botID uint, telegramID int64, admin bool) error
	EligibleRecipientIDs(botID uint) ([]uint, error)
	CountUsers(botID uint) (int64, error)

	// Subscription channels
	CreateChannel(ch *models.SubscribeChannel) error
	ActiveChannels(botID uint) ([]models.SubscribeChannel, error)

	// Files
	CreateFile(f *models.TgFile) error
	GetFileByID(id uint) (*models.TgFile, error)
	GetFilesByIDs(ids []uint) ([]models.TgFile, error)
	SearchFileIDs(ctx context.Context, tokens []string, deep bool) ([]uint, error)
	CountFiles() (int64, error)

	// Search audit
	RecordSearch(q *models.SearchQuery) error
	CountSearches() (int64, error)

	// Broadcasts
	CreateBroadcastWithRecipients(b *models.Broadcast, userIDs []uint) error
	GetBroadcastByID(id uint) (*models.Broadcast, error)
	ListBroadcasts(botID uint) ([]models.Broadcast, error)
	SetBroadcastStatus(id uint, status string) error
	PendingBroadcastIDs() ([]uint, error)
	PendingRecipients(broadcastID uint, limit int) ([]models.BroadcastRecipient, error)
	FinishRecipient(id uint, status, errMsg string, sentAt *time.Time) (bool, error)
	RequeueFailed(broadcastID uint) (int64, error)
	BroadcastReport(broadcastID uint) (*models.DeliveryReport, error)

	// Conversation state (Redis)
	SaveSearchContext(botID uint, chatID int64, sc models.SearchContext) error
	LoadSearchContext(botID uint, chatID int64) (*models.SearchContext, error)
	SetSearchMode(botID uint, chatID int64, mode string) error
	GetSearchMode(botID uint, chatID int64) (string, error)
}

// Service implements Storage over PostgreSQL and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService constructs the storage service. The Redis client may
// be nil for callers that only touch the relational store (admin CLI).
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Migrate creates or updates the schema for every model.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Bot{},
		&models.User{},
		&models.SubscribeChannel{},
		&models.TgFile{},
		&models.SearchQuery{},
		&models.Broadcast{},
		&models.BroadcastRecipient{},
	)
}
