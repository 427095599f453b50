package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tgfilebot/backend/internal/api/handler"
	"tgfilebot/backend/internal/broadcast"
	"tgfilebot/backend/internal/config"
	"tgfilebot/backend/internal/extractor"
	"tgfilebot/backend/internal/localization"
	"tgfilebot/backend/internal/logger"
	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/search"
	"tgfilebot/backend/internal/storage"
	"tgfilebot/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config, log zerolog.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	return db, rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		println("configuration error:", err.Error())
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level)
	log.Info().Msg("starting tgfilebot backend")

	db, rdb := setupDependencies(cfg, log)
	store := storage.NewStorageService(db, rdb)
	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	loc, err := localization.NewLocalizer("internal/localization")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load localization files")
	}

	engine := search.NewEngine(store, store, log)
	registry := telegram.NewRegistry()
	broadcasts := broadcast.NewEngine(store, registry, log)
	provisioner := telegram.NewProvisioner(cfg.HTTP.WebhookBase, log)

	newApp := func(bot *models.Bot, client *telegram.Client) *telegram.App {
		return telegram.NewApp(bot, client, store, loc, engine, broadcasts, log)
	}

	// Reattach the bots that were provisioned before this restart. A bot
	// whose token went bad stays offline until it is re-added.
	bots, err := store.ListBots()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list bots")
	}
	for i := range bots {
		bot := bots[i]
		client, err := telegram.NewClient(bot.Token, log)
		if err != nil {
			log.Error().Err(err).Str("bot", bot.Username).Msg("failed to reattach bot")
			continue
		}
		registry.Add(newApp(&bot, client))
		log.Info().Str("bot", bot.Username).Msg("bot reattached")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go broadcasts.Run(ctx)

	r := gin.Default()
	h := &handler.Handler{
		Store:       store,
		Registry:    registry,
		Broadcasts:  broadcasts,
		Provisioner: provisioner,
		Extractor:   extractor.NewPlain(),
		Cfg:         cfg,
		Log:         log,
		NewApp:      newApp,
	}
	h.Routes(r)

	server := &http.Server{
		Addr:           cfg.HTTP.Listen,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Listen).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
