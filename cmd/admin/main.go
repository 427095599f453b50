package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"tgfilebot/backend/internal/config"
	"tgfilebot/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: promote, demote, block, unblock, requeue, stats")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "promote", "demote":
		botToken, telegramID := userArgs(command)
		if err := setAdmin(storageSvc, botToken, telegramID, command == "promote"); err != nil {
			log.Fatalf("Error changing admin flag: %v", err)
		}
		fmt.Printf("User %d: admin=%v.\n", telegramID, command == "promote")
	case "block", "unblock":
		botToken, telegramID := userArgs(command)
		if err := setBlocked(storageSvc, botToken, telegramID, command == "block"); err != nil {
			log.Fatalf("Error changing block flag: %v", err)
		}
		fmt.Printf("User %d: blocked=%v.\n", telegramID, command == "block")
	case "requeue":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin requeue <broadcast_id>")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid broadcast ID. Please provide an integer.")
			os.Exit(1)
		}
		n, err := storageSvc.RequeueFailed(uint(id))
		if err != nil {
			log.Fatalf("Error requeuing broadcast: %v", err)
		}
		fmt.Printf("Requeued %d failed recipients of broadcast %d.\n", n, id)
	case "stats":
		if err := printStats(storageSvc); err != nil {
			log.Fatalf("Error collecting stats: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func userArgs(command string) (string, int64) {
	if len(os.Args) != 4 {
		fmt.Printf("Usage: admin %s <bot_token> <telegram_id>\n", command)
		os.Exit(1)
	}
	telegramID, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		fmt.Println("Invalid telegram ID. Please provide an integer.")
		os.Exit(1)
	}
	return os.Args[2], telegramID
}

func setAdmin(s storage.Storage, botToken string, telegramID int64, admin bool) error {
	bot, err := s.GetBotByToken(botToken)
	if err != nil {
		return err
	}
	return s.SetUserAdmin(bot.ID, telegramID, admin)
}

func setBlocked(s storage.Storage, botToken string, telegramID int64, blocked bool) error {
	bot, err := s.GetBotByToken(botToken)
	if err != nil {
		return err
	}
	user, err := s.GetUserByTelegramID(bot.ID, telegramID)
	if err != nil {
		return err
	}
	return s.SetUserBlocked(user.ID, blocked)
}

func printStats(s storage.Storage) error {
	bots, err := s.ListBots()
	if err != nil {
		return err
	}
	for _, bot := range bots {
		users, err := s.CountUsers(bot.ID)
		if err != nil {
			return err
		}
		fmt.Printf("@%s: %d users\n", bot.Username, users)
	}
	files, err := s.CountFiles()
	if err != nil {
		return err
	}
	searches, err := s.CountSearches()
	if err != nil {
		return err
	}
	fmt.Printf("files: %d\nsearches: %d\n", files, searches)
	return nil
}
