package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/drawlytics/powerball-edge/internal/config"
)

// Standalone check that the Telegram digest configuration actually works:
// go run ./scripts/validate-telegram.go
func main() {
	fmt.Println("Validating Telegram digest configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := validateTelegramConfig(cfg.Telegram); err != nil {
		fmt.Printf("Configuration invalid: %v\n", err)
		os.Exit(1)
	}

	b, err := bot.New(cfg.Telegram.BotToken)
	if err != nil {
		fmt.Printf("Failed to create Telegram bot: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	botInfo, err := b.GetMe(ctx)
	if err != nil {
		fmt.Printf("Bot API call failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Bot API connection successful: @%s (id %d)\n", botInfo.Username, botInfo.ID)
	fmt.Printf("Digests will be sent to chat %s\n", cfg.Telegram.ChatID)
	fmt.Println("All Telegram configuration checks passed.")
}

func validateTelegramConfig(cfg config.TelegramConfig) error {
	if !cfg.Enabled {
		return fmt.Errorf("telegram digests are disabled (set TELEGRAM_ENABLED=true)")
	}
	if cfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not configured")
	}
	if cfg.ChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is not configured")
	}
	return nil
}
