package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	DirectoryURL        string
	DirectoryContentKey string
	DirectoryAdminKey   string
	GeminiAPIKey        string

	DatabasePath string
	CatalogDir   string
	UserID       string

	// Telegram Config
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	directoryURL := os.Getenv("DIRECTORY_API_URL")
	if directoryURL == "" {
		return nil, fmt.Errorf("DIRECTORY_API_URL environment variable not set")
	}

	directoryContentKey := os.Getenv("DIRECTORY_CONTENT_API_KEY")
	if directoryContentKey == "" {
		return nil, fmt.Errorf("DIRECTORY_CONTENT_API_KEY environment variable not set")
	}

	directoryAdminKey := os.Getenv("DIRECTORY_ADMIN_API_KEY")
	if directoryAdminKey == "" {
		// Fallback to content key if only one is provided
		directoryAdminKey = directoryContentKey
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/planner.db"
	}

	catalogDir := os.Getenv("CATALOG_DIR")
	if catalogDir == "" {
		catalogDir = "data/catalog"
	}

	userID := os.Getenv("PLANNER_USER_ID")
	if userID == "" {
		userID = "local"
	}

	// Telegram Config (Optional for CLI, required for Bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")
	telegramAllowUserIDStr := os.Getenv("TELEGRAM_ALLOW_USER_ID")
	var telegramAllowUserID int64
	if telegramAllowUserIDStr != "" {
		fmt.Sscanf(telegramAllowUserIDStr, "%d", &telegramAllowUserID)
	}

	return &Config{
		DirectoryURL:        directoryURL,
		DirectoryContentKey: directoryContentKey,
		DirectoryAdminKey:   directoryAdminKey,
		GeminiAPIKey:        geminiAPIKey,
		DatabasePath:        databasePath,
		CatalogDir:          catalogDir,
		UserID:              userID,
		TelegramBotToken:    telegramBotToken,
		TelegramWebhookURL:  telegramWebhookURL,
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}
