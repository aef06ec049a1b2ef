package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Site
	ListingURL  string
	BaseURL     string
	ListingPath string
	UserAgent   string

	// HTTP
	FetchTimeout time.Duration

	// Output
	OutputFile string

	// Server
	Port int

	// RSS Feed
	ChannelName     string
	FeedTitle       string
	FeedDescription string
	FeedLanguage    string
	FeedImageURL    string
	ItemPrefix      string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first, if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListingURL:      getEnv("LISTING_URL", "https://www.whitehouse.gov/briefings-statements/"),
		BaseURL:         getEnv("BASE_URL", "https://www.whitehouse.gov"),
		ListingPath:     getEnv("LISTING_PATH", "/briefings-statements/"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		OutputFile:      getEnv("OUTPUT_FILE", "whitehouse_briefings.xml"),
		Port:            getEnvAsInt("PORT", 8080),
		ChannelName:     getEnv("CHANNEL_NAME", "Briefings & Statements"),
		FeedTitle:       getEnv("FEED_TITLE", "White House Briefings & Statements"),
		FeedDescription: getEnv("FEED_DESCRIPTION", "Official Briefings and Statements from the White House"),
		FeedLanguage:    getEnv("FEED_LANGUAGE", "en"),
		FeedImageURL:    getEnv("FEED_IMAGE_URL", ""),
		ItemPrefix:      getEnv("ITEM_PREFIX", "White House Briefing/Statement"),
	}

	// Validate required fields
	if cfg.ListingURL == "" {
		return nil, fmt.Errorf("LISTING_URL is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BASE_URL is required")
	}
	if cfg.ListingPath == "" {
		return nil, fmt.Errorf("LISTING_PATH is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
