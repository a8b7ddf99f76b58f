package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Telegram
	TelegramToken string
	PollTimeout   int // long-poll timeout in seconds

	// Database
	SQLiteDBPath string

	// Roster (empty = compiled-in default)
	RosterFile string

	// AMQP score feed (empty URL disables the feed)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		PollTimeout:   getEnvInt("POLL_TIMEOUT", 30),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/smehachi.db"),

		RosterFile: getEnv("ROSTER_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "smehachi"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "score_events"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.TelegramToken == "" {
		errors = append(errors, "TELEGRAM_TOKEN must be provided")
	}

	if c.PollTimeout < 1 || c.PollTimeout > 300 {
		errors = append(errors, fmt.Sprintf("invalid poll timeout %d: must be between 1 and 300 seconds", c.PollTimeout))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.RosterFile != "" {
		if _, err := os.Stat(c.RosterFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("roster file does not exist: %s", c.RosterFile))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// FeedEnabled reports whether the AMQP score feed is configured.
func (c *Config) FeedEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
