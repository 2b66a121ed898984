package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Storage        string
	DatabaseURL    string
	MigrationsPath string
	HTTPAddr       string
	JWTSecret      string

	UsersURL         string
	LessonPlansURL   string
	AddressesURL     string
	DirectoryFile    string
	DirectoryTimeout time.Duration

	RedisURL      string
	RedisPassword string
	RedisDB       int

	DiscordToken     string
	DiscordChannelID string

	AssignInterval  time.Duration
	DefaultLocale   string
	DisplayTimezone string
}

// Load reads an optional .env file, then the environment, and validates the
// result.
func Load() (*Config, error) {
	// .env is optional when the variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	cfg := &Config{
		Storage:          os.Getenv("STORAGE"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MigrationsPath:   os.Getenv("MIGRATIONS_PATH"),
		HTTPAddr:         os.Getenv("HTTP_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		UsersURL:         os.Getenv("USERS_URL"),
		LessonPlansURL:   os.Getenv("LESSON_PLANS_URL"),
		AddressesURL:     os.Getenv("ADDRESSES_URL"),
		DirectoryFile:    os.Getenv("DIRECTORY_FILE"),
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		DefaultLocale:    os.Getenv("DEFAULT_LOCALE"),
		DisplayTimezone:  os.Getenv("DISPLAY_TIMEZONE"),
	}

	var err error
	if cfg.DirectoryTimeout, err = durationEnv("DIRECTORY_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.AssignInterval, err = durationEnv("ASSIGN_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("config: REDIS_DB must be an integer (%q)", v)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("config: %s must be a non-negative duration such as 30s or 10m (%q)", key, v)
	}
	return d, nil
}

// validate applies defaults and checks the loaded values.
func (c *Config) validate() error {
	if c.Storage == "" {
		c.Storage = StoragePostgres
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("config: STORAGE must be %q or %q (%q)", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	if c.DisplayTimezone == "" {
		c.DisplayTimezone = "UTC"
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/trainingevents?sslmode=disable"
	}
	if err := checkURL("DATABASE_URL", c.DatabaseURL); err != nil {
		return err
	}

	if c.DirectoryFile == "" {
		for key, v := range map[string]string{
			"USERS_URL":        c.UsersURL,
			"LESSON_PLANS_URL": c.LessonPlansURL,
			"ADDRESSES_URL":    c.AddressesURL,
		} {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("config: %s is required when DIRECTORY_FILE is not set", key)
			}
			if err := checkURL(key, v); err != nil {
				return err
			}
		}
	}

	if c.DiscordToken != "" {
		if strings.TrimSpace(c.DiscordChannelID) == "" {
			return fmt.Errorf("config: DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
		}
		for _, r := range c.DiscordChannelID {
			if r < '0' || r > '9' {
				return fmt.Errorf("config: DISCORD_CHANNEL_ID must be a Discord channel ID (digits only)")
			}
		}
	}
	return nil
}

// RequireJWTSecret fails when the server cannot verify tokens.
func (c *Config) RequireJWTSecret() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required and cannot be empty")
	}
	return nil
}

func checkURL(key, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: invalid %s (%q): %w", key, raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid %s (%q): missing scheme or host", key, raw)
	}
	return nil
}
