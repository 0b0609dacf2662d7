package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Pinpointe Pinpointe `mapstructure:",squash"`
	Leadpier  Leadpier  `mapstructure:",squash"`
	Sync      Sync      `mapstructure:",squash"`
	Cleanup   Cleanup   `mapstructure:",squash"`
	LiveSync  LiveSync  `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"timezone"`
}

type Auth struct {
	Secret      string        `mapstructure:"auth_secret"`
	TokenExpiry time.Duration `mapstructure:"auth_token_expiry"`
}

type Pinpointe struct {
	RequestTimeoutSeconds int `mapstructure:"pinpointe_request_timeout_seconds"`
	MaxConcurrentFetches  int `mapstructure:"pinpointe_max_concurrent_fetches"`
}

type Leadpier struct {
	AuthURL          string `mapstructure:"leadpier_auth_url"`
	DataURL          string `mapstructure:"leadpier_data_url"`
	Username         string `mapstructure:"leadpier_username"`
	Password         string `mapstructure:"leadpier_password"`
	TokenFile        string `mapstructure:"leadpier_token_file"`
	TokenExpiryHours int    `mapstructure:"leadpier_token_expiry_hours"`
	CacheMinutes     int    `mapstructure:"leadpier_cache_minutes"`
}

type Sync struct {
	// Campaigns below this send count are discarded during sync.
	MinSends int `mapstructure:"sync_min_sends"`
	// Number of days back (plus today) that always refresh from the API.
	LiveDays int `mapstructure:"sync_live_days"`
}

type Cleanup struct {
	CronSchedule  string `mapstructure:"cleanup_cron"`
	RetentionDays int    `mapstructure:"cleanup_retention_days"`
	Enabled       bool   `mapstructure:"cleanup_enabled"`
}

type LiveSync struct {
	CronSchedule string `mapstructure:"live_sync_cron"`
	Enabled      bool   `mapstructure:"live_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", 8001)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/campaigns?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("TIMEZONE", "America/New_York")
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("AUTH_SECRET", "change_me_in_production")
	viper.SetDefault("AUTH_TOKEN_EXPIRY", "12h")

	viper.SetDefault("PINPOINTE_REQUEST_TIMEOUT_SECONDS", 120)
	viper.SetDefault("PINPOINTE_MAX_CONCURRENT_FETCHES", 10)

	viper.SetDefault("LEADPIER_AUTH_URL", "https://webapi.leadpier.com/v1/frontend/authenticate")
	viper.SetDefault("LEADPIER_DATA_URL", "https://webapi.leadpier.com/v1/api/stats/user/org/sources")
	viper.SetDefault("LEADPIER_USERNAME", "")
	viper.SetDefault("LEADPIER_PASSWORD", "")
	viper.SetDefault("LEADPIER_TOKEN_FILE", "data/leadpier_token.json")
	viper.SetDefault("LEADPIER_TOKEN_EXPIRY_HOURS", 2)
	viper.SetDefault("LEADPIER_CACHE_MINUTES", 30)

	viper.SetDefault("SYNC_MIN_SENDS", 50)
	viper.SetDefault("SYNC_LIVE_DAYS", 2)

	viper.SetDefault("CLEANUP_CRON", "0 2 * * *") // every day at 2 AM report time
	viper.SetDefault("CLEANUP_RETENTION_DAYS", 30)
	viper.SetDefault("CLEANUP_ENABLED", true)

	viper.SetDefault("LIVE_SYNC_CRON", "*/30 * * * *")
	viper.SetDefault("LIVE_SYNC_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Location resolves the configured report timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.Warnf("invalid timezone %q, falling back to UTC", c.App.Timezone)
		return time.UTC
	}
	return loc
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from: ", location)
			return
		}
	}

	logrus.Warn("no .env file found in any known location")
}
