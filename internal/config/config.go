package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabasePath      string
	RedisURL          string
	SessionHashKey    string
	SessionBlockKey   string
	AdminSecret       string
	DashboardCacheTTL time.Duration
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// MailConfigured reports whether an outbound SMTP relay has been set up.
func (c Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLASSWORK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classwork Tracker API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.path", "school.db")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("smtp.port", 465)

	ttlString := v.GetString("dashboard.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabasePath:      v.GetString("database.path"),
		RedisURL:          v.GetString("redis.url"),
		SessionHashKey:    v.GetString("session.hash_key"),
		SessionBlockKey:   v.GetString("session.block_key"),
		AdminSecret:       v.GetString("admin.secret"),
		DashboardCacheTTL: ttl,
		SMTPHost:          v.GetString("smtp.host"),
		SMTPPort:          v.GetInt("smtp.port"),
		SMTPUsername:      v.GetString("smtp.username"),
		SMTPPassword:      v.GetString("smtp.password"),
		SMTPFrom:          v.GetString("smtp.from"),
	}

	if cfg.SessionHashKey == "" {
		return Config{}, fmt.Errorf("session hash key must be provided")
	}

	if cfg.AdminSecret == "" {
		return Config{}, fmt.Errorf("admin secret must be provided")
	}

	return cfg, nil
}
