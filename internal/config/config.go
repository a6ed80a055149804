package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Env       string
	Port      string
	LogLevel  string
	LogFormat string

	DatabaseURL string
	RedisURL    string

	CronSecret             string
	LineChannelAccessToken string
	LineChannelSecret      string
	GeminiAPIKey           string

	// ContentDir holds the YAML content configs (questions, step messages,
	// feed sources).
	ContentDir string

	StepSchedule     string
	DigestSchedule   string
	ScheduleTimezone string

	// SummarizerStub replaces the LLM summarizer with canned output for
	// local development.
	SummarizerStub bool
}

// Load reads configuration from environment variables (and an optional
// config.yaml in ./configs for local development).
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("content_dir", "./config")
	v.SetDefault("step_schedule", "0 8 * * *")
	v.SetDefault("digest_schedule", "0 9 * * 1")
	v.SetDefault("schedule_timezone", "Asia/Tokyo")
	v.SetDefault("summarizer_stub", false)

	// Missing config.yaml is fine; env vars are the production source.
	_ = v.ReadInConfig()

	return &Config{
		Env:                    v.GetString("env"),
		Port:                   v.GetString("port"),
		LogLevel:               v.GetString("log_level"),
		LogFormat:              v.GetString("log_format"),
		DatabaseURL:            v.GetString("database_url"),
		RedisURL:               v.GetString("redis_url"),
		CronSecret:             v.GetString("cron_secret"),
		LineChannelAccessToken: v.GetString("line_channel_access_token"),
		LineChannelSecret:      v.GetString("line_channel_secret"),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		ContentDir:             v.GetString("content_dir"),
		StepSchedule:           v.GetString("step_schedule"),
		DigestSchedule:         v.GetString("digest_schedule"),
		ScheduleTimezone:       v.GetString("schedule_timezone"),
		SummarizerStub:         v.GetBool("summarizer_stub"),
	}
}

// Validate checks that configuration required for side-effecting runs is
// present. Called before any batch work so that a misconfigured deployment
// aborts cleanly instead of half-running.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.LineChannelAccessToken == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is required")
	}
	if c.LineChannelSecret == "" {
		return fmt.Errorf("LINE_CHANNEL_SECRET is required")
	}
	if c.CronSecret == "" {
		return fmt.Errorf("CRON_SECRET is required")
	}
	if c.GeminiAPIKey == "" && !c.SummarizerStub {
		return fmt.Errorf("GEMINI_API_KEY is required unless SUMMARIZER_STUB is set")
	}
	return nil
}
