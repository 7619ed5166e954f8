package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Study     StudyConfig     `mapstructure:"study" validate:"required"`
	Preview   PreviewConfig   `mapstructure:"preview" validate:"required"`
	Extractor ExtractorConfig `mapstructure:"extractor" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the engine: "sqlite" (a file path or file: URI in URL)
	// or "postgres" (a postgres:// URL).
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// StudyConfig contains scheduling settings.
type StudyConfig struct {
	// Timezone names the IANA zone whose calendar decides what "today" is.
	Timezone string `mapstructure:"timezone" validate:"required"`

	// Leitner interval overrides in days. Zero keeps the built-in interval.
	Box2IntervalDays int `mapstructure:"box2_interval_days" validate:"gte=0"`
	Box3IntervalDays int `mapstructure:"box3_interval_days" validate:"gte=0"`
	Box4IntervalDays int `mapstructure:"box4_interval_days" validate:"gte=0"`
	Box5IntervalDays int `mapstructure:"box5_interval_days" validate:"gte=0"`
}

// Location resolves Timezone.
func (c StudyConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// PreviewConfig contains preview cache settings.
type PreviewConfig struct {
	Backend    string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	RedisURL   string `mapstructure:"redis_url"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"gte=1"`
	MaxItems   int    `mapstructure:"max_items" validate:"gte=1"`
}

// TTL returns the batch lifetime as a duration.
func (c PreviewConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ExtractorConfig selects how question/answer pairs are extracted from text.
type ExtractorConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=heuristic gemini"`
}

// LLMConfig contains all LLM integration related settings.
// Only consulted when the extractor mode is "gemini".
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
	// PromptTemplatePath overrides the built-in prompt when set.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// RateLimitConfig limits preview generation per client IP.
type RateLimitConfig struct {
	// PreviewRequestsPerMinute of zero disables limiting.
	PreviewRequestsPerMinute int `mapstructure:"preview_requests_per_minute" validate:"gte=0"`
	Burst                    int `mapstructure:"burst" validate:"gte=1"`
}
