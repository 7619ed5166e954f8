package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches for
// config.yaml in the working directory and ./config; a missing file there is
// not an error, while a missing explicit file is.
func LoadFile(path string) (*Config, error) {
	// A .env file is optional and never overrides variables already set
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the rules that span sections.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Study.Location(); err != nil {
		return fmt.Errorf("config validation failed: study.timezone: %w", err)
	}

	if cfg.Preview.Backend == "redis" && cfg.Preview.RedisURL == "" {
		return errors.New("config validation failed: preview.redis_url is required for the redis backend")
	}

	if cfg.Extractor.Mode == "gemini" {
		if cfg.LLM.GeminiAPIKey == "" {
			return errors.New("config validation failed: llm.gemini_api_key is required for the gemini extractor")
		}
		if cfg.LLM.ModelName == "" {
			return errors.New("config validation failed: llm.model_name is required for the gemini extractor")
		}
	}

	return nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "scry.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("study.timezone", "UTC")
	v.SetDefault("study.box2_interval_days", 0)
	v.SetDefault("study.box3_interval_days", 0)
	v.SetDefault("study.box4_interval_days", 0)
	v.SetDefault("study.box5_interval_days", 0)

	v.SetDefault("preview.backend", "memory")
	v.SetDefault("preview.redis_url", "")
	v.SetDefault("preview.ttl_minutes", 60)
	v.SetDefault("preview.max_items", 350)

	v.SetDefault("extractor.mode", "heuristic")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("ratelimit.preview_requests_per_minute", 10)
	v.SetDefault("ratelimit.burst", 3)
}
