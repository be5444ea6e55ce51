package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration environment variable.
const EnvPrefix = "GHOST"

// APIKeyEnvVar is the conventional variable holding the Gemini credential.
const APIKeyEnvVar = "GEMINI_API_KEY"

// setDefaults registers default values for every configuration key.
// Keys must be registered here for environment overrides to reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "65s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.query_prefix", "Analyze this: ")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.json_mode", true)
	v.SetDefault("llm.search_grounding", false)
	v.SetDefault("llm.attempt_timeout", "25s")
	v.SetDefault("llm.max_attempts", 2)
	v.SetDefault("llm.retry_base_delay", "1s")
	v.SetDefault("llm.retry_max_delay", "4s")
	v.SetDefault("llm.retry_jitter_percent", 0)

	v.SetDefault("fetch.enabled", false)
	v.SetDefault("fetch.timeout", "8s")
	v.SetDefault("fetch.max_chars", 20000)
	v.SetDefault("fetch.user_agent", "ghost-api/1.0 (+https://github.com/phrazzld/ghost-api)")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// The Gemini key is read from GHOST_LLM_GEMINI_API_KEY or GEMINI_API_KEY.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.gemini_api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", APIKeyEnvVar); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", APIKeyEnvVar, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ErrRetryBudget is returned when the worst-case analysis time cannot fit
// inside the server write timeout or the platform execution limit.
var ErrRetryBudget = errors.New("llm retry budget exceeds request deadline")

// Validate checks the struct tags on cfg and that the retry budget of one
// analysis ends before the response can no longer be written.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	budget := cfg.LLM.WorstCaseDuration()
	if budget >= cfg.Server.WriteTimeout {
		return fmt.Errorf("config validation failed: %w: worst case %s, server write timeout %s",
			ErrRetryBudget, budget, cfg.Server.WriteTimeout)
	}
	if budget >= MaxAnalysisDuration {
		return fmt.Errorf("config validation failed: %w: worst case %s, platform limit %s",
			ErrRetryBudget, budget, MaxAnalysisDuration)
	}
	return nil
}
