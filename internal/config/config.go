package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
	Fetch  FetchConfig  `mapstructure:"fetch"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"   validate:"gt=0"`
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey may be empty. Requests are then answered with a
	// configuration-error analysis instead of failing at startup.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
	// BaseURL overrides the Gemini endpoint (proxies, tests). Empty uses the SDK default.
	BaseURL            string  `mapstructure:"base_url"             validate:"omitempty,url"`
	PromptTemplatePath string  `mapstructure:"prompt_template_path" validate:"omitempty,file"`
	QueryPrefix        string  `mapstructure:"query_prefix"`
	Temperature        float32 `mapstructure:"temperature"          validate:"gte=0,lte=2"`
	JSONMode           bool    `mapstructure:"json_mode"`
	SearchGrounding    bool    `mapstructure:"search_grounding"`

	AttemptTimeout     time.Duration `mapstructure:"attempt_timeout"      validate:"gt=0"`
	MaxAttempts        int           `mapstructure:"max_attempts"         validate:"gte=1,lte=5"`
	RetryBaseDelay     time.Duration `mapstructure:"retry_base_delay"     validate:"gt=0"`
	RetryMaxDelay      time.Duration `mapstructure:"retry_max_delay"      validate:"gtefield=RetryBaseDelay"`
	RetryJitterPercent uint64        `mapstructure:"retry_jitter_percent" validate:"lte=100"`
}

// MaxAnalysisDuration is the execution limit of the hosting platform. A
// request still running when it expires is killed without a response.
const MaxAnalysisDuration = 60 * time.Second

// WorstCaseDuration is the longest an analysis can take: every attempt hitting
// its timeout plus the largest backoff delay (with jitter) between attempts.
func (c LLMConfig) WorstCaseDuration() time.Duration {
	total := time.Duration(c.MaxAttempts) * c.AttemptTimeout
	delay := c.RetryBaseDelay
	for i := 1; i < c.MaxAttempts; i++ {
		total += delay + delay*time.Duration(c.RetryJitterPercent)/100
		delay *= 2
		if delay > c.RetryMaxDelay {
			delay = c.RetryMaxDelay
		}
	}
	return total
}

// HasCredential reports whether an API key is configured.
func (c LLMConfig) HasCredential() bool {
	return c.GeminiAPIKey != ""
}

// FetchConfig controls the optional retrieval of pages for URL queries.
type FetchConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Timeout   time.Duration `mapstructure:"timeout"    validate:"gt=0"`
	MaxChars  int           `mapstructure:"max_chars"  validate:"gt=0"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
}
