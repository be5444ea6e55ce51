package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
// Empty values are set explicitly so a key present in the host environment
// cannot leak into the test.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// TestLoadDefaults verifies that the Load function sets the expected default values
// when no environment variables are set.
func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setupEnv(t, map[string]string{
		"GEMINI_API_KEY":           "",
		"GHOST_LLM_GEMINI_API_KEY": "",
		"GHOST_SERVER_PORT":        "",
		"GHOST_SERVER_LOG_LEVEL":   "",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, 65*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Empty(t, cfg.LLM.GeminiAPIKey, "A missing key must not fail loading")
	assert.False(t, cfg.LLM.HasCredential())
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.ModelName)
	assert.True(t, cfg.LLM.JSONMode)
	assert.False(t, cfg.LLM.SearchGrounding, "Grounding is off by default")
	assert.Equal(t, 25*time.Second, cfg.LLM.AttemptTimeout)
	assert.Equal(t, 2, cfg.LLM.MaxAttempts)
	assert.Equal(t, time.Second, cfg.LLM.RetryBaseDelay)
	assert.InDelta(t, 0.4, cfg.LLM.Temperature, 0.0001)

	assert.False(t, cfg.Fetch.Enabled)
	assert.Equal(t, 20000, cfg.Fetch.MaxChars)
}

// TestLoadDefaultsFitPlatformCeiling keeps the worst-case analysis time under
// the 60s execution limit of the hosting platform.
func TestLoadDefaultsFitPlatformCeiling(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	budget := cfg.LLM.WorstCaseDuration()
	assert.Equal(t, 51*time.Second, budget, "2 attempts of 25s plus one 1s backoff")
	assert.Less(t, budget, MaxAnalysisDuration)
	assert.Greater(t, cfg.Server.WriteTimeout, budget, "write timeout must outlast the analysis budget")
}

func TestWorstCaseDuration(t *testing.T) {
	tests := []struct {
		name string
		cfg  LLMConfig
		want time.Duration
	}{
		{
			name: "single attempt has no backoff",
			cfg:  LLMConfig{MaxAttempts: 1, AttemptTimeout: 10 * time.Second, RetryBaseDelay: time.Second, RetryMaxDelay: 4 * time.Second},
			want: 10 * time.Second,
		},
		{
			name: "delays double up to the cap",
			cfg:  LLMConfig{MaxAttempts: 5, AttemptTimeout: 5 * time.Second, RetryBaseDelay: time.Second, RetryMaxDelay: 4 * time.Second},
			want: 25*time.Second + (1+2+4+4)*time.Second,
		},
		{
			name: "jitter widens each delay",
			cfg:  LLMConfig{MaxAttempts: 2, AttemptTimeout: 5 * time.Second, RetryBaseDelay: 2 * time.Second, RetryMaxDelay: 4 * time.Second, RetryJitterPercent: 50},
			want: 5*time.Second*2 + 3*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.WorstCaseDuration())
		})
	}
}

// TestLoadFromEnv verifies that the Load function correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	setupEnv(t, map[string]string{
		"GHOST_SERVER_PORT":            "9090",
		"GHOST_SERVER_LOG_LEVEL":       "debug",
		"GHOST_LLM_MODEL_NAME":         "gemini-2.0-flash",
		"GHOST_LLM_SEARCH_GROUNDING":   "true",
		"GHOST_LLM_TEMPERATURE":        "0.9",
		"GHOST_LLM_MAX_ATTEMPTS":       "3",
		"GHOST_LLM_ATTEMPT_TIMEOUT":    "15s",
		"GHOST_FETCH_ENABLED":          "true",
		"GHOST_SERVER_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"GEMINI_API_KEY":               "test-api-key",
		"GHOST_LLM_GEMINI_API_KEY":     "",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	require.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.True(t, cfg.LLM.SearchGrounding)
	assert.InDelta(t, 0.9, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.LLM.AttemptTimeout)
	assert.True(t, cfg.Fetch.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "test-api-key", cfg.LLM.GeminiAPIKey, "Gemini API key should be read from GEMINI_API_KEY")
}

// TestLoadPrefixedKeyWins checks the prefixed variable is preferred over the bare one.
func TestLoadPrefixedKeyWins(t *testing.T) {
	t.Chdir(t.TempDir())
	setupEnv(t, map[string]string{
		"GHOST_LLM_GEMINI_API_KEY": "prefixed-key",
		"GEMINI_API_KEY":           "bare-key",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.LLM.GeminiAPIKey)
}

// TestLoadFromFile verifies values from config.yaml are applied and that the
// environment still overrides them.
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := []byte(`
server:
  port: 7070
  log_level: warn
llm:
  model_name: gemini-from-file
  query_prefix: "Decode: "
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))
	setupEnv(t, map[string]string{"GHOST_SERVER_LOG_LEVEL": "error"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Server.LogLevel, "environment overrides the file")
	assert.Equal(t, "gemini-from-file", cfg.LLM.ModelName)
	assert.Equal(t, "Decode: ", cfg.LLM.QueryPrefix)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Invalid port number",
			envVars: map[string]string{"GHOST_SERVER_PORT": "999999"},
		},
		{
			name:    "Invalid log level",
			envVars: map[string]string{"GHOST_SERVER_LOG_LEVEL": "invalid-level"},
		},
		{
			name:    "Too many attempts",
			envVars: map[string]string{"GHOST_LLM_MAX_ATTEMPTS": "9"},
		},
		{
			name:    "Zero attempts",
			envVars: map[string]string{"GHOST_LLM_MAX_ATTEMPTS": "0"},
		},
		{
			name:    "Temperature out of range",
			envVars: map[string]string{"GHOST_LLM_TEMPERATURE": "3.5"},
		},
		{
			name:    "Max delay below base delay",
			envVars: map[string]string{"GHOST_LLM_RETRY_BASE_DELAY": "5s", "GHOST_LLM_RETRY_MAX_DELAY": "1s"},
		},
		{
			name:    "Invalid base URL",
			envVars: map[string]string{"GHOST_LLM_BASE_URL": "not a url"},
		},
		{
			name:    "Retry budget outlasts write timeout",
			envVars: map[string]string{"GHOST_LLM_MAX_ATTEMPTS": "5"},
		},
		{
			name: "Retry budget over platform limit",
			envVars: map[string]string{
				"GHOST_LLM_MAX_ATTEMPTS":     "3",
				"GHOST_SERVER_WRITE_TIMEOUT": "5m",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setupEnv(t, tc.envVars)

			cfg, err := Load()

			require.Error(t, err, "Load() should return an error with invalid configuration")
			if strings.HasPrefix(tc.name, "Retry budget") {
				assert.ErrorIs(t, err, ErrRetryBudget)
			}
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
