package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.UseSQS())
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(envFrom(map[string]string{
		"STAGE":                  "dev",
		"PORT":                   "9090",
		"CORS_ALLOWED_ORIGINS":   "https://a.example, https://b.example,",
		"RATE_LIMIT_RPS":         "2.5",
		"RATE_LIMIT_BURST":       "5",
		"WORKER_COUNT":           "8",
		"WORKER_QUEUE_SIZE":      "16",
		"WORKER_RESPONSE_BUFFER": "2",
		"SQS_REQUEST_QUEUE_URL":  "https://sqs.local/req",
		"SQS_RESPONSE_QUEUE_URL": "https://sqs.local/resp",
		"SQS_WAIT_SECONDS":       "5",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "dev", cfg.Stage)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, WorkerConfig{Count: 8, QueueSize: 16, ResponseBuffer: 2}, cfg.Worker)
	assert.Equal(t, int32(5), cfg.SQS.WaitSeconds)
	assert.True(t, cfg.UseSQS())
}

func TestApplyEnvRejectsNonNumeric(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"WORKER_COUNT", "many"},
		{"RATE_LIMIT_RPS", "fast"},
		{"SQS_WAIT_SECONDS", "a while"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.applyEnv(envFrom(map[string]string{tt.key: tt.value}))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Worker.Count = 0 }},
		{"negative queue", func(c *Config) { c.Worker.QueueSize = -1 }},
		{"zero response buffer", func(c *Config) { c.Worker.ResponseBuffer = 0 }},
		{"unknown stage", func(c *Config) { c.Stage = "staging" }},
		{"zero rate", func(c *Config) { c.RateLimit.RequestsPerSecond = 0 }},
		{"long poll too long", func(c *Config) { c.SQS.WaitSeconds = 21 }},
		{"no long poll", func(c *Config) { c.SQS.WaitSeconds = 0 }},
		{"request queue without reply queue", func(c *Config) { c.SQS.RequestQueueURL = "https://sqs.local/req" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
stage: test
worker:
  count: 2
server:
  cors_allowed_origins:
    - https://dashboard.example
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Stage)
	assert.Equal(t, 2, cfg.Worker.Count)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 64, cfg.Worker.QueueSize)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"https://dashboard.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoadFromPathErrors(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker: [1, 2"), 0o600))
	_, err = LoadFromPath(path)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("worker:\n  count: 0\n"), 0o600))
	_, err = LoadFromPath(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7000\"\nworker:\n  count: 3\n"), 0o600))

	t.Setenv(ConfigFileEnv, path)
	t.Setenv("WORKER_COUNT", "6")
	t.Setenv("STAGE", "local")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 6, cfg.Worker.Count)
}

func TestApplyEnvZeroWaitFailsValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(envFrom(map[string]string{"SQS_WAIT_SECONDS": "0"})))
	assert.Equal(t, int32(0), cfg.SQS.WaitSeconds)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
