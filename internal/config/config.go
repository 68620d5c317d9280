// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable that points at a YAML config file.
const ConfigFileEnv = "CONFIG_FILE"

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all service configuration
type Config struct {
	Stage     string          `yaml:"stage"`
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Worker    WorkerConfig    `yaml:"worker"`
	SQS       SQSConfig       `yaml:"sqs"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Port               string   `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// RateLimitConfig holds the per-client request rate
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// WorkerConfig sizes the in-process worker pool
type WorkerConfig struct {
	Count          int `yaml:"count"`
	QueueSize      int `yaml:"queue_size"`
	ResponseBuffer int `yaml:"response_buffer"`
}

// SQSConfig holds the queues of the remote worker. The remote worker is used
// when RequestQueueURL is set.
type SQSConfig struct {
	RequestQueueURL  string `yaml:"request_queue_url"`
	ResponseQueueURL string `yaml:"response_queue_url"`
	WaitSeconds      int32  `yaml:"wait_seconds"`
	EndpointURL      string `yaml:"endpoint_url"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Stage:    constants.LocalEnvironment,
		LogLevel: "info",
		Server: ServerConfig{
			Port:               "8080",
			CORSAllowedOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Worker: WorkerConfig{
			Count:          4,
			QueueSize:      64,
			ResponseBuffer: 1,
		},
		SQS: SQSConfig{
			WaitSeconds: 20,
		},
	}
}

// Load builds the configuration from defaults, the file named by CONFIG_FILE
// and the environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a YAML file on top of the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	// Unmarshal over the defaults so absent keys keep their default.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %q", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	str("STAGE", &c.Stage)
	str("LOG_LEVEL", &c.LogLevel)
	str("PORT", &c.Server.Port)
	str("SQS_REQUEST_QUEUE_URL", &c.SQS.RequestQueueURL)
	str("SQS_RESPONSE_QUEUE_URL", &c.SQS.ResponseQueueURL)
	str("AWS_ENDPOINT_URL", &c.SQS.EndpointURL)

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSAllowedOrigins = origins
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: RATE_LIMIT_RPS must be a number: %q", ErrInvalidConfig, v)
		}
		c.RateLimit.RequestsPerSecond = rps
	}

	for key, dst := range map[string]*int{
		"RATE_LIMIT_BURST":       &c.RateLimit.Burst,
		"WORKER_COUNT":           &c.Worker.Count,
		"WORKER_QUEUE_SIZE":      &c.Worker.QueueSize,
		"WORKER_RESPONSE_BUFFER": &c.Worker.ResponseBuffer,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}

	wait := int(c.SQS.WaitSeconds)
	if err := integer("SQS_WAIT_SECONDS", &wait); err != nil {
		return err
	}
	c.SQS.WaitSeconds = int32(wait)
	return nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if !constants.IsValidStage(c.Stage) {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidConfig, c.Stage)
	}
	if c.Worker.Count <= 0 {
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfig, c.Worker.Count)
	}
	if c.Worker.QueueSize <= 0 {
		return fmt.Errorf("%w: worker queue size must be positive, got %d", ErrInvalidConfig, c.Worker.QueueSize)
	}
	if c.Worker.ResponseBuffer <= 0 {
		return fmt.Errorf("%w: worker response buffer must be positive, got %d", ErrInvalidConfig, c.Worker.ResponseBuffer)
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	}
	if c.SQS.WaitSeconds < 1 || c.SQS.WaitSeconds > 20 {
		return fmt.Errorf("%w: sqs wait seconds must be between 1 and 20, got %d", ErrInvalidConfig, c.SQS.WaitSeconds)
	}
	if c.SQS.RequestQueueURL != "" && c.SQS.ResponseQueueURL == "" {
		return fmt.Errorf("%w: SQS_RESPONSE_QUEUE_URL is required with SQS_REQUEST_QUEUE_URL", ErrInvalidConfig)
	}
	return nil
}

// UseSQS reports whether derivation runs on the remote worker.
func (c *Config) UseSQS() bool {
	return c.SQS.RequestQueueURL != ""
}
