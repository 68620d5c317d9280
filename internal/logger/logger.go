package logger

import (
	"os"
	"strings"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log = zap.NewNop()
)

// Components tag every entry with the binary that wrote it.
const (
	ComponentAPI    = "api"
	ComponentWorker = "worker"
	ComponentCLI    = "metricsctl"
)

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level       string `json:"level" yaml:"level"`
	Stage       string `json:"stage" yaml:"stage"`
	Component   string `json:"component" yaml:"component"`
	EnableJSON  bool   `json:"enable_json" yaml:"enable_json"`
	EnableColor bool   `json:"enable_color" yaml:"enable_color"`
}

// InitLoggerWithConfig replaces the global logger. Entries go to stderr.
func InitLoggerWithConfig(config LoggerConfig) {
	Log = New(config, zapcore.Lock(os.Stderr))
}

// New builds a logger that writes to out. Prod stages and EnableJSON get
// JSON entries carrying service, stage and component fields; everything else
// gets console output.
func New(config LoggerConfig, out zapcore.WriteSyncer) *zap.Logger {
	level := ParseLevel(config.Level)
	structured := config.Stage == constants.ProdEnvironment || config.EnableJSON

	var encoder zapcore.Encoder
	if structured {
		encoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(consoleEncoderConfig(config.EnableColor))
	}

	stackLevel := zapcore.WarnLevel
	if structured {
		stackLevel = zapcore.ErrorLevel
	}
	opts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(out)}
	// Prod keeps stack traces for debug-level loggers only.
	if !(config.Stage == constants.ProdEnvironment && level > zapcore.DebugLevel) {
		opts = append(opts, zap.AddStacktrace(stackLevel))
	}

	log := zap.New(zapcore.NewCore(encoder, out, zap.NewAtomicLevelAt(level)), opts...)
	if structured {
		log = log.With(zap.String("service", constants.ServiceName), zap.String("stage", config.Stage))
	}
	if config.Component != "" {
		log = log.With(zap.String("component", config.Component))
	}
	return log
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.CallerKey = "caller"
	cfg.StacktraceKey = "stacktrace"
	return cfg
}

func consoleEncoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// ParseLevel maps a level name onto a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case constants.ErrorLevel:
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Fields shared across the derivation pipeline.

func StoreLocation(loc constants.StoreLocation) zap.Field {
	return zap.String("store_location", string(loc))
}

func SelectedDate(yyyymmdd string) zap.Field {
	return zap.String("selected_date", yyyymmdd)
}

func Kind(kind apperrors.Kind) zap.Field {
	return zap.String("kind", string(kind))
}

func ConsumerID(id string) zap.Field {
	return zap.String("consumer_id", id)
}

func MessageID(id string) zap.Field {
	return zap.String("message_id", id)
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zapcore.Field) {
	Log.Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zapcore.Field) {
	Log.Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zapcore.Field) {
	Log.Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zapcore.Field) {
	Log.Warn(msg, fields...)
}

// Fatal logs a message at FatalLevel and then calls os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) {
	Log.Fatal(msg, fields...)
}

// With creates a child logger and adds structured context to it
func With(fields ...zapcore.Field) *zap.Logger {
	return Log.With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Log.Sync()
}
