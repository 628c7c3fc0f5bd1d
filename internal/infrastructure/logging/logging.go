// Package logging builds the concrete logger behind the application's
// Logger port from the logging section of the daemon config.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
)

// ZapLogger adapts a zap logger to the application's Logger port.
type ZapLogger struct {
	base *zap.Logger
}

var _ common.Logger = (*ZapLogger)(nil)

// New builds a logger from config: level, encoding, output destination
// and optional file rotation.
func New(cfg *config.LoggingConfig) (*ZapLogger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "text":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	sink, err := openSink(cfg)
	if err != nil {
		return nil, err
	}

	var opts []zap.Option
	if cfg.IncludeCaller {
		// Skip the Log adapter frame so the caller key points at the
		// code that logged, not at this package.
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if cfg.IncludeStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return &ZapLogger{base: zap.New(zapcore.NewCore(encoder, sink, level), opts...)}, nil
}

// Nop returns a logger that discards everything
func Nop() *ZapLogger {
	return &ZapLogger{base: zap.NewNop()}
}

func openSink(cfg *config.LoggingConfig) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logging output is file but file_path is empty")
		}
		if cfg.Rotation.Enabled {
			return zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.Rotation.MaxSize,
				MaxBackups: cfg.Rotation.MaxBackups,
				MaxAge:     cfg.Rotation.MaxAge,
				Compress:   cfg.Rotation.Compress,
			}), nil
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return zapcore.Lock(f), nil
	default:
		return zapcore.Lock(os.Stdout), nil
	}
}

// Log implements the Logger port. Levels arrive as strings and metadata
// as a free-form map; both are translated into zap's typed calls.
func (l *ZapLogger) Log(level, message string, metadata map[string]interface{}) {
	fields := make([]zap.Field, 0, len(metadata))
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}
	switch level {
	case "debug":
		l.base.Debug(message, fields...)
	case "warn":
		l.base.Warn(message, fields...)
	case "error":
		l.base.Error(message, fields...)
	default:
		l.base.Info(message, fields...)
	}
}

// Sync flushes buffered entries. Call it on shutdown.
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}
