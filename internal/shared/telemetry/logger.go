package telemetry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the process logger.
type Options struct {
	Level string
	// File enables a rotated JSON log file in addition to Writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Writer     io.Writer
}

var (
	mu     sync.RWMutex
	logger = mustBuild(Options{})
)

// Configure replaces the process logger. Safe to call once at startup.
func Configure(opts Options) error {
	l, err := build(opts)
	if err != nil {
		return err
	}
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()
	_ = prev.Sync()
	return nil
}

// Logger returns the underlying zap logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	Logger().Info(msg, toZap(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	Logger().Warn(msg, toZap(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	Logger().Error(msg, toZap(fields)...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Logger().Sync()
}

func toZap(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok {
			out = append(out, zap.String(k, err.Error()))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

func build(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %s: %w", raw, err)
		}
		level = parsed
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w), level),
	}

	if file := strings.TrimSpace(opts.File); file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    positiveOr(opts.MaxSizeMB, 100),
			MaxBackups: positiveOr(opts.MaxBackups, 5),
			MaxAge:     positiveOr(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func mustBuild(opts Options) *zap.Logger {
	l, err := build(opts)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
