package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger // Возвращаем один глобальный логгер

// NewZap builds the process zap logger. Output goes to stdout and, when file is set, to that file too.
func NewZap(levelStr string, file string) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(levelStr))
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}
	return cfg.Build()
}

// InitSlog routes the global slog logger into zapLogger via slog-zap.
func InitSlog(zapLogger *zap.Logger, levelStr string) {
	var parsedLevel slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		parsedLevel = slog.LevelDebug
	case "INFO":
		parsedLevel = slog.LevelInfo
	case "WARN":
		parsedLevel = slog.LevelWarn
	case "ERROR":
		parsedLevel = slog.LevelError
	default:
		parsedLevel = slog.LevelInfo
		// Используем slog.Default(), так как globalLogger еще не инициализирован
		slog.Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}

	handler := slogzap.Option{
		Level:  parsedLevel,
		Logger: zapLogger,
	}.NewZapHandler()
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger) // Устанавливаем как стандартный slog логгер
}

// ensureInitialized проверяет, инициализирован ли логгер.
func ensureInitialized() {
	if globalLogger == nil {
		zapLogger, err := NewZap("info", "")
		if err != nil {
			zapLogger = zap.NewNop()
		}
		InitSlog(zapLogger, "INFO")
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelDebug) {
		globalLogger.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelInfo) {
		globalLogger.Info(msg, args...)
	}
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelWarn) {
		globalLogger.Warn(msg, args...)
	}
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelError) {
		globalLogger.Error(msg, args...)
	}
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	// Логируем всегда перед выходом, независимо от Enabled, т.к. это Fatal
	globalLogger.Error(msg, args...)
	os.Exit(1)
}
