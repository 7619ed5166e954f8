package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/scry-study/internal/config"
)

// Setup builds the process logger on stdout and installs it as the slog
// default. The error return is kept for handlers that can fail to open.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	log := New(cfg, os.Stdout)
	slog.SetDefault(log)
	return log, nil
}

// New builds a JSON logger writing to out at the level named in cfg. An
// unknown level logs a warning through the new logger and falls back to info.
func New(cfg config.ServerConfig, out io.Writer) *slog.Logger {
	level, ok := ParseLevel(cfg.LogLevel)
	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	if !ok {
		log.Warn("unknown log level, using info", slog.String("configured_level", cfg.LogLevel))
	}
	return log
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// Unknown names yield slog.LevelInfo and false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
