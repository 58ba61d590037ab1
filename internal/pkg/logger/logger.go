package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where JSON logs go. An empty File logs to stdout only.
type Config struct {
	Level      string
	File       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	Stdout     bool
}

// ParseLevel maps debug, info, warn and error onto slog levels. Unknown values are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Writer returns the log destination and a closer for the rotating file, if any.
func Writer(cfg Config) (io.Writer, io.Closer) {
	if cfg.File == "" {
		return os.Stdout, nopCloser{}
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	if cfg.Stdout {
		return io.MultiWriter(os.Stdout, fileWriter), fileWriter
	}
	return fileWriter, fileWriter
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a JSON logger. replaceAttr may be nil.
func New(cfg Config, replaceAttr func(groups []string, a slog.Attr) slog.Attr) (*slog.Logger, io.Closer) {
	w, closer := Writer(cfg)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(cfg.Level),
		ReplaceAttr: replaceAttr,
	})
	return slog.New(handler), closer
}
