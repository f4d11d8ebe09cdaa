// Package logging provides the installer's diagnostic logger, a thin layer
// over log/slog. Diagnostics go to a file when a log directory is configured
// and to stderr otherwise; the default level keeps them out of the show.
//
// Records carry counts and stage names only. Scanned host and user data is
// never logged.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "":
		return LevelError, nil
	default:
		return LevelError, fmt.Errorf("unknown log level %q", name)
	}
}

type Config struct {
	// Level is the minimum level written. The zero value is LevelDebug, so
	// callers normally set it from ParseLevel.
	Level Level

	// LogDir switches output to JSON lines in {LogDir}/{Service}_{YYYY-MM-DD}.log.
	LogDir string

	// Service is attached to every record as "service".
	Service string

	// Writer receives text records when LogDir is empty. Defaults to stderr.
	Writer io.Writer

	// Now stamps the log file name. Defaults to time.Now.
	Now func() time.Time
}

type Logger struct {
	slog *slog.Logger
	file *os.File
	mu   sync.Mutex
}

// New builds a Logger. If the log file cannot be opened the logger falls back
// to Writer and reports the failure there once.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	if config.Writer == nil {
		config.Writer = os.Stderr
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	service := config.Service
	if service == "" {
		service = "neverinstall"
	}

	logger := &Logger{}
	var handler slog.Handler
	var openErr error
	if config.LogDir != "" {
		file, err := openLogFile(config.LogDir, service, config.Now())
		if err == nil {
			logger.file = file
			handler = slog.NewJSONHandler(file, opts)
		} else {
			openErr = err
		}
	}
	if handler == nil {
		handler = slog.NewTextHandler(config.Writer, opts)
	}
	handler = handler.WithAttrs([]slog.Attr{slog.String("service", service)})
	logger.slog = slog.New(handler)

	if openErr != nil {
		logger.Warn("file logging disabled", "error", openErr)
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func openLogFile(dir, service string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", service, now.Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close syncs and closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync log file: %w", err)
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}
