// Package logging builds the zap logger used for diagnostics. Operator-facing
// text goes through the ui package instead; logs are off unless asked for.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug logs turn transitions and request sizes.
	LevelDebug Level = iota
	// LevelInfo logs session milestones.
	LevelInfo
	// LevelWarn logs recoverable failures.
	LevelWarn
	// LevelError logs error messages only.
	LevelError
	// LevelOff disables all logging.
	LevelOff
)

// ParseLevel maps a LOG_LEVEL style string onto a Level. Unknown values
// disable logging.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelOff
	}
}

// New creates a console logger writing to w at the given level.
func New(level Level, w io.Writer) *zap.Logger {
	if level == LevelOff {
		return zap.NewNop()
	}
	if w == nil {
		w = os.Stderr
	}

	var zapLevel zapcore.Level
	switch level {
	case LevelDebug:
		zapLevel = zapcore.DebugLevel
	case LevelWarn:
		zapLevel = zapcore.WarnLevel
	case LevelError:
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapLevel)
	return zap.New(core)
}
