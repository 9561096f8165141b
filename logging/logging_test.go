package logging_test

import (
	"bytes"
	"testing"

	"codecopilot/logging"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"INFO":    logging.LevelInfo,
		"warning": logging.LevelWarn,
		" error ": logging.LevelError,
		"":        logging.LevelOff,
		"verbose": logging.LevelOff,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelWarn, &buf)

	log.Info("hidden")
	log.Warn("model call failed", zap.String("provider", "openai"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "model call failed")
	assert.Contains(t, out, "openai")
}

func TestNewOffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logging.New(logging.LevelOff, &buf).Error("nothing")
	assert.Empty(t, buf.String())
}
