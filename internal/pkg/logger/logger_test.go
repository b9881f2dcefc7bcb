package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(Config{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestInit_FileLogging(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	}()

	dir := t.TempDir()
	require.NoError(t, Init(Config{
		Level:         "info",
		Format:        "json",
		FileEnabled:   true,
		FilePath:      dir,
		RotationSize:  1,
		RetentionDays: 1,
		ServiceName:   "snoop-test",
	}))

	log.Info().Msg("plain message")
	log.Error().Msg("broken message")

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "plain message")
	assert.Contains(t, string(app), "broken message")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(errLog), "plain message")
	assert.Contains(t, string(errLog), "broken message")
}

func TestNewQueryLogger_NoPath(t *testing.T) {
	l := NewQueryLogger("", 1, 1)
	assert.Equal(t, log.Logger.GetLevel(), l.GetLevel())
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Equal(t, "req-1", RequestID(WithRequestID(ctx, "req-1")))
}
