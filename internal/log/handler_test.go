package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDualHandlerMirrorsErrors(t *testing.T) {
	var primary, secondary bytes.Buffer
	h := NewDualHandler(
		slog.NewJSONHandler(&primary, &slog.HandlerOptions{Level: LevelTrace}),
		slog.NewTextHandler(&secondary, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h)

	EnableErrorMirroring()
	logger.Error("boom")
	require.Contains(t, primary.String(), "boom")
	require.Contains(t, secondary.String(), "boom")

	primary.Reset()
	secondary.Reset()

	logger.Info("quiet")
	require.Contains(t, primary.String(), "quiet")
	require.Empty(t, secondary.String())
}

func TestDualHandlerMirroringDisabled(t *testing.T) {
	var primary, secondary bytes.Buffer
	h := NewDualHandler(
		slog.NewJSONHandler(&primary, &slog.HandlerOptions{Level: LevelTrace}),
		slog.NewTextHandler(&secondary, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h)

	DisableErrorMirroring()
	t.Cleanup(EnableErrorMirroring)

	logger.Error("hidden")
	require.Contains(t, primary.String(), "hidden")
	require.Empty(t, secondary.String())
}

func TestConfigLevelStringToSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelError,
		"":        slog.LevelError,
		"TRACE++": slog.LevelError,
	}
	for in, want := range cases {
		require.Equal(t, want, ConfigLevelStringToSlogLevel(in), in)
	}
}

func TestDualHandlerEnabled(t *testing.T) {
	h := NewDualHandler(
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		nil,
	)
	require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}
