package log

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

type Key struct{}

var LoggerKey = Key{}

// LevelTrace is a custom trace level for slog.
// Using LevelDebug - 4 which equals -8
const LevelTrace = slog.LevelDebug - 4

func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch level {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// NewConsoleHandler builds the human-oriented handler used for stderr
// mirroring. Trace records are labeled explicitly since slog only knows the
// four standard level names.
func NewConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRC")
				}
			}
			return a
		},
	})
}
