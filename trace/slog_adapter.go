package trace

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter forwards events to a slog.Logger, mapping categories onto
// levels: state and transfer events are info/debug, retries warn, terminal
// failures error.
type SlogAdapter struct {
	logger *slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Log(event Event) {
	level := slog.LevelDebug
	switch event.Category {
	case CategoryState:
		level = slog.LevelInfo
	case CategoryRetry:
		level = slog.LevelWarn
	case CategoryError:
		level = slog.LevelError
	}

	msg := event.Message
	if msg == "" {
		msg = event.Category.String()
	}

	attrs := []slog.Attr{
		slog.String("op", event.Op.String()),
	}
	if event.Session != "" {
		attrs = append(attrs, slog.String("session", event.Session))
	}
	if event.Addr != 0 {
		attrs = append(attrs, slog.String("addr", fmt.Sprintf("0x%02X", event.Addr)))
	}
	if event.Category == CategoryTransfer || event.Category == CategoryRetry || event.Category == CategoryError {
		attrs = append(attrs,
			slog.Int("offset", event.Offset),
			slog.Int("length", event.Length),
		)
	}
	if event.Attempt > 0 {
		attrs = append(attrs, slog.Int("attempt", event.Attempt))
	}
	if event.Err != "" {
		attrs = append(attrs, slog.String("err", event.Err))
	}

	a.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
