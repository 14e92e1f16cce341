package trace

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type memLogger struct {
	events []Event
}

func (l *memLogger) Log(event Event) {
	l.events = append(l.events, event)
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &memLogger{}
	b := &memLogger{}
	m := NewMultiLogger(a, b)

	m.Log(Event{Timestamp: time.Now(), Op: OpErase, Category: CategoryState})
	m.Log(Event{Timestamp: time.Now(), Op: OpErase, Category: CategoryTransfer})

	if len(a.events) != 2 || len(b.events) != 2 {
		t.Errorf("fan out: a=%d b=%d, want 2/2", len(a.events), len(b.events))
	}
}

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	a := NewSlogAdapter(slog.New(h))

	a.Log(Event{Timestamp: time.Now(), Op: OpConnect, Category: CategoryState, Message: "connected"})
	a.Log(Event{Timestamp: time.Now(), Op: OpRead, Category: CategoryTransfer, Offset: 8, Length: 8})
	a.Log(Event{Timestamp: time.Now(), Op: OpRead, Category: CategoryRetry, Offset: 8, Attempt: 1, Err: "no acknowledgement"})
	a.Log(Event{Timestamp: time.Now(), Op: OpRead, Category: CategoryError, Offset: 8, Err: "no acknowledgement"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	wantLevel := []string{"level=INFO", "level=DEBUG", "level=WARN", "level=ERROR"}
	for i, want := range wantLevel {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %s, want %s", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[0], "msg=connected") {
		t.Errorf("state line lost its message: %s", lines[0])
	}
	if !strings.Contains(lines[2], "attempt=1") {
		t.Errorf("retry line lost its attempt: %s", lines[2])
	}
}
