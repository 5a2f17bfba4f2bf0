package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/logging/console"
)

func TestConsoleLoggerWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := logging.WithFields(provider.GetLogger("recipes.sync"), map[string]any{"module": "recipes.sync"})
	ctx := logging.ContextWithSession(context.Background(), "kitchen")
	logger = logger.WithContext(ctx)

	logger.Info("sync.tick.forwarded",
		"trigger", "change",
		"elapsed", 1500*time.Millisecond,
		"recipe", "פיצה ביתית",
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO sync.tick.forwarded elapsed=1.5s logger=recipes.sync module=recipes.sync recipe="פיצה ביתית" session=kitchen trigger=change`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("recipes.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Warn("included.warn", "error", errors.New("disk full"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `included.warn error="disk full"`) {
		t.Fatalf("expected warn entry with quoted error, got %s", lines[0])
	}
}

func TestConsoleLoggerKeepsDanglingArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Info("odd", "key", 1, "orphan")

	if !strings.Contains(buf.String(), "field_1=orphan") {
		t.Fatalf("expected positional field, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for name, want := range cases {
		got, ok := console.ParseLevel(name)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
