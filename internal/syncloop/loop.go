// Package syncloop keeps an external sink in step with the live editor view.
// Every trigger decodes the whole view and forwards the result; the sink
// always receives a full recipe and never a diff.
package syncloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// Mode selects which triggers drive the loop.
type Mode string

const (
	ModeInterval Mode = "interval"
	ModeChange   Mode = "change"
	ModeBoth     Mode = "both"
)

const (
	DefaultInterval     = time.Second
	DefaultFlushTimeout = 5 * time.Second
)

var (
	ErrNilSource   = errors.New("syncloop: source is nil")
	ErrNilSink     = errors.New("syncloop: sink is nil")
	ErrInvalidMode = errors.New("syncloop: invalid mode")
	ErrInterval    = errors.New("syncloop: interval must be positive")
)

// Source is the live view the loop decodes. editor.Session satisfies it.
type Source interface {
	Decode(ctx context.Context) (recipe.Recipe, error)
	Changes() <-chan struct{}
}

// Trigger names what caused a forward.
type Trigger string

const (
	TriggerInterval Trigger = "interval"
	TriggerChange   Trigger = "change"
	TriggerFlush    Trigger = "flush"
	TriggerFinal    Trigger = "final"
)

// Stats summarises the loop's activity.
type Stats struct {
	Ticks       uint64
	Forwards    uint64
	Failures    uint64
	Unchanged   uint64
	LastForward time.Time
	LastTrigger Trigger
	LastError   string
}

// Loop decodes Source on every trigger and forwards to a single sink.
type Loop struct {
	source       Source
	sink         interfaces.RecipeSink
	mode         Mode
	interval     time.Duration
	flushTimeout time.Duration
	now          func() time.Time
	logger       interfaces.Logger

	// forward serializes decode+forward so a manual Flush never races a tick.
	forward sync.Mutex
	last    *recipe.Recipe

	mu    sync.Mutex
	stats Stats
}

// Option configures a Loop.
type Option func(*Loop)

func WithMode(mode Mode) Option {
	return func(l *Loop) {
		if mode != "" {
			l.mode = mode
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(l *Loop) {
		if interval != 0 {
			l.interval = interval
		}
	}
}

// WithFlushTimeout bounds the final flush performed after cancellation.
func WithFlushTimeout(timeout time.Duration) Option {
	return func(l *Loop) {
		if timeout > 0 {
			l.flushTimeout = timeout
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(l *Loop) {
		if clock != nil {
			l.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New validates the configuration and returns a loop. Defaults: both
// triggers, one second interval.
func New(source Source, sink interfaces.RecipeSink, opts ...Option) (*Loop, error) {
	l := &Loop{
		source:       source,
		sink:         sink,
		mode:         ModeBoth,
		interval:     DefaultInterval,
		flushTimeout: DefaultFlushTimeout,
		now:          time.Now,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	switch {
	case l.source == nil:
		return nil, ErrNilSource
	case l.sink == nil:
		return nil, ErrNilSink
	}
	if err := ValidateMode(l.mode); err != nil {
		return nil, err
	}
	if l.interval < 0 {
		return nil, ErrInterval
	}
	return l, nil
}

// ValidateMode rejects unknown trigger modes.
func ValidateMode(mode Mode) error {
	switch mode {
	case ModeInterval, ModeChange, ModeBoth:
		return nil
	}
	return fmt.Errorf("%w %q", ErrInvalidMode, mode)
}

// Run blocks until ctx is done, forwarding on every enabled trigger. Before
// returning it flushes once more with a fresh context bounded by the flush
// timeout so the last edit reaches the sink.
func (l *Loop) Run(ctx context.Context) error {
	var ticks <-chan time.Time
	if l.mode != ModeChange {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	var changes <-chan struct{}
	if l.mode != ModeInterval {
		changes = l.source.Changes()
	}

	l.logger.Info("sync.loop.started", "mode", l.mode, "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			l.finalFlush()
			l.logger.Info("sync.loop.stopped", "forwards", l.Stats().Forwards)
			return nil
		case <-ticks:
			_, _ = l.tick(ctx, TriggerInterval)
		case <-changes:
			_, _ = l.tick(ctx, TriggerChange)
		}
	}
}

// Flush forwards the current state immediately.
func (l *Loop) Flush(ctx context.Context) error {
	_, err := l.tick(ctx, TriggerFlush)
	return err
}

// FlushRecipe is Flush returning the recipe that reached the sink.
func (l *Loop) FlushRecipe(ctx context.Context) (recipe.Recipe, error) {
	return l.tick(ctx, TriggerFlush)
}

// Stats returns a snapshot of the counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func (l *Loop) finalFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), l.flushTimeout)
	defer cancel()
	_, _ = l.tick(ctx, TriggerFinal)
}

func (l *Loop) tick(ctx context.Context, trigger Trigger) (recipe.Recipe, error) {
	l.forward.Lock()
	defer l.forward.Unlock()

	l.record(func(s *Stats) { s.Ticks++ })

	current, err := l.source.Decode(ctx)
	if err != nil {
		l.fail(trigger, "decode", err)
		return recipe.Recipe{}, err
	}

	if err := l.sink.Forward(ctx, current); err != nil {
		l.fail(trigger, "forward", err)
		return recipe.Recipe{}, err
	}

	unchanged := l.last != nil && l.last.Equal(current)
	snapshot := current.Clone()
	l.last = &snapshot

	at := l.now()
	l.record(func(s *Stats) {
		s.Forwards++
		if unchanged {
			s.Unchanged++
		}
		s.LastForward = at
		s.LastTrigger = trigger
		s.LastError = ""
	})

	if unchanged {
		l.logger.Trace("sync.tick.forwarded", "trigger", trigger, "changed", false)
	} else {
		l.logger.Debug("sync.tick.forwarded", "trigger", trigger, "changed", true, "recipe", current.Name)
	}
	return current, nil
}

func (l *Loop) fail(trigger Trigger, stage string, err error) {
	l.record(func(s *Stats) {
		s.Failures++
		s.LastError = err.Error()
	})
	l.logger.Error("sync.tick.failed", "trigger", trigger, "stage", stage, "error", err)
}

func (l *Loop) record(update func(*Stats)) {
	l.mu.Lock()
	update(&l.stats)
	l.mu.Unlock()
}
