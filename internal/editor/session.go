// Package editor owns the live view of one recipe and serializes every
// callback against it. A Session is the single logical thread of the editor:
// field edits, control activations, decodes and resets run one at a time and
// to completion, in the order they acquire the session.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// ErrNoSink is returned when submit or export is activated without a sink
// configured for it.
var ErrNoSink = errors.New("editor: no sink configured")

// Session holds one live view and the collaborators it hands decoded recipes
// to.
type Session struct {
	mu sync.Mutex

	key         string
	root        *view.RecipeView
	builderOpts []view.Option
	version     uint64

	changes chan struct{}
	submit  interfaces.RecipeSink
	export  interfaces.RecipeSink
	logger  interfaces.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithViewOptions forwards options to every view builder the session creates.
func WithViewOptions(opts ...view.Option) Option {
	return func(s *Session) {
		s.builderOpts = append(s.builderOpts, opts...)
	}
}

// WithSubmitSink receives the decoded recipe when the submit control is
// activated.
func WithSubmitSink(sink interfaces.RecipeSink) Option {
	return func(s *Session) {
		s.submit = sink
	}
}

// WithExportSink receives the decoded recipe when the export control is
// activated.
func WithExportSink(sink interfaces.RecipeSink) Option {
	return func(s *Session) {
		s.export = sink
	}
}

// New builds the view of initial and returns a session around it.
func New(key string, initial recipe.Recipe, opts ...Option) *Session {
	s := &Session{
		key:     key,
		changes: make(chan struct{}, 1),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = logging.WithFields(s.logger, map[string]any{"session": key})
	s.root = s.build(initial)
	return s
}

// Key returns the session key.
func (s *Session) Key() string { return s.key }

// Version increases with every change applied to the view.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Changes delivers a notification after edits, additions, removals and
// resets. Notifications coalesce: a receiver that falls behind sees one
// pending signal, never a backlog.
func (s *Session) Changes() <-chan struct{} {
	return s.changes
}

// Edit replaces the value of a field.
func (s *Session) Edit(ctx context.Context, id view.NodeID, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	err := s.root.Index().SetValue(id, value)
	if err == nil {
		s.touch()
	}
	s.mu.Unlock()

	if err != nil {
		logging.WithNode(s.logger, string(id)).Debug("editor.edit.rejected", "error", err)
		return err
	}
	return nil
}

// Activate runs the control addressed by id. Add and remove controls change
// the view in place. Submit and export decode the current view and hand the
// result to the matching sink once the session is released. Export sink
// failures are logged and not returned.
func (s *Session) Activate(ctx context.Context, id view.NodeID) (view.ControlKind, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	kind, err := s.root.Index().Activate(id)
	if err != nil {
		s.mu.Unlock()
		logging.WithNode(s.logger, string(id)).Debug("editor.activate.rejected", "error", err)
		return "", err
	}

	var (
		sink    interfaces.RecipeSink
		current recipe.Recipe
	)
	switch kind {
	case view.ControlSubmit, view.ControlExport:
		sink = s.submit
		if kind == view.ControlExport {
			sink = s.export
		}
		current, err = view.DecodeRecipe(s.root)
	default:
		s.touch()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("editor.decode.failed", "control", kind, "error", err)
		return kind, err
	}

	switch kind {
	case view.ControlSubmit, view.ControlExport:
		if sink == nil {
			return kind, fmt.Errorf("%w for %s", ErrNoSink, kind)
		}
		if err := sink.Forward(ctx, current); err != nil {
			s.logger.Error("editor.handoff.failed", "control", kind, "error", err)
			if kind == view.ControlExport {
				return kind, nil
			}
			return kind, err
		}
		s.logger.Info("editor.handoff.completed", "control", kind, "recipe", current.Name)
	default:
		s.logger.Debug("editor.control.activated", "control", kind, "node_id", id)
	}
	return kind, nil
}

// Decode reads the current view into a fresh recipe.
func (s *Session) Decode(ctx context.Context) (recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return recipe.Recipe{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.DecodeRecipe(s.root)
}

// Reset discards the live view and builds a new one from r. Identifiers of
// the previous view stop resolving.
func (s *Session) Reset(ctx context.Context, r recipe.Recipe) {
	s.mu.Lock()
	s.root = s.build(r)
	s.touch()
	s.mu.Unlock()

	s.logger.Info("editor.reset", "recipe", r.Name, "sections", len(r.Sections))
}

// Inspect calls fn with the live view while holding the session. fn must
// not retain the view or call back into the session.
func (s *Session) Inspect(fn func(root *view.RecipeView) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.root)
}

func (s *Session) build(r recipe.Recipe) *view.RecipeView {
	return view.NewBuilder(s.builderOpts...).BuildRecipe(r)
}

// touch records a change. Callers hold mu.
func (s *Session) touch() {
	s.version++
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
