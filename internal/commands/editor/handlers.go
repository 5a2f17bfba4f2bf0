package editorcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-recipes/internal/commands"
	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

const (
	editOperation     = "editor.edit_field"
	activateOperation = "editor.activate_control"
	saveOperation     = "editor.save"
	exportOperation   = "editor.export"
	resetOperation    = "editor.reset"
)

var (
	// ErrNoTrigger is returned when an export has neither a message trigger
	// nor a default one.
	ErrNoTrigger = errors.New("editor command: no download trigger")
	// ErrNoStore is returned when saving or purging without a store.
	ErrNoStore = errors.New("editor command: no store configured")
)

var (
	_ command.Commander[EditFieldCommand]       = (*EditFieldHandler)(nil)
	_ command.Commander[ActivateControlCommand] = (*ActivateControlHandler)(nil)
	_ command.Commander[SaveRecipeCommand]      = (*SaveRecipeHandler)(nil)
	_ command.Commander[ExportRecipeCommand]    = (*ExportRecipeHandler)(nil)
	_ command.Commander[ResetRecipeCommand]     = (*ResetRecipeHandler)(nil)
)

// Editor is the slice of editor.Session the handlers drive.
type Editor interface {
	Key() string
	Edit(ctx context.Context, id view.NodeID, value string) error
	Activate(ctx context.Context, id view.NodeID) (view.ControlKind, error)
	Decode(ctx context.Context) (recipe.Recipe, error)
	Reset(ctx context.Context, r recipe.Recipe)
}

// EditFieldHandler applies field edits.
type EditFieldHandler struct {
	inner *commands.Handler[EditFieldCommand]
}

// NewEditFieldHandler binds the handler to an editor.
func NewEditFieldHandler(ed Editor, logger interfaces.Logger, opts ...commands.HandlerOption[EditFieldCommand]) *EditFieldHandler {
	exec := func(ctx context.Context, msg EditFieldCommand) error {
		return ed.Edit(ctx, view.NodeID(msg.NodeID), msg.Value)
	}
	handlerOpts := []commands.HandlerOption[EditFieldCommand]{
		commands.WithLogger[EditFieldCommand](orNoOp(logger)),
		commands.WithOperation[EditFieldCommand](editOperation),
	}
	return &EditFieldHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[EditFieldCommand].
func (h *EditFieldHandler) Execute(ctx context.Context, msg EditFieldCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ActivateControlHandler presses controls. Submit and export controls hand
// the decoded recipe to the sinks configured on the session.
type ActivateControlHandler struct {
	inner *commands.Handler[ActivateControlCommand]
}

// NewActivateControlHandler binds the handler to an editor.
func NewActivateControlHandler(ed Editor, logger interfaces.Logger, opts ...commands.HandlerOption[ActivateControlCommand]) *ActivateControlHandler {
	base := orNoOp(logger)
	exec := func(ctx context.Context, msg ActivateControlCommand) error {
		kind, err := ed.Activate(ctx, view.NodeID(msg.NodeID))
		if err != nil {
			return err
		}
		logging.WithNode(base, msg.NodeID).Debug("editor.command.control_activated", "control", kind)
		return nil
	}
	handlerOpts := []commands.HandlerOption[ActivateControlCommand]{
		commands.WithLogger[ActivateControlCommand](base),
		commands.WithOperation[ActivateControlCommand](activateOperation),
	}
	return &ActivateControlHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ActivateControlCommand].
func (h *ActivateControlHandler) Execute(ctx context.Context, msg ActivateControlCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Flusher forwards the live recipe through the sync loop and reports what
// reached its sink. *syncloop.Loop satisfies it.
type Flusher interface {
	FlushRecipe(ctx context.Context) (recipe.Recipe, error)
}

// SaveRecipeHandler persists the live recipe.
type SaveRecipeHandler struct {
	inner *commands.Handler[SaveRecipeCommand]
}

// NewSaveRecipeHandler saves under storeKey in s.
func NewSaveRecipeHandler(ed Editor, s interfaces.RecipeStore, storeKey string, logger interfaces.Logger, opts ...commands.HandlerOption[SaveRecipeCommand]) *SaveRecipeHandler {
	persist := func(ctx context.Context) (recipe.Recipe, error) {
		if s == nil {
			return recipe.Recipe{}, ErrNoStore
		}
		current, err := ed.Decode(ctx)
		if err != nil {
			return recipe.Recipe{}, err
		}
		if err := s.Save(ctx, storeKey, current); err != nil {
			return recipe.Recipe{}, err
		}
		return current, nil
	}
	return newSaveRecipeHandler(persist, logger, opts...)
}

// NewFlushingSaveRecipeHandler saves by flushing the sync loop, so manual
// saves are ordered with the loop's own forwards.
func NewFlushingSaveRecipeHandler(flusher Flusher, logger interfaces.Logger, opts ...commands.HandlerOption[SaveRecipeCommand]) *SaveRecipeHandler {
	persist := func(ctx context.Context) (recipe.Recipe, error) {
		if flusher == nil {
			return recipe.Recipe{}, ErrNoStore
		}
		return flusher.FlushRecipe(ctx)
	}
	return newSaveRecipeHandler(persist, logger, opts...)
}

func newSaveRecipeHandler(persist func(context.Context) (recipe.Recipe, error), logger interfaces.Logger, opts ...commands.HandlerOption[SaveRecipeCommand]) *SaveRecipeHandler {
	base := orNoOp(logger)
	exec := func(ctx context.Context, msg SaveRecipeCommand) error {
		current, err := persist(ctx)
		if err != nil {
			return err
		}
		issues := current.Validate()
		if issues != nil {
			base.Warn("editor.command.save.incomplete", "recipe", current.Name, "issues", issues.Error())
		}
		base.Info("editor.command.save.completed", "recipe", current.Name, "sections", len(current.Sections))
		if msg.Result != nil {
			*msg.Result = SaveResult{Recipe: current, Issues: issues}
		}
		return nil
	}
	handlerOpts := []commands.HandlerOption[SaveRecipeCommand]{
		commands.WithLogger[SaveRecipeCommand](base),
		commands.WithOperation[SaveRecipeCommand](saveOperation),
	}
	return &SaveRecipeHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[SaveRecipeCommand].
func (h *SaveRecipeHandler) Execute(ctx context.Context, msg SaveRecipeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportRecipeHandler formats the live recipe and offers it as a download.
// Trigger failures are logged and never fail the command.
type ExportRecipeHandler struct {
	inner *commands.Handler[ExportRecipeCommand]
}

// NewExportRecipeHandler uses trigger when the message carries none. A nil
// default is allowed as long as every message supplies its own.
func NewExportRecipeHandler(ed Editor, exporter interfaces.MarkdownExporter, trigger interfaces.DownloadTrigger, logger interfaces.Logger, opts ...commands.HandlerOption[ExportRecipeCommand]) *ExportRecipeHandler {
	base := orNoOp(logger)
	exec := func(ctx context.Context, msg ExportRecipeCommand) error {
		target := msg.Trigger
		if target == nil {
			target = trigger
		}
		if target == nil {
			return ErrNoTrigger
		}
		current, err := ed.Decode(ctx)
		if err != nil {
			return err
		}
		filename := msg.Filename
		if filename == "" {
			filename = download.Filename(current)
		}
		if err := target.Offer(ctx, filename, exporter.Format(current)); err != nil {
			base.Error("editor.command.export.offer_failed", "filename", filename, "error", err)
			return nil
		}
		base.Info("editor.command.export.completed", "recipe", current.Name, "filename", filename)
		return nil
	}
	handlerOpts := []commands.HandlerOption[ExportRecipeCommand]{
		commands.WithLogger[ExportRecipeCommand](base),
		commands.WithOperation[ExportRecipeCommand](exportOperation),
	}
	return &ExportRecipeHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ExportRecipeCommand].
func (h *ExportRecipeHandler) Execute(ctx context.Context, msg ExportRecipeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ResetRecipeHandler rebuilds the live view from a fresh recipe.
type ResetRecipeHandler struct {
	inner *commands.Handler[ResetRecipeCommand]
}

// NewResetRecipeHandler resets to seed, or to recipe.Seed when seed is nil.
// s may be nil when purging is never requested.
func NewResetRecipeHandler(ed Editor, s interfaces.RecipeStore, storeKey string, seed func() recipe.Recipe, logger interfaces.Logger, opts ...commands.HandlerOption[ResetRecipeCommand]) *ResetRecipeHandler {
	base := orNoOp(logger)
	if seed == nil {
		seed = recipe.Seed
	}
	exec := func(ctx context.Context, msg ResetRecipeCommand) error {
		if msg.Purge {
			if s == nil {
				return ErrNoStore
			}
			if err := s.Delete(ctx, storeKey); err != nil {
				return err
			}
		}
		next := seed()
		if msg.Empty {
			next = recipe.Empty()
		}
		ed.Reset(ctx, next)
		base.Info("editor.command.reset.completed", "empty", msg.Empty, "purged", msg.Purge)
		return nil
	}
	handlerOpts := []commands.HandlerOption[ResetRecipeCommand]{
		commands.WithLogger[ResetRecipeCommand](base),
		commands.WithOperation[ResetRecipeCommand](resetOperation),
	}
	return &ResetRecipeHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ResetRecipeCommand].
func (h *ResetRecipeHandler) Execute(ctx context.Context, msg ResetRecipeCommand) error {
	return h.inner.Execute(ctx, msg)
}

func orNoOp(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
