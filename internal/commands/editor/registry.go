package editorcmd

import (
	"errors"

	"github.com/goliatone/go-recipes/internal/commands"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Dependencies are the collaborators shared by the editor handlers.
type Dependencies struct {
	Editor   Editor
	Store    interfaces.RecipeStore
	StoreKey string
	Exporter interfaces.MarkdownExporter
	// Trigger is the default download target of exports.
	Trigger interfaces.DownloadTrigger
	// Flusher, when set, carries saves instead of Store.
	Flusher Flusher
	Seed    func() recipe.Recipe
}

// HandlerSet groups the handlers built by RegisterEditorCommands.
type HandlerSet struct {
	Edit     *EditFieldHandler
	Activate *ActivateControlHandler
	Save     *SaveRecipeHandler
	Export   *ExportRecipeHandler
	Reset    *ResetRecipeHandler
}

// RegisterEditorCommands builds the editor handlers and registers them with
// reg when one is given.
func RegisterEditorCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if deps.Editor == nil {
		return nil, errors.New("editor command registration: editor is nil")
	}
	if deps.Exporter == nil {
		return nil, errors.New("editor command registration: exporter is nil")
	}

	logger := commands.CommandLogger(provider, "editor")

	save := NewSaveRecipeHandler(deps.Editor, deps.Store, deps.StoreKey, logger)
	if deps.Flusher != nil {
		save = NewFlushingSaveRecipeHandler(deps.Flusher, logger)
	}

	set := &HandlerSet{
		Edit:     NewEditFieldHandler(deps.Editor, logger),
		Activate: NewActivateControlHandler(deps.Editor, logger),
		Save:     save,
		Export:   NewExportRecipeHandler(deps.Editor, deps.Exporter, deps.Trigger, logger),
		Reset:    NewResetRecipeHandler(deps.Editor, deps.Store, deps.StoreKey, deps.Seed, logger),
	}

	if reg != nil {
		for _, handler := range []any{set.Edit, set.Activate, set.Save, set.Export, set.Reset} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
