package editorcmd

import (
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

const (
	editFieldMessageType       = "recipes.editor.edit_field"
	activateControlMessageType = "recipes.editor.activate_control"
	saveRecipeMessageType      = "recipes.editor.save"
	exportRecipeMessageType    = "recipes.editor.export"
	resetRecipeMessageType     = "recipes.editor.reset"
)

func nodeIDRule(code string) validation.Rule {
	return validation.By(func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, "node id is required")
		}
		return nil
	})
}

var utf8Rule = validation.By(func(value any) error {
	if !utf8.ValidString(value.(string)) {
		return validation.NewError("recipes.editor.edit_field.value_invalid_utf8", "value must be valid UTF-8")
	}
	return nil
})

// EditFieldCommand replaces the value of one field of the live view. An
// empty Value is accepted; required-ness is enforced on submit only.
type EditFieldCommand struct {
	NodeID string `json:"node_id"`
	Value  string `json:"value"`
}

// Type implements command.Message.
func (EditFieldCommand) Type() string { return editFieldMessageType }

// Validate ensures the field is addressed and the value is valid UTF-8.
func (cmd EditFieldCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.NodeID, validation.Required, nodeIDRule("recipes.editor.edit_field.node_id_required")),
		validation.Field(&cmd.Value, utf8Rule),
	)
}

// ActivateControlCommand presses one control of the live view.
type ActivateControlCommand struct {
	NodeID string `json:"node_id"`
}

// Type implements command.Message.
func (ActivateControlCommand) Type() string { return activateControlMessageType }

// Validate ensures the control is addressed.
func (cmd ActivateControlCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.NodeID, validation.Required, nodeIDRule("recipes.editor.activate_control.node_id_required")),
	)
}

// SaveRecipeCommand decodes the live view and persists it under the session
// key. When Result is set the handler fills it with what was saved.
type SaveRecipeCommand struct {
	Result *SaveResult `json:"-"`
}

// SaveResult reports the saved recipe. Issues holds the advisory output of
// recipe.Validate; it never prevents the save.
type SaveResult struct {
	Recipe recipe.Recipe
	Issues error
}

// Type implements command.Message.
func (SaveRecipeCommand) Type() string { return saveRecipeMessageType }

// Validate has nothing to check.
func (SaveRecipeCommand) Validate() error { return nil }

// ExportRecipeCommand formats the live recipe as markdown and offers it
// through Trigger, or through the handler's default trigger when nil.
// Filename defaults to the slug of the recipe name.
type ExportRecipeCommand struct {
	Filename string                     `json:"filename,omitempty"`
	Trigger  interfaces.DownloadTrigger `json:"-"`
}

// Type implements command.Message.
func (ExportRecipeCommand) Type() string { return exportRecipeMessageType }

// Validate rejects filenames that would escape the target directory.
func (cmd ExportRecipeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Filename, validation.By(func(value any) error {
			name := value.(string)
			if name == "" {
				return nil
			}
			if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
				return validation.NewError("recipes.editor.export.filename_invalid", "filename must not contain a path")
			}
			return nil
		})),
	)
}

// ResetRecipeCommand rebuilds the live view from the seed recipe, or from
// recipe.Empty when Empty is set. Purge also deletes the persisted state.
type ResetRecipeCommand struct {
	Empty bool `json:"empty,omitempty"`
	Purge bool `json:"purge,omitempty"`
}

// Type implements command.Message.
func (ResetRecipeCommand) Type() string { return resetRecipeMessageType }

// Validate has nothing to check.
func (ResetRecipeCommand) Validate() error { return nil }
