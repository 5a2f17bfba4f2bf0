package editorcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recipes/internal/commands"
	"github.com/goliatone/go-recipes/internal/commands/fixtures"
	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/internal/editor"
	"github.com/goliatone/go-recipes/internal/markdown"
	"github.com/goliatone/go-recipes/internal/store"
	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/recipe"
)

const testStoreKey = "test-session"

func newTestSession(t *testing.T, initial recipe.Recipe) *editor.Session {
	t.Helper()
	next := 0
	return editor.New("test", initial, editor.WithViewOptions(view.WithIDGenerator(func() string {
		next++
		return fmt.Sprintf("n%d", next)
	})))
}

func inspect(t *testing.T, s *editor.Session, fn func(root *view.RecipeView) string) string {
	t.Helper()
	var id string
	if err := s.Inspect(func(root *view.RecipeView) error {
		id = fn(root)
		return nil
	}); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	return id
}

func decode(t *testing.T, s *editor.Session) recipe.Recipe {
	t.Helper()
	r, err := s.Decode(context.Background())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return r
}

func TestEditFieldHandlerUpdatesSession(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewEditFieldHandler(session, nil)

	nameID := inspect(t, session, func(root *view.RecipeView) string { return string(root.Name.ID()) })
	if err := handler.Execute(context.Background(), EditFieldCommand{NodeID: nameID, Value: "פוקאצ'ה"}); err != nil {
		t.Fatalf("execute edit: %v", err)
	}

	if got := decode(t, session).Name; got != "פוקאצ'ה" {
		t.Fatalf("expected edited name, got %q", got)
	}
}

func TestEditFieldHandlerRequiresNodeID(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewEditFieldHandler(session, nil)

	err := handler.Execute(context.Background(), EditFieldCommand{NodeID: "  ", Value: "x"})
	if !commands.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if session.Version() != 0 {
		t.Fatalf("expected no change, got version %d", session.Version())
	}
}

func TestEditFieldHandlerUnknownNode(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewEditFieldHandler(session, nil)

	err := handler.Execute(context.Background(), EditFieldCommand{NodeID: "missing", Value: "x"})
	if !errors.Is(err, view.ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
	if commands.IsValidationError(err) {
		t.Fatalf("unknown node is not a validation error: %v", err)
	}
}

func TestActivateControlHandlerAddsIngredient(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewActivateControlHandler(session, nil)

	addID := inspect(t, session, func(root *view.RecipeView) string {
		return string(root.Sections.Entry(0).Item.Ingredients.Add.ID())
	})
	if err := handler.Execute(context.Background(), ActivateControlCommand{NodeID: addID}); err != nil {
		t.Fatalf("execute activate: %v", err)
	}

	got := decode(t, session).Sections[0].Ingredients
	want := recipe.IngredientList{"קמח", "מים", "שמרים", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ingredients mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRecipeHandlerPersistsAndReportsIssues(t *testing.T) {
	session := newTestSession(t, recipe.Empty())
	memory := store.NewMemoryStore()
	handler := NewSaveRecipeHandler(session, memory, testStoreKey, nil)

	var result SaveResult
	if err := handler.Execute(context.Background(), SaveRecipeCommand{Result: &result}); err != nil {
		t.Fatalf("execute save: %v", err)
	}

	stored, err := memory.Load(context.Background(), testStoreKey)
	if err != nil {
		t.Fatalf("load saved recipe: %v", err)
	}
	if diff := cmp.Diff(recipe.Empty(), *stored); diff != "" {
		t.Fatalf("stored recipe mismatch (-want +got):\n%s", diff)
	}
	if result.Issues == nil {
		t.Fatal("expected advisory issues for a blank recipe")
	}
	if diff := cmp.Diff(recipe.Empty(), result.Recipe); diff != "" {
		t.Fatalf("result recipe mismatch (-want +got):\n%s", diff)
	}
}

type stubFlusher struct {
	calls int
	saved recipe.Recipe
	err   error
}

func (f *stubFlusher) FlushRecipe(context.Context) (recipe.Recipe, error) {
	f.calls++
	return f.saved, f.err
}

func TestFlushingSaveRecipeHandlerUsesFlusher(t *testing.T) {
	flusher := &stubFlusher{saved: recipe.Seed()}
	handler := NewFlushingSaveRecipeHandler(flusher, nil)

	var result SaveResult
	if err := handler.Execute(context.Background(), SaveRecipeCommand{Result: &result}); err != nil {
		t.Fatalf("execute save: %v", err)
	}
	if flusher.calls != 1 {
		t.Fatalf("expected one flush, got %d", flusher.calls)
	}
	if diff := cmp.Diff(recipe.Seed(), result.Recipe); diff != "" {
		t.Fatalf("result recipe mismatch (-want +got):\n%s", diff)
	}

	boom := errors.New("boom")
	flusher.err = boom
	if err := handler.Execute(context.Background(), SaveRecipeCommand{}); !errors.Is(err, boom) {
		t.Fatalf("expected flush error, got %v", err)
	}
}

func TestSaveRecipeHandlerWithoutStore(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewSaveRecipeHandler(session, nil, testStoreKey, nil)

	if err := handler.Execute(context.Background(), SaveRecipeCommand{}); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestExportRecipeHandlerOffersMarkdown(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	buffer := download.NewBuffer()
	handler := NewExportRecipeHandler(session, markdown.NewExporter(), buffer, nil)

	if err := handler.Execute(context.Background(), ExportRecipeCommand{Filename: "pizza.md"}); err != nil {
		t.Fatalf("execute export: %v", err)
	}

	offer, ok := buffer.Last()
	if !ok {
		t.Fatal("expected an offered download")
	}
	if offer.Filename != "pizza.md" {
		t.Fatalf("expected filename pizza.md, got %q", offer.Filename)
	}
	if !strings.HasPrefix(offer.Text, "# פיצה\n") {
		t.Fatalf("unexpected markdown:\n%s", offer.Text)
	}
}

func TestExportRecipeHandlerPrefersMessageTrigger(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	fallback := download.NewBuffer()
	explicit := download.NewBuffer()
	handler := NewExportRecipeHandler(session, markdown.NewExporter(), fallback, nil)

	if err := handler.Execute(context.Background(), ExportRecipeCommand{Trigger: explicit}); err != nil {
		t.Fatalf("execute export: %v", err)
	}
	if len(fallback.Offers()) != 0 {
		t.Fatalf("expected default trigger unused, got %d offers", len(fallback.Offers()))
	}
	if len(explicit.Offers()) != 1 {
		t.Fatalf("expected one offer on the message trigger, got %d", len(explicit.Offers()))
	}
}

func TestExportRecipeHandlerRejectsPaths(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewExportRecipeHandler(session, markdown.NewExporter(), download.NewBuffer(), nil)

	err := handler.Execute(context.Background(), ExportRecipeCommand{Filename: "../escape.md"})
	if !commands.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingTrigger struct {
	calls int
}

func (f *failingTrigger) Offer(context.Context, string, string) error {
	f.calls++
	return errors.New("disk full")
}

func TestExportRecipeHandlerLogsTriggerFailure(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	trigger := &failingTrigger{}
	handler := NewExportRecipeHandler(session, markdown.NewExporter(), trigger, nil)

	if err := handler.Execute(context.Background(), ExportRecipeCommand{}); err != nil {
		t.Fatalf("expected trigger failure to be logged only, got %v", err)
	}
	if trigger.calls != 1 {
		t.Fatalf("expected one offer attempt, got %d", trigger.calls)
	}
}

func TestExportRecipeHandlerWithoutTrigger(t *testing.T) {
	session := newTestSession(t, recipe.Seed())
	handler := NewExportRecipeHandler(session, markdown.NewExporter(), nil, nil)

	if err := handler.Execute(context.Background(), ExportRecipeCommand{}); !errors.Is(err, ErrNoTrigger) {
		t.Fatalf("expected ErrNoTrigger, got %v", err)
	}
}

func TestResetRecipeHandler(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, recipe.Seed())
	memory := store.NewMemoryStore()
	if err := memory.Save(ctx, testStoreKey, recipe.Seed()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	handler := NewResetRecipeHandler(session, memory, testStoreKey, nil, nil)

	if err := handler.Execute(ctx, ResetRecipeCommand{Empty: true}); err != nil {
		t.Fatalf("execute reset: %v", err)
	}
	if diff := cmp.Diff(recipe.Empty(), decode(t, session)); diff != "" {
		t.Fatalf("reset recipe mismatch (-want +got):\n%s", diff)
	}
	if _, err := memory.Load(ctx, testStoreKey); err != nil {
		t.Fatalf("expected stored recipe kept without purge, got %v", err)
	}

	if err := handler.Execute(ctx, ResetRecipeCommand{Purge: true}); err != nil {
		t.Fatalf("execute purge: %v", err)
	}
	if diff := cmp.Diff(recipe.Seed(), decode(t, session)); diff != "" {
		t.Fatalf("seeded recipe mismatch (-want +got):\n%s", diff)
	}
	if _, err := memory.Load(ctx, testStoreKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected purged store, got %v", err)
	}
}

func TestRegisterEditorCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	session := newTestSession(t, recipe.Seed())

	set, err := RegisterEditorCommands(reg, Dependencies{
		Editor:   session,
		Store:    store.NewMemoryStore(),
		StoreKey: testStoreKey,
		Exporter: markdown.NewExporter(),
		Trigger:  download.NewBuffer(),
	}, nil)
	if err != nil {
		t.Fatalf("register editor commands: %v", err)
	}
	if len(reg.Handlers) != 5 {
		t.Fatalf("expected five handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Edit || reg.Handlers[4] != set.Reset {
		t.Fatalf("unexpected registration order %#v", reg.Handlers)
	}
}

func TestRegisterEditorCommandsRequiresEditor(t *testing.T) {
	if _, err := RegisterEditorCommands(nil, Dependencies{Exporter: markdown.NewExporter()}, nil); err == nil {
		t.Fatal("expected error for missing editor")
	}
}

func TestRegisterEditorCommandsPropagatesRegistryError(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	reg.Err = errors.New("registry down")

	_, err := RegisterEditorCommands(reg, Dependencies{
		Editor:   newTestSession(t, recipe.Seed()),
		Exporter: markdown.NewExporter(),
	}, nil)
	if !errors.Is(err, reg.Err) {
		t.Fatalf("expected registry error, got %v", err)
	}
}
