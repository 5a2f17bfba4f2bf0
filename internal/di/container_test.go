package di

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	editorcmd "github.com/goliatone/go-recipes/internal/commands/editor"
	"github.com/goliatone/go-recipes/internal/commands/fixtures"
	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/internal/logging/gologger"
	"github.com/goliatone/go-recipes/internal/runtimeconfig"
	"github.com/goliatone/go-recipes/internal/store"
	"github.com/goliatone/go-recipes/internal/syncloop"
	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/recipe"
)

func newTestContainer(t *testing.T, cfg runtimeconfig.Config, opts ...Option) *Container {
	t.Helper()
	opts = append([]Option{WithLogWriter(&bytes.Buffer{})}, opts...)
	container, err := NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestNewContainerSeedsEmptyStore(t *testing.T) {
	container := newTestContainer(t, runtimeconfig.DefaultConfig())

	if container.Source() != store.SourceSeed {
		t.Fatalf("expected seed source, got %q", container.Source())
	}
	current, err := container.Session().Decode(context.Background())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(recipe.Seed(), current); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
	if container.Session().Key() != "default" {
		t.Fatalf("expected default session key, got %q", container.Session().Key())
	}
}

func TestNewContainerLoadsStoredRecipe(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Session.Key = "Kitchen"
	memory := store.NewMemoryStore()
	stored := recipe.New("לחם", recipe.NewSection("בצק", recipe.IngredientList{"קמח"}, recipe.StepList{}))

	first := newTestContainer(t, cfg, WithStore(memory))
	if err := memory.Save(context.Background(), first.StoreKey(), stored); err != nil {
		t.Fatalf("save: %v", err)
	}

	container := newTestContainer(t, cfg, WithStore(memory))
	if container.Source() != store.SourceStored {
		t.Fatalf("expected stored source, got %q", container.Source())
	}
	current, err := container.Session().Decode(context.Background())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(stored, current); diff != "" {
		t.Fatalf("stored recipe mismatch (-want +got):\n%s", diff)
	}
}

func TestNewContainerFlushPersistsEdits(t *testing.T) {
	ctx := context.Background()
	memory := store.NewMemoryStore()
	container := newTestContainer(t, runtimeconfig.DefaultConfig(), WithStore(memory))

	var nameID view.NodeID
	_ = container.Session().Inspect(func(root *view.RecipeView) error {
		nameID = root.Name.ID()
		return nil
	})
	if err := container.Session().Edit(ctx, nameID, "שקשוקה"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := container.Loop().Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	saved, err := memory.Load(ctx, container.StoreKey())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Name != "שקשוקה" {
		t.Fatalf("expected flushed name, got %q", saved.Name)
	}
}

func TestSaveCommandFlushesThroughSyncLoop(t *testing.T) {
	ctx := context.Background()
	memory := store.NewMemoryStore()
	container := newTestContainer(t, runtimeconfig.DefaultConfig(), WithStore(memory))

	var nameID, submitID view.NodeID
	_ = container.Session().Inspect(func(root *view.RecipeView) error {
		nameID = root.Name.ID()
		submitID = root.Submit.ID()
		return nil
	})
	if err := container.Session().Edit(ctx, nameID, "שקשוקה"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	var result editorcmd.SaveResult
	if err := container.Commands().Save.Execute(ctx, editorcmd.SaveRecipeCommand{Result: &result}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if result.Recipe.Name != "שקשוקה" {
		t.Fatalf("expected saved name in result, got %q", result.Recipe.Name)
	}
	stats := container.Loop().Stats()
	if stats.Forwards != 1 || stats.LastTrigger != syncloop.TriggerFlush {
		t.Fatalf("expected one flush forward, got %+v", stats)
	}

	if _, err := container.Session().Activate(ctx, submitID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := container.Loop().Stats().Forwards; got != 2 {
		t.Fatalf("expected submit to flush the loop, got %d forwards", got)
	}

	saved, err := memory.Load(ctx, container.StoreKey())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Name != "שקשוקה" {
		t.Fatalf("expected persisted name, got %q", saved.Name)
	}
}

func TestNewContainerOpensBoltStore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "bolt"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "recipes.db")

	container := newTestContainer(t, cfg)
	if _, ok := container.Store().(*store.BoltStore); !ok {
		t.Fatalf("expected bolt store, got %T", container.Store())
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Sync.Mode = "hourly"

	if _, err := NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrSyncModeInvalid) {
		t.Fatalf("expected ErrSyncModeInvalid, got %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container := newTestContainer(t, cfg)

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}
	if logger := provider.GetLogger("recipes.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestContainerRegistersCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	container := newTestContainer(t, runtimeconfig.DefaultConfig(), WithCommandRegistry(reg))

	if len(reg.Handlers) != 5 {
		t.Fatalf("expected five registered handlers, got %d", len(reg.Handlers))
	}
	if container.Commands() == nil || container.Commands().Export == nil {
		t.Fatal("expected command handler set")
	}
}

func TestContainerHandlerServesForm(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.HTTP.BasePath = "/recipes"
	container := newTestContainer(t, cfg)

	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "פיצה") {
		t.Fatalf("expected seeded recipe in form:\n%s", rec.Body.String())
	}
}

func TestContainerExportControlUsesTrigger(t *testing.T) {
	ctx := context.Background()
	buffer := download.NewBuffer()
	container := newTestContainer(t, runtimeconfig.DefaultConfig(), WithExportTrigger(buffer))

	var exportID view.NodeID
	_ = container.Session().Inspect(func(root *view.RecipeView) error {
		exportID = root.Export.ID()
		return nil
	})
	if _, err := container.Session().Activate(ctx, exportID); err != nil {
		t.Fatalf("activate export: %v", err)
	}
	offer, ok := buffer.Last()
	if !ok || !strings.HasPrefix(offer.Text, "# פיצה") {
		t.Fatalf("expected exported markdown, got %+v", offer)
	}
}

func TestContainerPreviewDropsRawHTMLWithDefaultConfig(t *testing.T) {
	seed := func() recipe.Recipe {
		return recipe.New("<b>פיצה</b>",
			recipe.NewSection("בצק", recipe.IngredientList{"<script>alert(1)</script>"}, recipe.StepList{`<img src=x onerror="alert(2)">`}),
		)
	}
	container := newTestContainer(t, runtimeconfig.DefaultConfig(), WithSeed(seed))

	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, fragment := range []string{"<script>alert(1)", "<img src=x", "<b>פיצה</b>"} {
		if strings.Contains(body, fragment) {
			t.Fatalf("preview rendered raw HTML %q:\n%s", fragment, body)
		}
	}
}
