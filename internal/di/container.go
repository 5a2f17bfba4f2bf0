package di

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	editorcmd "github.com/goliatone/go-recipes/internal/commands/editor"
	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/internal/editor"
	recipeshttp "github.com/goliatone/go-recipes/internal/http"
	"github.com/goliatone/go-recipes/internal/identity"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/logging/console"
	"github.com/goliatone/go-recipes/internal/logging/gologger"
	"github.com/goliatone/go-recipes/internal/markdown"
	"github.com/goliatone/go-recipes/internal/runtimeconfig"
	"github.com/goliatone/go-recipes/internal/store"
	"github.com/goliatone/go-recipes/internal/syncloop"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// Container wires the editor of one session from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer

	storeHandle *store.Handle
	recipeStore interfaces.RecipeStore
	storeKey    string
	source      store.Source
	seed        func() recipe.Recipe

	exporter      *markdown.Exporter
	parser        *markdown.GoldmarkParser
	preview       *markdown.Preview
	exportTrigger interfaces.DownloadTrigger

	session  *editor.Session
	loop     *syncloop.Loop
	registry editorcmd.CommandRegistry
	commands *editorcmd.HandlerSet
	api      *recipeshttp.EditorAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogWriter redirects the console provider, which writes to stderr by
// default.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		if w != nil {
			c.logWriter = w
		}
	}
}

// WithStore overrides the store opened from Config.Storage. The caller keeps
// ownership of it.
func WithStore(s interfaces.RecipeStore) Option {
	return func(c *Container) {
		if s != nil {
			c.recipeStore = s
		}
	}
}

// WithSeed replaces recipe.Seed as the recipe offered when nothing is stored.
func WithSeed(seed func() recipe.Recipe) Option {
	return func(c *Container) {
		if seed != nil {
			c.seed = seed
		}
	}
}

// WithExportTrigger overrides the export directory from Config.Export.
func WithExportTrigger(trigger interfaces.DownloadTrigger) Option {
	return func(c *Container) {
		if trigger != nil {
			c.exportTrigger = trigger
		}
	}
}

// WithCommandRegistry registers every editor command handler with reg.
func WithCommandRegistry(reg editorcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// NewContainer validates cfg, opens the store, loads or seeds the recipe and
// builds the session with its sync loop, commands and HTTP API.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		logWriter: os.Stderr,
		seed:      recipe.Seed,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStore(ctx); err != nil {
		return nil, err
	}
	if err := c.configureSession(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		c.Close()
		return nil, err
	}

	logging.RootLogger(c.loggerProvider).Info("recipes.container.ready",
		"driver", c.Config.Storage.Driver,
		"session", c.session.Key(),
		"source", c.source,
		"sync_mode", c.Config.Sync.Mode,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: c.logWriter}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStore(ctx context.Context) error {
	c.storeKey = identity.SessionUUID(c.Config.Session.Key).String()
	if c.recipeStore != nil {
		return nil
	}
	storage := c.Config.Storage
	handle, err := store.Open(ctx, store.Options{
		Driver: store.Driver(storage.Driver),
		Path:   storage.Path,
		DSN:    storage.DSN,
		Cache: store.CacheOptions{
			Enabled: storage.Cache.Enabled,
			TTL:     storage.Cache.TTL.Std(),
		},
	})
	if err != nil {
		return fmt.Errorf("di: open store: %w", err)
	}
	c.storeHandle = handle
	c.recipeStore = handle.Store
	return nil
}

func (c *Container) configureSession(ctx context.Context) error {
	sessionKey := identity.NormalizeSessionKey(c.Config.Session.Key)
	storeLogger := logging.WithStoreContext(logging.StoreLogger(c.loggerProvider), c.Config.Storage.Driver, sessionKey)

	initial, source, err := store.LoadOrSeed(ctx, c.recipeStore, c.storeKey, c.seed(), storeLogger)
	if err != nil {
		return fmt.Errorf("di: load recipe: %w", err)
	}
	c.source = source

	c.exporter = markdown.NewExporter(markdown.WithFrontmatter(c.Config.Export.Frontmatter))
	if c.exportTrigger == nil {
		c.exportTrigger = download.Directory{Dir: c.Config.Export.Dir}
	}

	persist := syncloop.StoreSink{Store: c.recipeStore, Key: c.storeKey}
	c.session = editor.New(sessionKey, initial,
		editor.WithLogger(logging.EditorLogger(c.loggerProvider)),
		editor.WithSubmitSink(syncloop.SinkFunc(func(ctx context.Context, _ recipe.Recipe) error {
			return c.loop.Flush(ctx)
		})),
		editor.WithExportSink(syncloop.ExportSink{Exporter: c.exporter, Trigger: c.exportTrigger}),
	)

	loop, err := syncloop.New(c.session, persist,
		syncloop.WithMode(syncloop.Mode(strings.ToLower(strings.TrimSpace(c.Config.Sync.Mode)))),
		syncloop.WithInterval(c.Config.Sync.Interval.Std()),
		syncloop.WithLogger(logging.SyncLogger(c.loggerProvider)),
	)
	if err != nil {
		return fmt.Errorf("di: sync loop: %w", err)
	}
	c.loop = loop

	markdownCfg := c.Config.Markdown
	c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: markdownCfg.Extensions,
		HardWraps:  markdownCfg.HardWraps,
		RawHTML:    markdownCfg.RawHTML,
	})
	c.preview = markdown.NewPreview(c.exporter, c.parser, logging.MarkdownLogger(c.loggerProvider))
	return nil
}

func (c *Container) configureCommands() error {
	set, err := editorcmd.RegisterEditorCommands(c.registry, editorcmd.Dependencies{
		Editor:   c.session,
		Store:    c.recipeStore,
		StoreKey: c.storeKey,
		Exporter: c.exporter,
		Trigger:  c.exportTrigger,
		Flusher:  c.loop,
		Seed:     c.seed,
	}, c.loggerProvider)
	if err != nil {
		return fmt.Errorf("di: register commands: %w", err)
	}
	c.commands = set

	c.api = recipeshttp.NewEditorAPI(
		recipeshttp.WithBasePath(c.Config.HTTP.BasePath),
		recipeshttp.WithSession(c.session),
		recipeshttp.WithCommands(set),
		recipeshttp.WithPreview(c.preview),
		recipeshttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	return nil
}

// Handler returns a mux serving the editor API.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := c.api.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Close releases the store opened by the container. Stores passed through
// WithStore are left open.
func (c *Container) Close() error {
	if c == nil || c.storeHandle == nil {
		return nil
	}
	err := c.storeHandle.Close()
	c.storeHandle = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Store() interfaces.RecipeStore { return c.recipeStore }

// StoreKey is the persistence key derived from the session key.
func (c *Container) StoreKey() string { return c.storeKey }

// Source reports whether the session started from stored state or the seed.
func (c *Container) Source() store.Source { return c.source }

func (c *Container) Session() *editor.Session { return c.session }

func (c *Container) Loop() *syncloop.Loop { return c.loop }

func (c *Container) Commands() *editorcmd.HandlerSet { return c.commands }

func (c *Container) EditorAPI() *recipeshttp.EditorAPI { return c.api }

func (c *Container) Exporter() *markdown.Exporter { return c.exporter }

func (c *Container) Preview() *markdown.Preview { return c.preview }

// Seed returns a fresh copy of the configured seed recipe.
func (c *Container) Seed() recipe.Recipe { return c.seed() }
