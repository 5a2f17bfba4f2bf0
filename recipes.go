package recipes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	editorcmd "github.com/goliatone/go-recipes/internal/commands/editor"
	"github.com/goliatone/go-recipes/internal/di"
	"github.com/goliatone/go-recipes/internal/editor"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/markdown"
	"github.com/goliatone/go-recipes/internal/syncloop"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// Recipe is the plain value the editor edits.
type Recipe = recipe.Recipe

// Option overrides parts of the wiring, see the di package.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithLogWriter       = di.WithLogWriter
	WithStore           = di.WithStore
	WithSeed            = di.WithSeed
	WithExportTrigger   = di.WithExportTrigger
	WithCommandRegistry = di.WithCommandRegistry
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Module represents the top level recipe editor runtime façade.
type Module struct {
	container *di.Container
}

// New constructs the editor for cfg. The session is loaded from storage, or
// seeded when nothing was persisted under the session key.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Session() *editor.Session {
	return m.container.Session()
}

// Commands returns the handlers registered for the editor commands.
func (m *Module) Commands() *editorcmd.HandlerSet {
	return m.container.Commands()
}

func (m *Module) Loop() *syncloop.Loop {
	return m.container.Loop()
}

func (m *Module) Store() interfaces.RecipeStore {
	return m.container.Store()
}

// Exporter returns the markdown formatter used for exports.
func (m *Module) Exporter() *markdown.Exporter {
	return m.container.Exporter()
}

// Recipe decodes the current form into a recipe.
func (m *Module) Recipe(ctx context.Context) (Recipe, error) {
	return m.container.Session().Decode(ctx)
}

// Handler returns the HTTP handler serving the form and its JSON API.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Serve listens on Config.HTTP.Addr and blocks until ctx is done.
func (m *Module) Serve(ctx context.Context) error {
	addr := m.container.Config.HTTP.Addr
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("recipes: listen %s: %w", addr, err)
	}
	return m.ServeListener(ctx, ln)
}

// ServeListener serves the editor on ln while the sync loop forwards edits to
// the store. When ctx is done the server drains and the loop flushes the
// final state before returning.
func (m *Module) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := m.Handler()
	if err != nil {
		ln.Close()
		return err
	}
	logger := logging.HTTPLogger(m.container.LoggerProvider())
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return m.container.Loop().Run(groupCtx)
	})
	group.Go(func() error {
		logger.Info("http.server.listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("recipes: serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http.server.shutdown_failed", "error", err)
			return err
		}
		logger.Info("http.server.stopped")
		return nil
	})
	return group.Wait()
}

// Close releases the storage opened by New.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
