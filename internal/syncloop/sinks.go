package syncloop

import (
	"context"
	"errors"

	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// SinkFunc adapts a function to interfaces.RecipeSink.
type SinkFunc func(ctx context.Context, r recipe.Recipe) error

func (f SinkFunc) Forward(ctx context.Context, r recipe.Recipe) error {
	return f(ctx, r)
}

// StoreSink persists every forwarded recipe under Key, replacing what was
// stored before.
type StoreSink struct {
	Store interfaces.RecipeStore
	Key   string
}

func (s StoreSink) Forward(ctx context.Context, r recipe.Recipe) error {
	if s.Store == nil {
		return errors.New("syncloop: store sink has no store")
	}
	return s.Store.Save(ctx, s.Key, r)
}

// ExportSink formats the recipe as markdown and offers it for download.
// Filename defaults to download.Filename.
type ExportSink struct {
	Exporter interfaces.MarkdownExporter
	Trigger  interfaces.DownloadTrigger
	Filename func(recipe.Recipe) string
}

func (s ExportSink) Forward(ctx context.Context, r recipe.Recipe) error {
	if s.Exporter == nil || s.Trigger == nil {
		return errors.New("syncloop: export sink is missing its exporter or trigger")
	}
	name := download.Filename
	if s.Filename != nil {
		name = s.Filename
	}
	return s.Trigger.Offer(ctx, name(r), s.Exporter.Format(r))
}

var (
	_ interfaces.RecipeSink = SinkFunc(nil)
	_ interfaces.RecipeSink = StoreSink{}
	_ interfaces.RecipeSink = ExportSink{}
)
