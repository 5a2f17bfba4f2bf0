package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// Source reports where LoadOrSeed took the recipe from.
type Source string

const (
	SourceStored Source = "stored"
	SourceSeed   Source = "seed"
)

// LoadOrSeed returns the recipe persisted under key. Absent and malformed
// state both yield a copy of seed; a malformed payload is logged and never
// surfaces as an error. Any other failure is returned.
func LoadOrSeed(ctx context.Context, s interfaces.RecipeStore, key string, seed recipe.Recipe, logger interfaces.Logger) (recipe.Recipe, Source, error) {
	if logger == nil {
		logger = logging.NoOp()
	}

	stored, err := s.Load(ctx, key)
	switch {
	case err == nil && stored != nil:
		logger.Debug("store.load.found", "key", key, "sections", len(stored.Sections))
		return stored.Clone(), SourceStored, nil
	case err == nil, errors.Is(err, ErrNotFound):
		logger.Info("store.load.seeded", "key", key)
		return seed.Clone(), SourceSeed, nil
	case errors.Is(err, ErrMalformed):
		logger.Warn("store.load.malformed", "key", key, "error", err)
		return seed.Clone(), SourceSeed, nil
	}
	return recipe.Recipe{}, "", err
}
