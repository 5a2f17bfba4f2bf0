package interfaces

import (
	"context"

	"github.com/goliatone/go-recipes/recipe"
)

// RecipeStore persists the decoded recipe of an editing session under a key.
//
// Load returns an error matching store.ErrNotFound when nothing was saved for
// the key, and one matching store.ErrMalformed when the stored payload cannot
// be decoded. Save always overwrites; there is no merge.
type RecipeStore interface {
	Load(ctx context.Context, key string) (*recipe.Recipe, error)
	Save(ctx context.Context, key string, r recipe.Recipe) error
	Delete(ctx context.Context, key string) error
}

// RecipeSink receives freshly decoded recipes from the sync loop or from an
// explicit user action.
type RecipeSink interface {
	Forward(ctx context.Context, r recipe.Recipe) error
}
