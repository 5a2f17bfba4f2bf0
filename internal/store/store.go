// Package store persists the editor's recipe between runs. Every driver
// stores the plain record shape as JSON text and validates it on the way back
// in, so a payload that no longer parses is reported as ErrMalformed and the
// caller can fall back to the seed.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

var (
	// ErrNotFound reports that nothing is persisted under the key.
	ErrNotFound = errors.New("store: recipe not found")
	// ErrMalformed reports a persisted payload that cannot be decoded.
	ErrMalformed = errors.New("store: malformed recipe payload")
	// ErrInvalidKey reports an empty or unusable persistence key.
	ErrInvalidKey = errors.New("store: invalid key")
	// ErrUnknownDriver reports an unsupported storage driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// Driver names a storage backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverBolt     Driver = "bolt"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Drivers lists every supported driver.
var Drivers = []Driver{DriverMemory, DriverFile, DriverBolt, DriverSQLite, DriverPostgres}

var _ interfaces.RecipeStore = (*MemoryStore)(nil)

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	return nil
}

// notFound wraps ErrNotFound with the key that missed.
func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

// loaded returns a pointer to a fresh copy of r, matching the Load contract.
func loaded(r recipe.Recipe) *recipe.Recipe {
	out := r.Normalize()
	return &out
}
