package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/goliatone/go-recipes/recipe"
)

const lockRetryDelay = 10 * time.Millisecond

// FileStore keeps one JSON file per key inside a directory. A sibling lock
// file guards each key so several processes can share the directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir when missing.
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("store: file driver requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Load(ctx context.Context, key string) (*recipe.Recipe, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	lock := flock.New(path + ".lock")
	if _, err := lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("store: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	r, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return loaded(r), nil
}

// Save writes to a temporary file and renames it over the previous payload,
// so readers see either the old or the new record.
func (s *FileStore) Save(ctx context.Context, key string, r recipe.Recipe) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	payload, err := Encode(r)
	if err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("store: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("store: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: remove %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q is not a plain file name", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
