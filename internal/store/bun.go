package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-recipes/internal/identity"
	"github.com/goliatone/go-recipes/recipe"
)

// Document is the row persisted for one key. Payload holds the JSON record so
// the same schema check runs for every driver.
type Document struct {
	bun.BaseModel `bun:"table:recipe_documents,alias:rd"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	SessionKey string    `bun:"session_key,notnull" json:"session_key"`
	Payload    string    `bun:"payload,notnull" json:"payload"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// NewDocumentRepository builds the go-repository-bun repository for
// documents, looked up by session key.
func NewDocumentRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(d *Document) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Document, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "session_key"
		},
		GetIdentifierValue: func(d *Document) string {
			return d.SessionKey
		},
	})
}

// BunStore persists documents through go-repository-bun, optionally behind a
// go-repository-cache read-through cache.
type BunStore struct {
	repo repository.Repository[*Document]
	now  func() time.Time
}

// NewBunStore wraps db without caching.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache wraps the repository with cacheService when both the
// service and serializer are provided.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	var repo repository.Repository[*Document] = NewDocumentRepository(db)
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(repo, cacheService, keySerializer)
	}
	return &BunStore{repo: repo, now: time.Now}
}

func (s *BunStore) Load(ctx context.Context, key string) (*recipe.Recipe, error) {
	doc, err := s.find(ctx, key)
	if err != nil {
		return nil, err
	}
	r, err := Decode([]byte(doc.Payload))
	if err != nil {
		return nil, err
	}
	return loaded(r), nil
}

func (s *BunStore) Save(ctx context.Context, key string, r recipe.Recipe) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}

	doc, err := s.find(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		_, err = s.repo.Create(ctx, &Document{
			ID:         identity.DocumentUUID(key),
			SessionKey: key,
			Payload:    string(payload),
			UpdatedAt:  s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("store: create document: %w", err)
		}
		return nil
	case err != nil:
		return err
	}

	doc.Payload = string(payload)
	doc.UpdatedAt = s.now().UTC()
	if _, err := s.repo.Update(ctx, doc); err != nil {
		return fmt.Errorf("store: update document: %w", err)
	}
	return nil
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	doc, err := s.find(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, doc); err != nil {
		return fmt.Errorf("store: delete document: %w", err)
	}
	return nil
}

// find returns the row stored for key without decoding its payload, so Save
// can overwrite a malformed record.
func (s *BunStore) find(ctx context.Context, key string) (*Document, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, notFound(key)
		}
		return nil, fmt.Errorf("store: load document: %w", err)
	}
	return doc, nil
}
