package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-recipes/internal/identity"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

var dbCounter atomic.Int64

// rawWriter lets contract tests plant payloads that Save would never write.
type rawWriter func(t *testing.T, key string, payload []byte)

type driverCase struct {
	name string
	open  func(t *testing.T) (interfaces.RecipeStore, rawWriter)
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:recipes_store_%d?mode=memory&cache=shared", dbCounter.Add(1))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func drivers() []driverCase {
	return []driverCase{
		{
			name: "memory",
			open: func(t *testing.T) (interfaces.RecipeStore, rawWriter) {
				s := NewMemoryStore()
				return s, func(_ *testing.T, key string, payload []byte) { s.PutRaw(key, payload) }
			},
		},
		{
			name: "file",
			open: func(t *testing.T) (interfaces.RecipeStore, rawWriter) {
				s, err := NewFileStore(filepath.Join(t.TempDir(), "recipes"))
				if err != nil {
					t.Fatalf("NewFileStore() error = %v", err)
				}
				return s, func(t *testing.T, key string, payload []byte) {
					writeFile(t, filepath.Join(s.Dir(), key+".json"), payload)
				}
			},
		},
		{
			name: "bolt",
			open: func(t *testing.T) (interfaces.RecipeStore, rawWriter) {
				s, err := OpenBoltStore(filepath.Join(t.TempDir(), "recipes.db"))
				if err != nil {
					t.Fatalf("OpenBoltStore() error = %v", err)
				}
				t.Cleanup(func() { _ = s.Close() })
				return s, func(t *testing.T, key string, payload []byte) {
					if err := s.PutRaw(key, payload); err != nil {
						t.Fatalf("PutRaw() error = %v", err)
					}
				}
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) (interfaces.RecipeStore, rawWriter) {
				db := newTestDB(t)
				return NewBunStore(db), func(t *testing.T, key string, payload []byte) {
					_, err := db.NewInsert().Model(&Document{
						ID:         identity.DocumentUUID(key),
						SessionKey: key,
						Payload:    string(payload),
						UpdatedAt:  time.Now().UTC(),
					}).Exec(context.Background())
					if err != nil {
						t.Fatalf("insert raw document: %v", err)
					}
				}
			},
		},
	}
}

func TestStoreContract(t *testing.T) {
	for _, driver := range drivers() {
		t.Run(driver.name, func(t *testing.T) {
			ctx := context.Background()
			s, _ := driver.open(t)

			if _, err := s.Load(ctx, "kitchen"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on empty store, got %v", err)
			}

			if err := s.Save(ctx, "kitchen", recipe.Seed()); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := s.Load(ctx, "kitchen")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(recipe.Seed(), *got); diff != "" {
				t.Fatalf("unexpected recipe (-want +got):\n%s", diff)
			}

			edited := recipe.New("סלט", recipe.NewSection("", nil, []string{"לחתוך"}))
			if err := s.Save(ctx, "kitchen", edited); err != nil {
				t.Fatalf("Save() overwrite error = %v", err)
			}
			got, err = s.Load(ctx, "kitchen")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(edited, *got); diff != "" {
				t.Fatalf("expected overwrite (-want +got):\n%s", diff)
			}

			if err := s.Delete(ctx, "kitchen"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := s.Delete(ctx, "kitchen"); err != nil {
				t.Fatalf("Delete() of absent key error = %v", err)
			}
			if _, err := s.Load(ctx, "kitchen"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}

			if err := s.Save(ctx, " ", recipe.Seed()); !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestMalformedPayloadFallsBackToSeed(t *testing.T) {
	for _, driver := range drivers() {
		t.Run(driver.name, func(t *testing.T) {
			ctx := context.Background()
			s, putRaw := driver.open(t)
			putRaw(t, "kitchen", []byte(`{"name": 42`))

			if _, err := s.Load(ctx, "kitchen"); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}

			got, source, err := LoadOrSeed(ctx, s, "kitchen", recipe.Seed(), nil)
			if err != nil {
				t.Fatalf("LoadOrSeed() error = %v", err)
			}
			if source != SourceSeed || !got.Equal(recipe.Seed()) {
				t.Fatalf("expected seed, got %s %+v", source, got)
			}

			if err := s.Save(ctx, "kitchen", recipe.Empty()); err != nil {
				t.Fatalf("Save() over malformed payload error = %v", err)
			}
			got, source, err = LoadOrSeed(ctx, s, "kitchen", recipe.Seed(), nil)
			if err != nil || source != SourceStored || !got.Equal(recipe.Empty()) {
				t.Fatalf("expected stored empty recipe, got %s %+v (%v)", source, got, err)
			}
		})
	}
}

func TestLoadOrSeedOnAbsentState(t *testing.T) {
	got, source, err := LoadOrSeed(context.Background(), NewMemoryStore(), "kitchen", recipe.Seed(), nil)
	if err != nil {
		t.Fatalf("LoadOrSeed() error = %v", err)
	}
	if source != SourceSeed {
		t.Fatalf("expected seed source, got %s", source)
	}
	if diff := cmp.Diff(recipe.Seed(), got); diff != "" {
		t.Fatalf("unexpected recipe (-want +got):\n%s", diff)
	}
}

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Load(context.Context, string) (*recipe.Recipe, error) {
	return nil, f.err
}

func TestLoadOrSeedPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("connection refused")
	_, _, err := LoadOrSeed(context.Background(), &failingStore{err: boom}, "kitchen", recipe.Seed(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestDecodeRejectsRecordsOutsideSchema(t *testing.T) {
	cases := map[string]string{
		"not json":           `not json`,
		"null sections":      `{"name":"x","sections":null}`,
		"missing steps":      `{"name":"x","sections":[{"name":"a","ingredients":[]}]}`,
		"numeric ingredient": `{"name":"x","sections":[{"name":"a","ingredients":[1],"steps":[]}]}`,
		"array root":         `[]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(payload)); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestEncodeWritesPlainRecord(t *testing.T) {
	payload, err := Encode(recipe.Recipe{Name: "x", Sections: []recipe.Section{{Name: "a"}}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{"name":"x","sections":[{"name":"a","ingredients":[],"steps":[]}]}`
	if string(payload) != want {
		t.Fatalf("unexpected payload\nwant: %s\ngot:  %s", want, payload)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	for _, key := range []string{"../escape", "a/b", ".."} {
		if err := s.Save(context.Background(), key, recipe.Seed()); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestBunStoreWithCacheServesStoredRecipe(t *testing.T) {
	ctx := context.Background()
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}

	s := NewBunStoreWithCache(newTestDB(t), cacheService, repocache.NewDefaultKeySerializer())
	if err := s.Save(ctx, "kitchen", recipe.Seed()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		got, err := s.Load(ctx, "kitchen")
		if err != nil {
			t.Fatalf("Load() #%d error = %v", i, err)
		}
		if !got.Equal(recipe.Seed()) {
			t.Fatalf("Load() #%d returned %+v", i, got)
		}
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		opts Options
		want string
	}{
		{Options{}, "*store.MemoryStore"},
		{Options{Driver: "FILE", Path: filepath.Join(dir, "files")}, "*store.FileStore"},
		{Options{Driver: DriverBolt, Path: filepath.Join(dir, "bolt", "recipes.db")}, "*store.BoltStore"},
		{Options{Driver: DriverSQLite, Path: filepath.Join(dir, "recipes.sqlite")}, "*store.BunStore"},
	}
	for _, tc := range cases {
		handle, err := Open(ctx, tc.opts)
		if err != nil {
			t.Fatalf("Open(%+v) error = %v", tc.opts, err)
		}
		if got := fmt.Sprintf("%T", handle.Store); got != tc.want {
			t.Fatalf("Open(%+v) = %s, want %s", tc.opts, got, tc.want)
		}
		if err := handle.Store.Save(ctx, "kitchen", recipe.Seed()); err != nil {
			t.Fatalf("%s Save() error = %v", tc.want, err)
		}
		if err := handle.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	if _, err := Open(ctx, Options{Driver: "redis"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
	if _, err := Open(ctx, Options{Driver: DriverPostgres}); err == nil || !strings.Contains(err.Error(), "dsn") {
		t.Fatalf("expected missing dsn error, got %v", err)
	}
}
