package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// Options selects and configures a driver.
type Options struct {
	Driver Driver
	// Path is the directory of the file driver or the database file of the
	// bolt and sqlite drivers.
	Path string
	// DSN overrides Path for sqlite and is required for postgres.
	DSN   string
	Cache CacheOptions
}

// CacheOptions enables the read-through cache of the SQL drivers.
type CacheOptions struct {
	Enabled bool
	TTL     time.Duration
}

// Handle is an opened store together with the function that releases it.
type Handle struct {
	Store  interfaces.RecipeStore
	Driver Driver
	close  func() error
}

// Close releases files and connections held by the store.
func (h *Handle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// Open builds the store selected by opts. SQL drivers apply the embedded
// migrations before returning.
func Open(ctx context.Context, opts Options) (*Handle, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(string(opts.Driver))))
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return &Handle{Store: NewMemoryStore(), Driver: driver}, nil
	case DriverFile:
		fileStore, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return &Handle{Store: fileStore, Driver: driver}, nil
	case DriverBolt:
		boltStore, err := OpenBoltStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return &Handle{Store: boltStore, Driver: driver, close: boltStore.Close}, nil
	case DriverSQLite, DriverPostgres:
		return openSQL(ctx, driver, opts)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDriver, opts.Driver)
}

func openSQL(ctx context.Context, driver Driver, opts Options) (*Handle, error) {
	db, err := OpenDB(driver, opts)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	bunStore := NewBunStore(db)
	if opts.Cache.Enabled {
		cacheCfg := repocache.DefaultConfig()
		if opts.Cache.TTL > 0 {
			cacheCfg.TTL = opts.Cache.TTL
		}
		cacheService, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("store: cache service: %w", err)
		}
		bunStore = NewBunStoreWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	}
	return &Handle{Store: bunStore, Driver: driver, close: db.Close}, nil
}

// OpenDB opens the bun database for the sqlite or postgres driver.
func OpenDB(driver Driver, opts Options) (*bun.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			if strings.TrimSpace(opts.Path) == "" {
				return nil, fmt.Errorf("store: sqlite driver requires a path or dsn")
			}
			dsn = "file:" + filepath.ToSlash(opts.Path) + "?cache=shared&_fk=1"
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("store: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case DriverPostgres:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("store: postgres driver requires a dsn")
		}
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("store: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
}
