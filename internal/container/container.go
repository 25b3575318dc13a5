// Package container wires the movie browser from its configuration.
package container

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/narwhalmedia/moviebrowser/internal/application/browse"
	"github.com/narwhalmedia/moviebrowser/internal/catalog"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/graphql"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/tmdb"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/transport"
	badgerstore "github.com/narwhalmedia/moviebrowser/internal/infrastructure/persistence/badger"
	gormstore "github.com/narwhalmedia/moviebrowser/internal/infrastructure/persistence/gorm"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/persistence/memory"
	"github.com/narwhalmedia/moviebrowser/internal/store"
	"github.com/narwhalmedia/moviebrowser/pkg/config"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
)

const sqliteFile = "moviebrowser.db"

// Container holds all dependencies of the movie browser.
type Container struct {
	Config   *config.AppConfig
	Logger   interfaces.Logger
	KV       interfaces.KVStore
	Provider catalog.Provider
	Store    *store.Store
	Browse   *browse.Service
}

type options struct {
	logger     interfaces.Logger
	httpClient *http.Client
	kv         interfaces.KVStore
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

// WithLogger replaces the logger built from configuration.
func WithLogger(log interfaces.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithHTTPClient replaces the provider HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithKVStore replaces the storage backend. The caller keeps ownership.
func WithKVStore(kv interfaces.KVStore) Option {
	return func(o *options) { o.kv = kv }
}

// New builds the container and hydrates the store. The returned cleanup
// flushes pending writes and closes storage.
func New(ctx context.Context, cfg *config.AppConfig, opts ...Option) (*Container, func(), error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		zl, err := cfg.Logger.ToLoggerConfig().Build()
		if err != nil {
			return nil, nil, fmt.Errorf("building logger: %w", err)
		}
		log = zl
	}

	provider, err := NewProvider(cfg.Provider, log, o.httpClient)
	if err != nil {
		return nil, nil, err
	}

	kv, closeKV := o.kv, func() {}
	if kv == nil {
		kv, err = NewKVStore(cfg.Storage, log)
		if err != nil {
			return nil, nil, err
		}
		closeKV = func() {
			if err := kv.Close(); err != nil {
				log.Error("Failed to close storage", interfaces.Error(err))
			}
		}
	}

	st := store.New(kv, log, store.WithWriteTimeout(cfg.Storage.WriteTimeout))
	st.Hydrate(ctx)

	c := &Container{
		Config:   cfg,
		Logger:   log,
		KV:       kv,
		Provider: provider,
		Store:    st,
		Browse:   browse.NewService(provider, st, log),
	}

	flushTimeout := cfg.Storage.WriteTimeout
	if flushTimeout <= 0 {
		flushTimeout = config.DefaultWriteTimeout
	}
	cleanup := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := st.Close(flushCtx); err != nil {
			log.Warn("Pending writes were not flushed", interfaces.Error(err))
		}
		closeKV()
	}
	return c, cleanup, nil
}

// NewProvider creates the data provider selected by cfg.Kind.
func NewProvider(cfg config.ProviderConfig, log interfaces.Logger, hc *http.Client) (catalog.Provider, error) {
	var topts []transport.Option
	if hc != nil {
		topts = append(topts, transport.WithHTTPClient(hc))
	}
	tcfg := cfg.ToTransportConfig()

	switch cfg.Kind {
	case config.ProviderREST:
		return tmdb.NewClient(cfg.REST.BaseURL, cfg.REST.AccessToken, tcfg, log, topts...), nil
	case config.ProviderGraphQL:
		return graphql.NewClient(cfg.GraphQL.Endpoint, tcfg, log, topts...), nil
	}
	return nil, fmt.Errorf("unknown provider kind: %q", cfg.Kind)
}

// NewKVStore opens the storage backend selected by cfg.Backend.
func NewKVStore(cfg config.StorageConfig, log interfaces.Logger) (interfaces.KVStore, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	switch cfg.Backend {
	case config.StorageBadger:
		s, err := badgerstore.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening badger store: %w", err)
		}
		return s, nil
	case config.StorageSQLite:
		path := cfg.Path
		if !strings.HasSuffix(path, ".db") {
			path = filepath.Join(path, sqliteFile)
		}
		db, cleanup, err := gormstore.NewDB(path, log, cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return gormstore.NewKVStore(db, cleanup), nil
	case config.StorageMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
}
