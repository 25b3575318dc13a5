package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/narwhalmedia/moviebrowser/internal/metrics"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// Persisted keys.
const (
	KeyWatchlist = "@MovieApp:watchlist"
	KeyCategory  = "@MovieApp:selectedCategory"
	KeySort      = "@MovieApp:selectedSort"
)

var keyLabels = map[string]string{
	KeyWatchlist: "watchlist",
	KeyCategory:  "category",
	KeySort:      "sort",
}

const defaultWriteTimeout = 5 * time.Second

// Store serializes state transitions and persists the result.
type Store struct {
	mu    sync.Mutex
	state AppState

	subMu   sync.Mutex
	subs    map[int]func(AppState)
	nextSub int

	kv           interfaces.KVStore
	logger       interfaces.Logger
	writeTimeout time.Duration

	verMu    sync.Mutex
	versions map[string]uint64
	keyLocks map[string]*sync.Mutex
	writes   sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithWriteTimeout bounds each background persistence write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// New creates a store holding DefaultState. Call Hydrate to load persisted state.
func New(kv interfaces.KVStore, log interfaces.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.NewNoop()
	}
	s := &Store{
		state:        DefaultState(),
		subs:         make(map[int]func(AppState)),
		kv:           kv,
		logger:       log.WithFields(interfaces.String("component", "store")),
		writeTimeout: defaultWriteTimeout,
		versions:     make(map[string]uint64),
		keyLocks:     make(map[string]*sync.Mutex),
	}
	for key := range keyLabels {
		s.keyLocks[key] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate reads the persisted watchlist and preferences concurrently and
// loads whatever is present and well formed. Missing, malformed and
// unreadable data leave the defaults in place; Hydrate never fails.
func (s *Store) Hydrate(ctx context.Context) {
	var (
		watchlist   []models.Movie
		hasList     bool
		category    models.Category
		sortKey     models.SortKey
		hasCategory bool
		hasSort     bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, ok := s.read(gctx, KeyWatchlist)
		if !ok {
			return nil
		}
		var list []models.Movie
		if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
			s.malformed(gctx, KeyWatchlist, err)
			return nil
		}
		for i := range list {
			if list[i].GenreIDs == nil {
				list[i].GenreIDs = []int{}
			}
		}
		watchlist, hasList = list, true
		return nil
	})
	g.Go(func() error {
		// The two preference keys are independent; each falls back alone.
		if raw, ok := s.read(gctx, KeyCategory); ok {
			if c := models.Category(raw); c.Valid() {
				category, hasCategory = c, true
			} else {
				s.malformed(gctx, KeyCategory, fmt.Errorf("unknown category %q", raw))
			}
		}
		if raw, ok := s.read(gctx, KeySort); ok {
			if k := models.SortKey(raw); k.Valid() {
				sortKey, hasSort = k, true
			} else {
				s.malformed(gctx, KeySort, fmt.Errorf("unknown sort %q", raw))
			}
		}
		return nil
	})
	_ = g.Wait()

	if hasList {
		s.Dispatch(LoadWatchlist(watchlist))
	}
	if hasCategory || hasSort {
		s.Dispatch(LoadPreferences(category, sortKey))
	}
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	switch {
	case err != nil:
		metrics.PersistenceReads.WithLabelValues(keyLabels[key], "error").Inc()
		s.logger.WithContext(ctx).Warn("reading persisted state failed, using default",
			interfaces.String("key", key),
			interfaces.Error(errors.Persistence("read", err)))
		return "", false
	case !ok:
		metrics.PersistenceReads.WithLabelValues(keyLabels[key], "missing").Inc()
		return "", false
	}
	metrics.PersistenceReads.WithLabelValues(keyLabels[key], "ok").Inc()
	return raw, true
}

func (s *Store) malformed(ctx context.Context, key string, err error) {
	metrics.PersistenceReads.WithLabelValues(keyLabels[key], "malformed").Inc()
	s.logger.WithContext(ctx).Warn("persisted state is malformed, using default",
		interfaces.String("key", key),
		interfaces.Error(err))
}

// Dispatch applies a and returns the new state. Subscribers are notified
// after the transition; persistence of changed keys is scheduled in the
// background and never blocks or rolls back the transition.
func (s *Store) Dispatch(a Action) AppState {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	if a.persists() {
		s.schedule(prev, next)
	}
	s.mu.Unlock()

	snapshot := next.clone()
	s.notify(snapshot)
	return snapshot
}

// schedule starts one background write per key whose value changed. It
// runs under s.mu so versions follow dispatch order.
func (s *Store) schedule(prev, next AppState) {
	if !sameWatchlist(prev.Watchlist, next.Watchlist) {
		data, err := json.Marshal(next.Watchlist)
		if err != nil {
			s.logger.Error("encoding watchlist failed", interfaces.Error(err))
		} else {
			s.persist(KeyWatchlist, string(data))
		}
	}
	if prev.Category != next.Category {
		s.persist(KeyCategory, string(next.Category))
	}
	if prev.Sort != next.Sort {
		s.persist(KeySort, string(next.Sort))
	}
}

func (s *Store) persist(key, value string) {
	s.verMu.Lock()
	s.versions[key]++
	version := s.versions[key]
	s.verMu.Unlock()

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		lock := s.keyLocks[key]
		lock.Lock()
		defer lock.Unlock()

		s.verMu.Lock()
		current := s.versions[key]
		s.verMu.Unlock()
		if current != version {
			metrics.PersistenceWrites.WithLabelValues(keyLabels[key], "superseded").Inc()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()
		if err := s.kv.Set(ctx, key, value); err != nil {
			metrics.PersistenceWrites.WithLabelValues(keyLabels[key], "error").Inc()
			s.logger.Error("persisting state failed",
				interfaces.String("key", key),
				interfaces.Error(errors.Persistence("write", err)))
			return
		}
		metrics.PersistenceWrites.WithLabelValues(keyLabels[key], "ok").Inc()
	}()
}

func sameWatchlist(a, b []models.Movie) bool {
	return slices.EqualFunc(a, b, func(x, y models.Movie) bool { return x.ID == y.ID })
}

// Flush waits until every scheduled write has finished or ctx is done.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.writes.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes. The KV store is owned by the caller.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// Subscribe registers fn to receive every new state. The returned function
// unregisters it. fn runs on the dispatching goroutine.
func (s *Store) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(state AppState) {
	s.subMu.Lock()
	fns := make([]func(AppState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// IsInWatchlist reports whether movie id is in the watchlist.
func (s *Store) IsInWatchlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InWatchlist(id)
}

func (s *Store) SetCategory(c models.Category) AppState { return s.Dispatch(SetCategory(c)) }

func (s *Store) SetSort(k models.SortKey) AppState { return s.Dispatch(SetSort(k)) }

func (s *Store) SetSearchQuery(q string) AppState { return s.Dispatch(SetSearchQuery(q)) }

func (s *Store) AddToWatchlist(m models.Movie) AppState { return s.Dispatch(AddToWatchlist(m)) }

func (s *Store) RemoveFromWatchlist(id int) AppState { return s.Dispatch(RemoveFromWatchlist(id)) }
