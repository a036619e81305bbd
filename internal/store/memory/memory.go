// Package memory provides an in-process implementation of the store contract
// with full watch support. It backs tests and local runs; a deployment would
// swap in a client for the real document store behind the same interface.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/athlete-performance-service/internal/store"
)

const createdAtField = "created_at"
const updatedAtField = "updated_at"

type docWatch struct {
	collection string
	id         string
	fn         store.ChangeFunc
	q          *watchQueue
}

type queryWatch struct {
	collection string
	filters    []store.Filter
	opts       store.QueryOptions
	fn         store.SnapshotFunc
	q          *watchQueue
}

// notification is one pending delivery bound to its watcher's queue.
type notification struct {
	q  *watchQueue
	fn func()
}

// Store is a map-backed document store. All mutations notify matching
// watchers asynchronously, mirroring the change-notification semantics of a
// hosted document database.
type Store struct {
	mu           sync.RWMutex
	collections  map[string]map[string]map[string]any
	docWatches   map[string]*docWatch
	queryWatches map[string]*queryWatch
	log          zerolog.Logger
}

// New builds an empty store.
func New(logger zerolog.Logger) *Store {
	return &Store{
		collections:  make(map[string]map[string]map[string]any),
		docWatches:   make(map[string]*docWatch),
		queryWatches: make(map[string]*queryWatch),
		log:          logger.With().Str("module", "store").Str("component", "memory").Logger(),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, collection string, data map[string]any, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", store.Wrap(store.CodeUnavailable, err)
	}
	s.mu.Lock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]map[string]any)
		s.collections[collection] = coll
	}
	if id == "" {
		id = uuid.NewString()
	} else if _, exists := coll[id]; exists {
		s.mu.Unlock()
		return "", store.ErrAlreadyExists
	}
	doc := deepClone(data)
	now := nowValue()
	doc[createdAtField] = now
	doc[updatedAtField] = now
	coll[id] = doc
	notify := s.collectNotifications(collection, id)
	s.mu.Unlock()

	s.dispatch(notify)
	return id, nil
}

func (s *Store) Read(ctx context.Context, collection, id string) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap(store.CodeUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Document{ID: id, Data: deepClone(doc)}, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap(store.CodeUnavailable, err)
	}
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	for k, v := range deepClone(patch) {
		doc[k] = v
	}
	doc[updatedAtField] = nowValue()
	notify := s.collectNotifications(collection, id)
	s.mu.Unlock()

	s.dispatch(notify)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap(store.CodeUnavailable, err)
	}
	s.mu.Lock()
	if _, ok := s.collections[collection][id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.collections[collection], id)
	notify := s.collectNotifications(collection, id)
	s.mu.Unlock()

	s.dispatch(notify)
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter, opts store.QueryOptions) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap(store.CodeUnavailable, err)
	}
	s.mu.RLock()
	docs := s.snapshotLocked(collection, filters, opts)
	s.mu.RUnlock()
	return docs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return store.Wrap(store.CodeUnavailable, ctx.Err())
}

func (s *Store) WatchDocument(collection, id string, fn store.ChangeFunc) (store.CancelFunc, error) {
	key := uuid.NewString()
	w := &docWatch{collection: collection, id: id, fn: fn, q: newWatchQueue()}
	s.mu.Lock()
	s.docWatches[key] = w
	var initial *store.Document
	if doc, ok := s.collections[collection][id]; ok {
		initial = &store.Document{ID: id, Data: deepClone(doc)}
	}
	s.mu.Unlock()

	// Initial snapshot goes through the same queue as change notifications so
	// a mutation racing the registration cannot overtake it.
	w.q.enqueue(func() { fn(initial, nil) })

	return func() {
		s.mu.Lock()
		delete(s.docWatches, key)
		s.mu.Unlock()
		w.q.close()
	}, nil
}

func (s *Store) WatchQuery(collection string, filters []store.Filter, fn store.SnapshotFunc, opts store.QueryOptions) (store.CancelFunc, error) {
	key := uuid.NewString()
	w := &queryWatch{collection: collection, filters: filters, opts: opts, fn: fn, q: newWatchQueue()}
	s.mu.Lock()
	s.queryWatches[key] = w
	initial := s.snapshotLocked(collection, filters, opts)
	s.mu.Unlock()

	w.q.enqueue(func() { fn(initial, nil) })

	return func() {
		s.mu.Lock()
		delete(s.queryWatches, key)
		s.mu.Unlock()
		w.q.close()
	}, nil
}

// collectNotifications gathers deliveries affected by a mutation of
// (collection, id). Must be called with s.mu held; payloads are cloned before
// the lock is released.
func (s *Store) collectNotifications(collection, id string) []notification {
	var out []notification
	for _, w := range s.docWatches {
		if w.collection != collection || w.id != id {
			continue
		}
		var payload *store.Document
		if doc, ok := s.collections[collection][id]; ok {
			payload = &store.Document{ID: id, Data: deepClone(doc)}
		}
		fn := w.fn
		out = append(out, notification{q: w.q, fn: func() { fn(payload, nil) }})
	}
	for _, w := range s.queryWatches {
		if w.collection != collection {
			continue
		}
		snap := s.snapshotLocked(w.collection, w.filters, w.opts)
		fn := w.fn
		out = append(out, notification{q: w.q, fn: func() { fn(snap, nil) }})
	}
	return out
}

// dispatch hands each delivery to its watcher's queue. Ordering across
// watchers is unspecified; ordering per watcher follows mutation order.
func (s *Store) dispatch(notify []notification) {
	for _, n := range notify {
		n.q.enqueue(n.fn)
	}
}

// snapshotLocked evaluates a query against current state. Must hold s.mu.
func (s *Store) snapshotLocked(collection string, filters []store.Filter, opts store.QueryOptions) []store.Document {
	docs := make([]store.Document, 0)
	for id, data := range s.collections[collection] {
		if store.MatchesAll(data, filters) {
			docs = append(docs, store.Document{ID: id, Data: deepClone(data)})
		}
	}
	// Deterministic base order before any requested ordering.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	if opts.OrderBy != "" {
		field, desc := opts.OrderBy, opts.Descending
		sort.SliceStable(docs, func(i, j int) bool {
			cmp, ok := store.Compare(docs[i].Data[field], docs[j].Data[field])
			if !ok {
				return false
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs
}
