// Package store declares the document-store collaborator contract the engine
// is written against. The engine consumes these primitives; it does not
// implement the persistence layer itself. I return domain errors from
// errors.go rather than backend-native codes.
package store

import "context"

// Op is a filter comparison operator with store-defined semantics.
type Op string

const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
)

// Filter is one {field, operator, value} predicate applied to a collection.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Document is one record in a named collection.
type Document struct {
	ID   string
	Data map[string]any
}

// QueryOptions narrows and orders a collection query. A zero value means
// no ordering and no limit.
type QueryOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
}

// ChangeFunc receives document-level change notifications. doc is nil when
// the document was deleted or when err is non-nil; callbacks never panic on
// delivery failures, errors arrive through err instead.
type ChangeFunc func(doc *Document, err error)

// SnapshotFunc receives the full result set of a watched query after every
// matching mutation. docs is nil when err is non-nil.
type SnapshotFunc func(docs []Document, err error)

// CancelFunc releases one watch. Safe to call more than once.
type CancelFunc func()

// Store is the narrow interface to the external document store.
type Store interface {
	// Create persists data under the given id, or under a store-assigned id
	// when id is empty, and returns the final id.
	Create(ctx context.Context, collection string, data map[string]any, id string) (string, error)
	// Read returns the document or ErrNotFound.
	Read(ctx context.Context, collection, id string) (*Document, error)
	// Update applies a partial patch to an existing document.
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	// Delete removes the document. Deleting a missing document is an error.
	Delete(ctx context.Context, collection, id string) error
	// Query returns all documents matching every filter, ordered and limited
	// per opts when the store supports it.
	Query(ctx context.Context, collection string, filters []Filter, opts QueryOptions) ([]Document, error)
	// WatchDocument registers for change notifications on a single document.
	WatchDocument(collection, id string, fn ChangeFunc) (CancelFunc, error)
	// WatchQuery registers for snapshot notifications on a filtered query.
	WatchQuery(collection string, filters []Filter, fn SnapshotFunc, opts QueryOptions) (CancelFunc, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
