package sync

import (
	"sort"

	"github.com/maxviazov/athlete-performance-service/internal/store"
)

// SortDocuments stably sorts a result set by one field in memory, for stores
// that cannot guarantee server-side ordering without an index. Timestamps,
// strings and numbers compare naturally; incomparable pairs keep their
// relative order. Descending is the usual choice for match feeds.
func SortDocuments(docs []store.Document, field string, descending bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		cmp, ok := store.Compare(docs[i].Data[field], docs[j].Data[field])
		if !ok {
			return false
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}
