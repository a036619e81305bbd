// Package sync manages live subscriptions over the store's change
// notifications: player- and coach-scoped watches, cross-component fan-out,
// update coalescing and in-memory ordering when the store cannot sort
// server-side. Subscriptions move created -> active -> torn down and are
// never reused after teardown.
package sync

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/athlete-performance-service/internal/model"
	"github.com/maxviazov/athlete-performance-service/internal/service"
	"github.com/maxviazov/athlete-performance-service/internal/store"
)

// EventType tags a multiplexed subscription payload.
type EventType string

const (
	EventMatchesUpdated      EventType = "matches_updated"
	EventPlayerUpdated       EventType = "player_updated"
	EventPlayersUpdated      EventType = "players_updated"
	EventCoachMatchesUpdated EventType = "coach_matches_updated"
)

// Event is one notification delivered to a subscriber. On delivery failures
// Err is set and Data is nil; errors arrive through the callback, never as a
// panic, because callbacks outlive the call stack that registered them.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
	Err  error     `json:"-"`
}

// Callback receives multiplexed subscription events.
type Callback func(Event)

type kind string

const (
	kindPlayer kind = "player"
	kindCoach  kind = "coach"
	kindCross  kind = "cross-component"
)

type subscription struct {
	id      string
	kind    kind
	cancels []store.CancelFunc
}

// Manager owns the lifecycle of all live subscriptions.
type Manager struct {
	st   store.Store
	mu   sync.Mutex
	subs map[string]*subscription
	log  zerolog.Logger
}

// NewManager wires a subscription manager over the given store.
func NewManager(st store.Store, logger zerolog.Logger) *Manager {
	return &Manager{
		st:   st,
		subs: make(map[string]*subscription),
		log:  logger.With().Str("module", "sync").Str("component", "manager").Logger(),
	}
}

// SubscribeToPlayer watches the player's matches (date descending) and their
// profile document, multiplexing both into cb with tagged events. Returns the
// subscription id.
func (m *Manager) SubscribeToPlayer(playerID string, cb Callback) (string, error) {
	id := m.open(kindPlayer)
	guarded := m.guard(id, cb)

	if err := m.watchMatches(id, service.FieldPlayerID, playerID, EventMatchesUpdated, guarded); err != nil {
		m.Unsubscribe(id)
		return "", err
	}

	cancel, err := m.st.WatchDocument(service.CollectionPlayers, playerID,
		func(doc *store.Document, err error) {
			if err != nil {
				guarded(Event{Type: EventPlayerUpdated, Err: err})
				return
			}
			if doc == nil {
				guarded(Event{Type: EventPlayerUpdated})
				return
			}
			agg := service.DecodeAggregate(*doc)
			guarded(Event{Type: EventPlayerUpdated, Data: &agg})
		})
	if err != nil {
		m.Unsubscribe(id)
		return "", err
	}
	m.addCancel(id, cancel)

	m.log.Debug().Str("subscription_id", id).Str("player_id", playerID).Msg("player subscription active")
	return id, nil
}

// SubscribeToCoach watches the coach's assigned players and every match
// submitted under that coach.
func (m *Manager) SubscribeToCoach(coachID string, cb Callback) (string, error) {
	id := m.open(kindCoach)
	guarded := m.guard(id, cb)

	cancel, err := m.st.WatchQuery(service.CollectionPlayers,
		[]store.Filter{{Field: service.FieldCoachID, Op: store.OpEqual, Value: coachID}},
		func(docs []store.Document, err error) {
			if err != nil {
				guarded(Event{Type: EventPlayersUpdated, Err: err})
				return
			}
			guarded(Event{Type: EventPlayersUpdated, Data: decodeAggregates(docs)})
		},
		store.QueryOptions{})
	if err != nil {
		m.Unsubscribe(id)
		return "", err
	}
	m.addCancel(id, cancel)

	if err := m.watchMatches(id, service.FieldCoachID, coachID, EventCoachMatchesUpdated, guarded); err != nil {
		m.Unsubscribe(id)
		return "", err
	}

	m.log.Debug().Str("subscription_id", id).Str("coach_id", coachID).Msg("coach subscription active")
	return id, nil
}

// watchMatches registers one match-collection watch scoped by an ownership
// field. The store is asked to order by date descending, and the snapshot is
// stably re-sorted in memory in case it cannot.
func (m *Manager) watchMatches(id, field, value string, typ EventType, deliver Callback) error {
	cancel, err := m.st.WatchQuery(service.CollectionMatches,
		[]store.Filter{{Field: field, Op: store.OpEqual, Value: value}},
		func(docs []store.Document, err error) {
			if err != nil {
				deliver(Event{Type: typ, Err: err})
				return
			}
			SortDocuments(docs, service.FieldDate, true)
			deliver(Event{Type: typ, Data: decodeMatches(docs)})
		},
		store.QueryOptions{OrderBy: service.FieldDate, Descending: true})
	if err != nil {
		return err
	}
	m.addCancel(id, cancel)
	return nil
}

// Unsubscribe tears down one subscription. Idempotent; unknown ids are a no-op.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	sub, ok := m.subs[id]
	if ok {
		delete(m.subs, id)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	for _, cancel := range sub.cancels {
		cancel()
	}
	m.log.Debug().Str("subscription_id", id).Str("kind", string(sub.kind)).Msg("subscription torn down")
}

// UnsubscribeAll tears down every live subscription.
func (m *Manager) UnsubscribeAll() {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]*subscription)
	m.mu.Unlock()
	for _, sub := range subs {
		for _, cancel := range sub.cancels {
			cancel()
		}
	}
	if len(subs) > 0 {
		m.log.Debug().Int("count", len(subs)).Msg("all subscriptions torn down")
	}
}

// IsActive reports whether the subscription id is still live.
func (m *Manager) IsActive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[id]
	return ok
}

// Active returns the number of live subscriptions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// open registers an empty subscription up front so watch callbacks firing
// their initial snapshot immediately still see it as active.
func (m *Manager) open(k kind) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.subs[id] = &subscription{id: id, kind: k}
	m.mu.Unlock()
	return id
}

// addCancel attaches a watch release to a live subscription. If teardown
// already happened the watch is released immediately.
func (m *Manager) addCancel(id string, cancel store.CancelFunc) {
	m.mu.Lock()
	sub, ok := m.subs[id]
	if ok {
		sub.cancels = append(sub.cancels, cancel)
	}
	m.mu.Unlock()
	if !ok {
		cancel()
	}
}

// guard drops deliveries that race with teardown. The store stops notifying
// after cancel, but a dispatch already in flight may still arrive.
func (m *Manager) guard(id string, cb Callback) Callback {
	return func(ev Event) {
		if !m.IsActive(id) {
			return
		}
		cb(ev)
	}
}

func decodeMatches(docs []store.Document) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, service.DecodeMatch(d))
	}
	return out
}

func decodeAggregates(docs []store.Document) []model.PlayerAggregate {
	out := make([]model.PlayerAggregate, 0, len(docs))
	for _, d := range docs {
		out = append(out, service.DecodeAggregate(d))
	}
	return out
}
