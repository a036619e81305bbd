package sync

import (
	"sync"

	"github.com/google/uuid"

	"github.com/maxviazov/athlete-performance-service/internal/service"
	"github.com/maxviazov/athlete-performance-service/internal/store"
)

// CrossSubscription is a many-to-one fan-out handle: several UI regions can
// react to the same underlying watches. Callbacks are added and removed after
// creation; Destroy tears down the underlying subscription for everyone.
type CrossSubscription struct {
	id  string
	mgr *Manager

	mu        sync.Mutex
	callbacks map[string]Callback
}

// SubscribeCrossComponent establishes the player's watches plus the coach's
// assigned-players watch under a single subscription and returns explicit
// fan-out controls instead of taking a callback at creation time.
func (m *Manager) SubscribeCrossComponent(playerID, coachID string) (*CrossSubscription, error) {
	cs := &CrossSubscription{mgr: m, callbacks: make(map[string]Callback)}
	id := m.open(kindCross)
	cs.id = id
	guarded := m.guard(id, cs.dispatch)

	if err := m.watchMatches(id, service.FieldPlayerID, playerID, EventMatchesUpdated, guarded); err != nil {
		m.Unsubscribe(id)
		return nil, err
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
		return nil, err
	}
	m.addCancel(id, cancel)

	if coachID != "" {
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
			return nil, err
		}
		m.addCancel(id, cancel)
	}

	m.log.Debug().Str("subscription_id", id).Str("player_id", playerID).Str("coach_id", coachID).Msg("cross-component subscription active")
	return cs, nil
}

// ID returns the underlying subscription id.
func (c *CrossSubscription) ID() string { return c.id }

// AddCallback registers one consumer and returns a token for removal.
func (c *CrossSubscription) AddCallback(cb Callback) string {
	token := uuid.NewString()
	c.mu.Lock()
	c.callbacks[token] = cb
	c.mu.Unlock()
	return token
}

// RemoveCallback detaches one consumer. Unknown tokens are a no-op.
func (c *CrossSubscription) RemoveCallback(token string) {
	c.mu.Lock()
	delete(c.callbacks, token)
	c.mu.Unlock()
}

// Destroy tears down the underlying watches for all consumers. The handle
// cannot be reused afterwards.
func (c *CrossSubscription) Destroy() {
	c.mgr.Unsubscribe(c.id)
	c.mu.Lock()
	c.callbacks = make(map[string]Callback)
	c.mu.Unlock()
}

func (c *CrossSubscription) dispatch(ev Event) {
	c.mu.Lock()
	cbs := make([]Callback, 0, len(c.callbacks))
	for _, cb := range c.callbacks {
		cbs = append(cbs, cb)
	}
	c.mu.Unlock()
	for _, cb := range cbs {
		cb(ev)
	}
}
