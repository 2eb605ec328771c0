package game

import (
	"sync"
	"time"
)

// TableStatus represents the lifecycle state of a hosted table
type TableStatus string

const (
	StatusActive    TableStatus = "ACTIVE"
	StatusRolling   TableStatus = "ROLLING"
	StatusCompleted TableStatus = "COMPLETED"
	StatusExpired   TableStatus = "EXPIRED"
	StatusClosed    TableStatus = "CLOSED"
)

// TableSession is one hosted match plus the bookkeeping the server needs.
// All access to match goes through mu.
type TableSession struct {
	ID           string
	Seed         int64
	Status       TableStatus
	CreatedAt    time.Time
	LastActivity time.Time
	CompletedAt  *time.Time

	match   *Match
	rolling bool
	stop    chan struct{}
	mu      sync.Mutex
}

func newTableSession(id string, seed int64, m *Match) *TableSession {
	now := time.Now()
	return &TableSession{
		ID:           id,
		Seed:         seed,
		Status:       StatusActive,
		CreatedAt:    now,
		LastActivity: now,
		match:        m,
		stop:         make(chan struct{}),
	}
}

// Snapshot returns the current view of the table under the table lock.
func (t *TableSession) Snapshot() TableSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.match.Snapshot()
}

// Rolling reports whether a shot is being simulated.
func (t *TableSession) Rolling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rolling
}

// CurrentStatus returns the status under the table lock.
func (t *TableSession) CurrentStatus() TableStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Status
}

// TableRecord is the cached form of a table kept in redis.
type TableRecord struct {
	ID           string        `json:"id" msgpack:"id"`
	Seed         int64         `json:"seed" msgpack:"seed"`
	Status       TableStatus   `json:"status" msgpack:"status"`
	CreatedAt    time.Time     `json:"created_at" msgpack:"created_at"`
	LastActivity time.Time     `json:"last_activity" msgpack:"last_activity"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty" msgpack:"completed_at"`
	State        TableSnapshot `json:"state" msgpack:"state"`
	LastResult   *ShotResult   `json:"last_result,omitempty" msgpack:"last_result"`
}

// record builds the cache record. Callers hold t.mu.
func (t *TableSession) record() TableRecord {
	return TableRecord{
		ID:           t.ID,
		Seed:         t.Seed,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
		LastActivity: t.LastActivity,
		CompletedAt:  t.CompletedAt,
		State:        t.match.Snapshot(),
		LastResult:   t.match.LastResult(),
	}
}
