package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/playmatatu/billiards/internal/config"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableClosed   = errors.New("table is no longer active")
)

// Event types fanned out to table rooms.
const (
	EventTableState    = "table_state"
	EventFrame         = "frame"
	EventShotResult    = "shot_result"
	EventCueBallPlaced = "cue_ball_placed"
	EventGroupSelected = "group_selected"
	EventTableExpired  = "table_expired"
)

// Broadcaster delivers a message to every client watching a table.
type Broadcaster func(tableID string, message interface{})

// GameManager hosts every live table and drives their shot loops
type GameManager struct {
	tables       map[string]*TableSession // keyed by table ID
	rdb          *redis.Client            // Redis client for snapshots, events and idle timers
	config       *config.Config
	broadcast    Broadcaster
	tickInterval time.Duration
	dt           float64
	mu           sync.RWMutex
}

var (
	// Global game manager instance
	Manager *GameManager
)

// InitializeManager initializes the global game manager with Redis and config
func InitializeManager(rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(rdb, cfg)
	if rdb == nil {
		// Without redis the idle ZSET is unavailable; fall back to scanning memory.
		go Manager.StartExpiryChecker(context.Background())
	}
}

// NewGameManager creates a new game manager
func NewGameManager(rdb *redis.Client, cfg *config.Config) *GameManager {
	rate := cfg.TickRateHz
	if rate <= 0 {
		rate = 60
	}
	return &GameManager{
		tables:       make(map[string]*TableSession),
		rdb:          rdb,
		config:       cfg,
		tickInterval: time.Second / time.Duration(rate),
		dt:           1 / float64(rate),
	}
}

// SetBroadcaster wires the local delivery path for frames and events.
func (gm *GameManager) SetBroadcaster(b Broadcaster) {
	gm.mu.Lock()
	gm.broadcast = b
	gm.mu.Unlock()
}

// GetConfig returns the manager's config
func (gm *GameManager) GetConfig() *config.Config {
	return gm.config
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateTableID generates a unique table ID
func generateTableID() string {
	return "table_" + generateToken(8)
}

// CreateTable racks a new match. A zero seed falls back to RACK_SEED, then to the clock.
func (gm *GameManager) CreateTable(seed int64) (*TableSession, error) {
	if seed == 0 {
		seed = gm.config.RackSeed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m, err := NewMatch(MatchOptions{Seed: seed, PowerScale: gm.config.ShotPowerScale})
	if err != nil {
		return nil, err
	}

	t := newTableSession(generateTableID(), seed, m)

	gm.mu.Lock()
	gm.tables[t.ID] = t
	gm.mu.Unlock()

	log.Printf("[TABLE] Table created: %s (seed=%d)", t.ID, seed)

	t.mu.Lock()
	rec := t.record()
	t.mu.Unlock()
	gm.saveTableToRedis(rec)
	gm.touchIdleTimer(t.ID)

	return t, nil
}

// GetTable returns a live table by ID
func (gm *GameManager) GetTable(id string) (*TableSession, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	t, ok := gm.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// ActiveTableCount returns the number of hosted tables
func (gm *GameManager) ActiveTableCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.tables)
}

// EndTable stops the shot loop and removes the table. The status records why.
func (gm *GameManager) EndTable(id string, status TableStatus) error {
	gm.mu.Lock()
	t, ok := gm.tables[id]
	if ok {
		delete(gm.tables, id)
	}
	gm.mu.Unlock()
	if !ok {
		return ErrTableNotFound
	}

	t.mu.Lock()
	if t.Status != StatusCompleted {
		t.Status = status
	}
	close(t.stop)
	t.rolling = false
	t.mu.Unlock()

	gm.clearIdleTimer(id)
	gm.deleteTableFromRedis(id)

	log.Printf("[TABLE] Table ended: %s (status=%s)", id, status)
	return nil
}

// Shoot launches the cue ball on a table and starts its shot loop.
func (gm *GameManager) Shoot(id string, target Vec2) (TableSnapshot, error) {
	t, err := gm.GetTable(id)
	if err != nil {
		return TableSnapshot{}, err
	}

	t.mu.Lock()
	if t.Status != StatusActive {
		t.mu.Unlock()
		return TableSnapshot{}, shotStatusError(t.Status)
	}
	if err := t.match.AimAndShoot(target); err != nil {
		t.mu.Unlock()
		return TableSnapshot{}, err
	}
	shooter := t.match.State().Turn
	t.rolling = true
	t.Status = StatusRolling
	t.LastActivity = time.Now()
	snap := t.match.Snapshot()
	t.mu.Unlock()

	log.Printf("[TABLE] Shot %d by player %s on %s (bearing=%.1f)", snap.ShotNumber+1, shooter, id, bearingTo(snap, target))

	go gm.runShot(t)
	gm.touchIdleTimer(id)
	return snap, nil
}

func shotStatusError(s TableStatus) error {
	if s == StatusRolling {
		return ErrShotInProgress
	}
	if s == StatusCompleted {
		return ErrMatchOver
	}
	return ErrTableClosed
}

func bearingTo(snap TableSnapshot, target Vec2) float64 {
	cue := snap.Balls[CueBallID].Position
	return findBearing(target.X-cue.X, target.Z-cue.Z)
}

// PlaceCueBall puts the cue ball in hand on a table.
func (gm *GameManager) PlaceCueBall(id string, pos Vec2) (TableSnapshot, error) {
	return gm.applyInput(id, EventCueBallPlaced, func(m *Match) error {
		return m.PlaceCueBall(pos)
	})
}

// SelectGroup settles a pending group choice on a table.
func (gm *GameManager) SelectGroup(id string, g Group) (TableSnapshot, error) {
	return gm.applyInput(id, EventGroupSelected, func(m *Match) error {
		return m.SelectGroup(g)
	})
}

// applyInput runs a between-shot command and publishes the new state to every
// instance watching the table.
func (gm *GameManager) applyInput(id, event string, apply func(*Match) error) (TableSnapshot, error) {
	t, err := gm.GetTable(id)
	if err != nil {
		return TableSnapshot{}, err
	}

	t.mu.Lock()
	if t.Status == StatusRolling {
		t.mu.Unlock()
		return TableSnapshot{}, ErrShotInProgress
	}
	if err := apply(t.match); err != nil {
		t.mu.Unlock()
		return TableSnapshot{}, err
	}
	t.LastActivity = time.Now()
	rec := t.record()
	t.mu.Unlock()

	gm.saveTableToRedis(rec)
	gm.touchIdleTimer(id)
	gm.publishEvent(id, map[string]interface{}{
		"type":     event,
		"table_id": id,
		"state":    rec.State,
	})
	return rec.State, nil
}

// runShot ticks the match at a fixed dt until the shot ends or the table closes.
func (gm *GameManager) runShot(t *TableSession) {
	ticker := time.NewTicker(gm.tickInterval)
	defer ticker.Stop()

	every := gm.config.FrameBroadcastEvery
	if every <= 0 {
		every = 1
	}

	frame := 0
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}

		t.mu.Lock()
		if !t.rolling {
			t.mu.Unlock()
			return
		}
		result := t.match.Advance(gm.dt)
		frame++

		if result == nil {
			var balls []Ball
			if frame%every == 0 {
				all := t.match.Balls()
				balls = all[:]
			}
			t.mu.Unlock()
			if balls != nil {
				gm.deliver(t.ID, map[string]interface{}{
					"type":     EventFrame,
					"table_id": t.ID,
					"frame":    frame,
					"balls":    balls,
				})
			}
			continue
		}

		t.rolling = false
		t.Status = StatusActive
		now := time.Now()
		t.LastActivity = now
		if result.GameOver {
			t.Status = StatusCompleted
			t.CompletedAt = &now
		}
		rec := t.record()
		t.mu.Unlock()

		gm.finishShot(rec, result, frame)
		return
	}
}

// finishShot persists the snapshot and publishes the shot result.
func (gm *GameManager) finishShot(rec TableRecord, result *ShotResult, frames int) {
	log.Printf("[TABLE] Shot %d on %s finished after %d frames: pocketed=%v foul=%v next=%s over=%v",
		result.ShotNumber, rec.ID, frames, result.PocketedBalls, result.Foul != nil, result.NextTurn, result.GameOver)

	gm.saveTableToRedis(rec)
	gm.touchIdleTimer(rec.ID)
	gm.publishEvent(rec.ID, map[string]interface{}{
		"type":     EventShotResult,
		"table_id": rec.ID,
		"result":   result,
		"state":    rec.State,
	})
}

// deliver sends a message straight to the local room.
func (gm *GameManager) deliver(tableID string, message interface{}) {
	gm.mu.RLock()
	b := gm.broadcast
	gm.mu.RUnlock()
	if b != nil {
		b(tableID, message)
	}
}

// StartExpiryChecker ends idle tables when no redis idle worker runs
func (gm *GameManager) StartExpiryChecker(ctx context.Context) {
	interval := time.Duration(gm.config.IdleWorkerPollInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.checkExpiredTables(time.Now())
		}
	}
}

// checkExpiredTables ends every stopped table idle for longer than IDLE_TABLE_SECONDS
func (gm *GameManager) checkExpiredTables(now time.Time) []string {
	idle := time.Duration(gm.config.IdleTableSeconds) * time.Second

	// Collect candidates under read lock
	gm.mu.RLock()
	var candidates []*TableSession
	for _, t := range gm.tables {
		candidates = append(candidates, t)
	}
	gm.mu.RUnlock()

	var expired []string
	for _, t := range candidates {
		t.mu.Lock()
		stale := !t.rolling && now.Sub(t.LastActivity) >= idle
		t.mu.Unlock()
		if !stale {
			continue
		}
		if err := gm.expireTable(t.ID); err == nil {
			expired = append(expired, t.ID)
		}
	}
	return expired
}

// CloseTable ends a table on request and tells its room.
func (gm *GameManager) CloseTable(id string) error {
	return gm.closeTable(id, StatusClosed, "Table closed")
}

// expireTable ends a table for inactivity and tells its room.
func (gm *GameManager) expireTable(id string) error {
	return gm.closeTable(id, StatusExpired, "Table closed after inactivity")
}

func (gm *GameManager) closeTable(id string, status TableStatus, message string) error {
	if err := gm.EndTable(id, status); err != nil {
		return err
	}
	if status == StatusExpired {
		log.Printf("[IDLE] Table %s expired", id)
	}
	gm.publishEvent(id, map[string]interface{}{
		"type":     EventTableExpired,
		"table_id": id,
		"status":   status,
		"message":  message,
	})
	return nil
}
