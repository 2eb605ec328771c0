package game

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Redis keys and channels shared with the ws layer and the idle worker.
const (
	TableEventsChannel = "table_events"
	IdleTablesKey      = "idle_tables"
)

// tableStateKey is the redis key holding a table's msgpack snapshot.
func tableStateKey(id string) string {
	return "table:" + id + ":state"
}

// saveTableToRedis persists a table snapshot to Redis
func (gm *GameManager) saveTableToRedis(rec TableRecord) {
	if gm.rdb == nil {
		return // No Redis client, skip
	}

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		log.Printf("[REDIS] Failed to encode snapshot for table %s: %v", rec.ID, err)
		return
	}

	ttl := time.Duration(gm.config.SnapshotTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := gm.rdb.SetEx(context.Background(), tableStateKey(rec.ID), data, ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to save snapshot for table %s: %v", rec.ID, err)
	}
}

// LoadTableRecord restores the last cached snapshot of a table from Redis
func (gm *GameManager) LoadTableRecord(ctx context.Context, id string) (*TableRecord, error) {
	if gm.rdb == nil {
		return nil, errors.New("no redis client")
	}

	data, err := gm.rdb.Get(ctx, tableStateKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec TableRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (gm *GameManager) deleteTableFromRedis(id string) {
	if gm.rdb == nil {
		return
	}
	if err := gm.rdb.Del(context.Background(), tableStateKey(id)).Err(); err != nil {
		log.Printf("[REDIS] Failed to delete snapshot for table %s: %v", id, err)
	}
}

// publishEvent fans an event out through redis so every server instance sees it.
// Without redis the event goes straight to the local room.
func (gm *GameManager) publishEvent(tableID string, event map[string]interface{}) {
	if gm.rdb == nil {
		gm.deliver(tableID, event)
		return
	}

	b, err := json.Marshal(event)
	if err != nil {
		log.Printf("[REDIS] Failed to encode %v event for table %s: %v", event["type"], tableID, err)
		return
	}
	n, err := gm.rdb.Publish(context.Background(), TableEventsChannel, b).Result()
	if err != nil {
		log.Printf("[REDIS] publish failed: table=%s type=%v err=%v", tableID, event["type"], err)
		gm.deliver(tableID, event)
		return
	}
	log.Printf("[REDIS] published %v for table %s (subscribers=%d)", event["type"], tableID, n)
}

// touchIdleTimer pushes the table's idle deadline IDLE_TABLE_SECONDS into the future.
func (gm *GameManager) touchIdleTimer(id string) {
	if gm.rdb == nil {
		return
	}
	deadline := time.Now().Add(time.Duration(gm.config.IdleTableSeconds) * time.Second).Unix()
	if err := gm.rdb.ZAdd(context.Background(), IdleTablesKey, redis.Z{Score: float64(deadline), Member: id}).Err(); err != nil {
		log.Printf("[REDIS] Failed to schedule idle timer for table %s: %v", id, err)
	}
}

func (gm *GameManager) clearIdleTimer(id string) {
	if gm.rdb == nil {
		return
	}
	gm.rdb.ZRem(context.Background(), IdleTablesKey, id)
}
