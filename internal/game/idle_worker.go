package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playmatatu/billiards/internal/config"
	"github.com/redis/go-redis/v9"
)

// StartIdleWorker starts a background worker that closes idle tables using the Redis sorted set
func StartIdleWorker(ctx context.Context, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil {
		log.Println("[IDLE] Redis or config missing; idle worker not started")
		return
	}

	interval := time.Duration(cfg.IdleWorkerPollInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				processIdleTables(ctx, rdb, cfg, time.Now())
			}
		}
	}()
}

// processIdleTables ends every table whose idle deadline has passed
func processIdleTables(ctx context.Context, rdb *redis.Client, cfg *config.Config, now time.Time) {
	members, err := rdb.ZRangeByScore(ctx, IdleTablesKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now.Unix())}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle tables: %v", err)
		return
	}

	for _, id := range members {
		// Attempt to remove (race-safe)
		if removed, _ := rdb.ZRem(ctx, IdleTablesKey, id).Result(); removed == 0 {
			continue
		}

		t, err := Manager.GetTable(id)
		if err != nil {
			log.Printf("[IDLE] skipping idle table %s: not hosted here", id)
			continue
		}
		if t.Rolling() {
			// Still simulating; look again after another idle period
			deadline := now.Add(time.Duration(cfg.IdleTableSeconds) * time.Second).Unix()
			rdb.ZAdd(ctx, IdleTablesKey, redis.Z{Score: float64(deadline), Member: id})
			continue
		}

		if err := Manager.expireTable(id); err != nil {
			log.Printf("[IDLE] Failed to expire table %s: %v", id, err)
		}
	}
}
