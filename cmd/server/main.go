package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/api"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/redis"
	"github.com/playmatatu/billiards/internal/ws"
)

func main() {
	// Initialize configuration (loads .env when present)
	cfg := config.Load()

	// Initialize Redis; tables keep playing without it
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Printf("[REDIS] Failed to connect to Redis (%v); running without snapshots and idle worker", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Initialize Game Manager with Redis and config
	game.InitializeManager(rdb, cfg)
	game.Manager.SetBroadcaster(ws.Deliver)

	// Wire Redis and start table event subscriber in WS layer
	ws.SetRedisClient(rdb)
	ws.StartTableEventSubscriber(context.Background())

	// Start idle worker for idle table expiry
	game.StartIdleWorker(context.Background(), rdb, cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting billiards table server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
