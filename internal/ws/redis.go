package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// tableEvent is the envelope every table_events payload carries.
type tableEvent struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// StartTableEventSubscriber subscribes to table_events and relays each event to its table room
func StartTableEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; table event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.TableEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Println("[WS] table_events subscriber started")
		for msg := range ch {
			relayTableEvent([]byte(msg.Payload))
		}
	}()
}

// relayTableEvent forwards one published payload to the local room untouched.
func relayTableEvent(payload []byte) {
	var ev tableEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}
	if ev.TableID == "" {
		log.Printf("[WS] event %s without table_id dropped", ev.Type)
		return
	}

	switch ev.Type {
	case game.EventShotResult, game.EventCueBallPlaced, game.EventGroupSelected:
		if GameHub.RoomSize(ev.TableID) == 0 {
			log.Printf("[WS] no room for table %s; %s will not be broadcast", ev.TableID, ev.Type)
			return
		}
		GameHub.broadcastRaw(ev.TableID, payload)

	case game.EventTableExpired:
		GameHub.broadcastRaw(ev.TableID, payload)
		GameHub.closeTable(ev.TableID, "table closed")

	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}
