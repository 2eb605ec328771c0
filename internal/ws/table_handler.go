package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/middleware"
)

// PointData carries an aim point or a cue ball position on the table plane.
type PointData struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

type SelectGroupData struct {
	Group game.Group `json:"group"`
}

// GameHub is the single hub for all tables.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// Deliver sends a table event to the local room. An expiry also closes the room.
func Deliver(tableID string, message interface{}) {
	GameHub.BroadcastToTable(tableID, message)
	if m, ok := message.(map[string]interface{}); ok && m["type"] == game.EventTableExpired {
		GameHub.closeTable(tableID, "table closed")
	}
}

func newClientID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return "c_" + hex.EncodeToString(b)
}

// HandleWebSocket upgrades an authorised request to a table stream.
func HandleWebSocket(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		tableID, err := middleware.ParseTableToken(cfg, c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if tableID != id {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token does not match table"})
			return
		}

		if _, err := game.Manager.GetTable(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			id:      newClientID(),
			tableID: id,
			send:    make(chan []byte, 256),
		}

		GameHub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// runGameHub tracks table rooms and greets new clients with the current state.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.tableRooms[client.tableID]; !exists {
				h.tableRooms[client.tableID] = make(map[string]*Client)
			}
			h.tableRooms[client.tableID][client.id] = client
			size := len(h.tableRooms[client.tableID])
			h.mu.Unlock()

			log.Printf("[WS] Client %s connected to table %s (room_size=%d)", client.id, client.tableID, size)
			client.sendState()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.tableRooms[client.tableID]; exists {
				if cur, ok := room[client.id]; ok && cur == client {
					delete(room, client.id)
					if len(room) == 0 {
						delete(h.tableRooms, client.tableID)
					}
					close(client.send)
					log.Printf("[WS] Client %s disconnected from table %s", client.id, client.tableID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads table commands from the client.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WS] unexpected close for %s: %v", c.id, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage dispatches one table command.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "aim_and_shoot":
		var data PointData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid aim data")
			return
		}
		snap, err := game.Manager.Shoot(c.tableID, game.NewVec2(data.X, data.Z))
		if err != nil {
			c.sendError(err.Error())
			return
		}
		GameHub.BroadcastToTable(c.tableID, stateMessage(c.tableID, snap))

	case "place_cue_ball":
		var data PointData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid placement data")
			return
		}
		if _, err := game.Manager.PlaceCueBall(c.tableID, game.NewVec2(data.X, data.Z)); err != nil {
			c.sendError(err.Error())
		}

	case "select_group":
		var data SelectGroupData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid group data")
			return
		}
		if _, err := game.Manager.SelectGroup(c.tableID, data.Group); err != nil {
			c.sendError(err.Error())
		}

	case "get_state":
		c.sendState()

	default:
		c.sendError("Unknown message type")
	}
}

// sendState sends the table snapshot to this client only.
func (c *Client) sendState() {
	t, err := game.Manager.GetTable(c.tableID)
	if err != nil {
		c.sendError("Table not found")
		return
	}
	c.sendJSON(stateMessage(c.tableID, t.Snapshot()))
}

func stateMessage(tableID string, snap game.TableSnapshot) map[string]interface{} {
	return map[string]interface{}{
		"type":     game.EventTableState,
		"table_id": tableID,
		"state":    snap,
	}
}
