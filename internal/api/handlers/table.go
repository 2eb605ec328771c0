package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/middleware"
)

type pointRequest struct {
	X *float64 `json:"x" binding:"required"`
	Z *float64 `json:"z" binding:"required"`
}

func (p pointRequest) vec() game.Vec2 {
	return game.NewVec2(*p.X, *p.Z)
}

// CreateTable racks a new table and returns its ID and command token
func CreateTable(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Seed int64 `json:"seed"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}

		t, err := game.Manager.CreateTable(req.Seed)
		if err != nil {
			log.Printf("[TABLE] CreateTable failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rack table"})
			return
		}

		token, exp, err := middleware.IssueTableToken(cfg, t.ID)
		if err != nil {
			log.Printf("[TABLE] Failed to sign token for %s: %v", t.ID, err)
			game.Manager.EndTable(t.ID, game.StatusClosed)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("X-Table-ID", t.ID)
		c.JSON(http.StatusCreated, gin.H{
			"table_id":   t.ID,
			"seed":       t.Seed,
			"token":      token,
			"expires_at": exp.Format(time.RFC3339),
			"ws_url":     "/api/v1/tables/" + t.ID + "/ws?token=" + token,
			"state":      t.Snapshot(),
		})
	}
}

// GetTable returns the live snapshot of a table, or its last cached one
func GetTable(c *gin.Context) {
	id := c.Param("id")

	t, err := game.Manager.GetTable(id)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"table_id":   t.ID,
			"status":     t.CurrentStatus(),
			"created_at": t.CreatedAt,
			"live":       true,
			"state":      t.Snapshot(),
		})
		return
	}

	rec, err := game.Manager.LoadTableRecord(context.Background(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"table_id":    rec.ID,
		"status":      rec.Status,
		"created_at":  rec.CreatedAt,
		"live":        false,
		"state":       rec.State,
		"last_result": rec.LastResult,
	})
}

// Shoot aims and launches the cue ball; the shot then plays out over the WebSocket
func Shoot(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and z required"})
		return
	}

	snap, err := game.Manager.Shoot(c.GetString(middleware.TableIDKey), req.vec())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"state": snap})
}

// PlaceCueBall puts the cue ball in hand during a free shot
func PlaceCueBall(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and z required"})
		return
	}

	snap, err := game.Manager.PlaceCueBall(c.GetString(middleware.TableIDKey), req.vec())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": snap})
}

// SelectGroup settles the group choice after both groups dropped on an open table
func SelectGroup(c *gin.Context) {
	var req struct {
		Group game.Group `json:"group" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group required"})
		return
	}

	snap, err := game.Manager.SelectGroup(c.GetString(middleware.TableIDKey), req.Group)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": snap})
}

// DeleteTable closes a table and disconnects its watchers
func DeleteTable(c *gin.Context) {
	id := c.GetString(middleware.TableIDKey)
	if err := game.Manager.CloseTable(id); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": id, "status": game.StatusClosed})
}
