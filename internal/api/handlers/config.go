package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
)

// GetConfig returns the table geometry and loop settings renderers need
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	table := game.NewStandardTable()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"table":                 table,
			"ball_radius":           game.BallRadius,
			"ball_height":           game.BallHeight,
			"cue_head_spot":         game.CueHeadSpot,
			"tick_rate_hz":          cfg.TickRateHz,
			"frame_broadcast_every": cfg.FrameBroadcastEvery,
			"shot_power_scale":      cfg.ShotPowerScale,
		})
	}
}
