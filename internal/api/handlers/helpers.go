package handlers

import (
	"errors"
	"net/http"

	"github.com/playmatatu/billiards/internal/game"
)

// errorStatus maps a table command error to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidGroup),
		errors.Is(err, game.ErrInvalidPlacement),
		errors.Is(err, game.ErrDegenerateAim):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrShotInProgress),
		errors.Is(err, game.ErrGroupSelectionPending),
		errors.Is(err, game.ErrNoSelectionPending),
		errors.Is(err, game.ErrNoFreeShot),
		errors.Is(err, game.ErrMatchOver),
		errors.Is(err, game.ErrCueBallInactive),
		errors.Is(err, game.ErrTableClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
