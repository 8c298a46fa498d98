package handler

import (
	"errors"
	"net/http"

	"github.com/UniqueClone/traitors-game/internal/game"
	"github.com/UniqueClone/traitors-game/internal/store"

	"github.com/gin-gonic/gin"
)

var (
	users store.Store
	games *game.Service
)

// Init wires the handlers to their dependencies. Called once from main.
func Init(st store.Store, svc *game.Service) {
	users = st
	games = svc
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError maps service errors onto HTTP statuses. Host-gate failures
// look like missing records on purpose, and benign "already done" conflicts
// carry their message as information rather than a failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrRoundNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrNoActiveGame),
		errors.Is(err, game.ErrNotHost):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, game.ErrAlreadyVoted),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrEndgameVoteActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, game.ErrGameNotActive),
		errors.Is(err, game.ErrInvalidRoundType),
		errors.Is(err, game.ErrNoActiveRound),
		errors.Is(err, game.ErrRoundNotActive),
		errors.Is(err, game.ErrNothingToReveal),
		errors.Is(err, game.ErrVoterEliminated),
		errors.Is(err, game.ErrSelfVote),
		errors.Is(err, game.ErrTargetShielded),
		errors.Is(err, game.ErrNotEndgameRound),
		errors.Is(err, game.ErrShieldLimit),
		errors.Is(err, game.ErrNoPlayers),
		errors.Is(err, game.ErrGroupCount),
		errors.Is(err, game.ErrGroupSizes),
		errors.Is(err, game.ErrNotMinigame),
		errors.Is(err, game.ErrEmptyGroup),
		errors.Is(err, game.ErrInvalidGroupPick),
		errors.Is(err, game.ErrTooManyLiving),
		errors.Is(err, game.ErrNoTraitorsDefined):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}
