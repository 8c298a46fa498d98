package handler

import (
	"net/http"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/phase"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SignalsResponse struct {
	GameID                string            `json:"game_id"`
	Status                models.GameStatus `json:"status"`
	CurRoundNumber        *int              `json:"cur_round_number"`
	LastRevealedRound     *int              `json:"last_revealed_round"`
	RolesRevealed         bool              `json:"roles_revealed"`
	KitchenSignalVersion  int               `json:"kitchen_signal_version"`
	MinigameSignalVersion int               `json:"minigame_signal_version"`
}

type NextDestinationResponse struct {
	Destination string       `json:"destination"`
	Cursor      phase.Cursor `json:"cursor"`
}

// endregion

// GetSignals godoc
// @Summary      Get the active game's signal fields
// @Description  Polled by clients. Absolute values only, so a missed poll loses nothing.
// @Tags         signals
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SignalsResponse
// @Failure      404 {object} ErrorResponse "No active game"
// @Router       /signals [get]
func GetSignals(c *gin.Context) {
	signals, err := games.ActiveSignals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SignalsResponse{
		GameID:                signals.GameID,
		Status:                signals.Status,
		CurRoundNumber:        signals.CurRoundNumber,
		LastRevealedRound:     signals.LastRevealedRound,
		RolesRevealed:         signals.RolesRevealed,
		KitchenSignalVersion:  signals.KitchenSignalVersion,
		MinigameSignalVersion: signals.MinigameSignalVersion,
	})
}

// NextDestination godoc
// @Summary      Resolve the caller's next navigation target
// @Description  Compares the client's last-observed cursor against the active game's signals. Returns an empty destination when nothing changed.
// @Tags         signals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body phase.Cursor true "Last-observed cursor"
// @Success      200 {object} NextDestinationResponse
// @Failure      404 {object} ErrorResponse "No active game"
// @Router       /signals/next [post]
func NextDestination(c *gin.Context) {
	var cursor phase.Cursor
	if err := c.ShouldBindJSON(&cursor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signals, err := games.ActiveSignals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	dest, next := phase.Next(*signals, cursor)
	c.JSON(http.StatusOK, NextDestinationResponse{
		Destination: string(dest),
		Cursor:      next,
	})
}
