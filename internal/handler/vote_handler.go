package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type VoteInput struct {
	TargetID string `json:"target_id" binding:"required"`
}

type EndgameVoteInput struct {
	AllTraitorsFound *bool `json:"all_traitors_found" binding:"required"`
}

// endregion

// CastVote godoc
// @Summary      Cast a ballot in a voting round
// @Description  One ballot per voter per round. On killing rounds a traitor's ballot counts toward the kill tally and shielded targets are rejected.
// @Tags         voting
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string true "Round ID"
// @Param        input body VoteInput true "Ballot"
// @Success      201 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Already voted this round"
// @Router       /rounds/{id}/votes [post]
func CastVote(c *gin.Context) {
	userID := c.GetString("userID")

	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := games.CastVote(c.Request.Context(), userID, c.Param("id"), input.TargetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vote recorded"})
}

// CastEndgameVote godoc
// @Summary      Cast a ballot in the endgame round
// @Description  A yes ballot asserts that every remaining traitor has been found.
// @Tags         voting
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string true "Round ID"
// @Param        input body EndgameVoteInput true "Ballot"
// @Success      201 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Already voted this round"
// @Router       /rounds/{id}/endgame-votes [post]
func CastEndgameVote(c *gin.Context) {
	userID := c.GetString("userID")

	var input EndgameVoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := games.CastEndgameVote(c.Request.Context(), userID, c.Param("id"), *input.AllTraitorsFound); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vote recorded"})
}
