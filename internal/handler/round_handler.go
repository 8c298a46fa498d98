package handler

import (
	"net/http"

	"github.com/UniqueClone/traitors-game/internal/game"
	"github.com/UniqueClone/traitors-game/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type StartRoundInput struct {
	Type models.RoundType `json:"type" binding:"required"`
}

type StartMinigameInput struct {
	GroupCount int   `json:"group_count" binding:"required,min=2,max=6"`
	Balanced   bool  `json:"balanced"`
	Sizes      []int `json:"sizes"`
}

type WinningGroupInput struct {
	GroupIndex int `json:"group_index" binding:"required,min=1"`
}

type RoundResponse struct {
	ID                string             `json:"id"`
	GameID            string             `json:"game_id"`
	Round             int                `json:"round"`
	Type              models.RoundType   `json:"type"`
	Status            models.RoundStatus `json:"status"`
	WinningGroupIndex *int               `json:"winning_group_index,omitempty"`
}

func newRoundResponse(round models.GameRound) RoundResponse {
	return RoundResponse{
		ID:                round.ID,
		GameID:            round.GameID,
		Round:             round.Number,
		Type:              round.Type,
		Status:            round.Status,
		WinningGroupIndex: round.WinningGroupIndex,
	}
}

type TallyEntryResponse struct {
	TargetID string `json:"target_id"`
	Count    int    `json:"count"`
}

type RoundResultsResponse struct {
	RoundID  string               `json:"round_id"`
	Type     models.RoundType     `json:"type"`
	Standard []TallyEntryResponse `json:"standard,omitempty"`
	Kill     []TallyEntryResponse `json:"kill,omitempty"`
	Yes      int                  `json:"yes"`
	No       int                  `json:"no"`
}

func newRoundResultsResponse(results *game.RoundResults) RoundResultsResponse {
	response := RoundResultsResponse{
		RoundID: results.RoundID,
		Type:    results.Type,
		Yes:     results.Yes,
		No:      results.No,
	}
	for _, entry := range results.Standard {
		response.Standard = append(response.Standard, TallyEntryResponse(entry))
	}
	for _, entry := range results.Kill {
		response.Kill = append(response.Kill, TallyEntryResponse(entry))
	}
	return response
}

type VotingContextResponse struct {
	Round   RoundResponse    `json:"round"`
	Players []PlayerResponse `json:"players"`
}

type MinigamePlacementResponse struct {
	Round      RoundResponse    `json:"round"`
	GroupIndex int              `json:"group_index"`
	Groupmates []PlayerResponse `json:"groupmates"`
}

// endregion

// StartRound godoc
// @Summary      Start a round (Host only)
// @Description  Force-ends any active round and opens a new one. Minigame and endgame rounds have dedicated endpoints.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string true "Game ID"
// @Param        input body StartRoundInput true "Round type"
// @Success      201 {object} RoundResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/rounds [post]
func StartRound(c *gin.Context) {
	userID := c.GetString("userID")

	var input StartRoundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := games.StartRound(c.Request.Context(), userID, c.Param("id"), input.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoundResponse(*round))
}

// GetRounds godoc
// @Summary      List a game's rounds
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {array} RoundResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/rounds [get]
func GetRounds(c *gin.Context) {
	rounds, err := games.ListRounds(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RoundResponse, 0, len(rounds))
	for _, round := range rounds {
		response = append(response, newRoundResponse(round))
	}
	c.JSON(http.StatusOK, response)
}

// CloseCurrentRound godoc
// @Summary      Close the active round (Host only)
// @Description  Ends the game's active round. Killing rounds clear all shields; endgame rounds resolve the vote and may end the game.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} VerdictResponse
// @Failure      400 {object} ErrorResponse "No active round"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/rounds/close [post]
func CloseCurrentRound(c *gin.Context) {
	userID := c.GetString("userID")

	verdict, err := games.CloseCurrentRound(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerdictResponse{
		Decided: verdict.Decided,
		Winner:  string(verdict.Winner),
		Message: verdict.Message,
	})
}

// RevealResults godoc
// @Summary      Reveal the latest voting results to players (Host only)
// @Description  Points the game's reveal pointer at the most recent ended voting round.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} RoundResponse
// @Failure      400 {object} ErrorResponse "Nothing to reveal"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/reveal [post]
func RevealResults(c *gin.Context) {
	userID := c.GetString("userID")

	round, err := games.RevealLatestResults(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoundResponse(*round))
}

// CallToKitchen godoc
// @Summary      Call everyone to the kitchen (Host only)
// @Description  Bumps the kitchen signal version so player clients navigate over on their next poll.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} map[string]int "{"kitchen_signal_version": 4}"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/kitchen-call [post]
func CallToKitchen(c *gin.Context) {
	userID := c.GetString("userID")

	version, err := games.CallToKitchen(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kitchen_signal_version": version})
}

// StartEndgameVote godoc
// @Summary      Start the endgame vote (Host only)
// @Description  Opens the "all traitors found?" round. Requires four or fewer living players and assigned roles.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      201 {object} RoundResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Endgame vote already active"
// @Router       /games/{id}/endgame-vote [post]
func StartEndgameVote(c *gin.Context) {
	userID := c.GetString("userID")

	round, err := games.StartEndgameVote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoundResponse(*round))
}

// StartMinigame godoc
// @Summary      Start a minigame round (Host only)
// @Description  Partitions the non-eliminated players into groups, either balanced round-robin or by explicit sizes.
// @Tags         minigames
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string true "Game ID"
// @Param        input body StartMinigameInput true "Grouping options"
// @Success      201 {object} RoundResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/minigame [post]
func StartMinigame(c *gin.Context) {
	userID := c.GetString("userID")

	var input StartMinigameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := games.StartMinigame(c.Request.Context(), userID, c.Param("id"),
		input.GroupCount, input.Balanced, input.Sizes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoundResponse(*round))
}

// MarkWinningGroup godoc
// @Summary      Record a minigame's winning group (Host only)
// @Tags         minigames
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string true "Round ID"
// @Param        input body WinningGroupInput true "Winning group"
// @Success      200 {object} map[string]string "{"message": "Winning group recorded"}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /rounds/{id}/winning-group [post]
func MarkWinningGroup(c *gin.Context) {
	userID := c.GetString("userID")

	var input WinningGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := games.MarkWinningGroup(c.Request.Context(), userID, c.Param("id"), input.GroupIndex); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winning group recorded"})
}

// GetRoundResults godoc
// @Summary      Get a round's tallies
// @Description  Standard and kill tallies for killing rounds, a yes/no count for endgame rounds, a standard tally otherwise.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} RoundResultsResponse
// @Failure      404 {object} ErrorResponse
// @Router       /rounds/{id}/results [get]
func GetRoundResults(c *gin.Context) {
	results, err := games.Tally(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoundResultsResponse(results))
}

// GetVotingContext godoc
// @Summary      Get the active voting round and eligible targets
// @Tags         voting
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} VotingContextResponse
// @Failure      404 {object} ErrorResponse "No active game or round"
// @Router       /voting [get]
func GetVotingContext(c *gin.Context) {
	userID := c.GetString("userID")

	voting, err := games.ActiveVotingRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, VotingContextResponse{
		Round:   newRoundResponse(*voting.Round),
		Players: newPlayerResponses(voting.Players, userID, false),
	})
}

// GetRevealedResults godoc
// @Summary      Get the tallies of the last revealed round
// @Tags         voting
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} RoundResultsResponse
// @Failure      400 {object} ErrorResponse "Nothing revealed yet"
// @Failure      404 {object} ErrorResponse
// @Router       /reveal [get]
func GetRevealedResults(c *gin.Context) {
	round, err := games.RevealedRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := games.Tally(c.Request.Context(), round.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoundResultsResponse(results))
}

// GetMinigamePlacement godoc
// @Summary      Get the caller's group in the latest minigame round
// @Tags         minigames
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MinigamePlacementResponse
// @Failure      404 {object} ErrorResponse
// @Router       /minigame [get]
func GetMinigamePlacement(c *gin.Context) {
	userID := c.GetString("userID")

	placement, err := games.MinigamePlacementFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MinigamePlacementResponse{
		Round:      newRoundResponse(*placement.Round),
		GroupIndex: placement.GroupIndex,
		Groupmates: newPlayerResponses(placement.Groupmates, userID, false),
	})
}
