package handler

import (
	"net/http"

	"github.com/UniqueClone/traitors-game/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	Name string `json:"name" binding:"required"`
}

type GameResponse struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Status                models.GameStatus `json:"status"`
	HostID                string            `json:"host_id"`
	CurRoundNumber        *int              `json:"cur_round_number"`
	LastRevealedRound     *int              `json:"last_revealed_round"`
	RolesRevealed         bool              `json:"roles_revealed"`
	KitchenSignalVersion  int               `json:"kitchen_signal_version"`
	MinigameSignalVersion int               `json:"minigame_signal_version"`
	ShieldPointsThreshold int               `json:"shield_points_threshold"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:                    game.ID,
		Name:                  game.Name,
		Status:                game.Status,
		HostID:                game.HostID,
		CurRoundNumber:        game.CurRoundNumber,
		LastRevealedRound:     game.LastRevealedRound,
		RolesRevealed:         game.RolesRevealed,
		KitchenSignalVersion:  game.KitchenSignalVersion,
		MinigameSignalVersion: game.MinigameSignalVersion,
		ShieldPointsThreshold: game.ShieldPointsThreshold,
	}
}

// endregion

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a pending game session owned by the caller.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /games [post]
func CreateGame(c *gin.Context) {
	userID := c.GetString("userID")

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := games.CreateGame(c.Request.Context(), userID, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGameResponse(*created))
}

// GetGames godoc
// @Summary      List games
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Success      200 {object} PaginatedResponse[GameResponse]
// @Router       /games [get]
func GetGames(c *gin.Context) {
	list, err := games.ListGames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]GameResponse, 0, len(list))
	for _, g := range list {
		response = append(response, newGameResponse(g))
	}
	page, limit := pageParams(c)
	c.JSON(http.StatusOK, Paginate(response, page, limit))
}

// GetGameByID godoc
// @Summary      Get a game by ID
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	g, err := games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*g))
}

// ActivateGame godoc
// @Summary      Activate a game (Host only)
// @Description  Ends every other game and makes this one the single active session.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game activated"}"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/activate [post]
func ActivateGame(c *gin.Context) {
	userID := c.GetString("userID")

	if err := games.ActivateGame(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game activated"})
}

// EndGame godoc
// @Summary      End a game (Host only)
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game ended"}"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/end [post]
func EndGame(c *gin.Context) {
	userID := c.GetString("userID")

	if err := games.EndGame(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game ended"})
}
