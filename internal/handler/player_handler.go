package handler

import (
	"net/http"

	"github.com/UniqueClone/traitors-game/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type JoinInput struct {
	FullName    string `json:"full_name" binding:"required"`
	HeadshotURL string `json:"headshot_url"`
}

type PlayerResponse struct {
	ID          string       `json:"id"`
	GameID      string       `json:"game_id"`
	FullName    string       `json:"full_name"`
	HeadshotURL string       `json:"headshot_url,omitempty"`
	Eliminated  bool         `json:"eliminated"`
	HasShield   bool         `json:"has_shield"`
	Role        *models.Role `json:"role,omitempty"`
}

func newPlayerResponse(player models.Player) PlayerResponse {
	return PlayerResponse{
		ID:          player.ID,
		GameID:      player.GameID,
		FullName:    player.FullName,
		HeadshotURL: player.HeadshotURL,
		Eliminated:  player.Eliminated,
		HasShield:   player.HasShield,
		Role:        player.Role,
	}
}

// newPlayerResponses hides hidden roles from the viewer: only the host sees
// everyone's role, and a player always sees their own.
func newPlayerResponses(players []models.Player, viewerID string, host bool) []PlayerResponse {
	response := make([]PlayerResponse, 0, len(players))
	for _, player := range players {
		entry := newPlayerResponse(player)
		if !host && player.ID != viewerID {
			entry.Role = nil
		}
		response = append(response, entry)
	}
	return response
}

// VerdictResponse reports whether an action decided the game.
type VerdictResponse struct {
	Decided bool   `json:"decided"`
	Winner  string `json:"winner,omitempty"`
	Message string `json:"message"`
}

// endregion

// JoinGame godoc
// @Summary      Join the active game
// @Description  Onboards the caller as a player in the currently active game.
// @Tags         players
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body JoinInput true "Player Info"
// @Success      201 {object} PlayerResponse
// @Failure      404 {object} ErrorResponse "No active game"
// @Failure      409 {object} ErrorResponse "Already joined"
// @Router       /join [post]
func JoinGame(c *gin.Context) {
	userID := c.GetString("userID")

	var input JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := games.JoinActiveGame(c.Request.Context(), userID, input.FullName, input.HeadshotURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPlayerResponse(*player))
}

// GetPlayers godoc
// @Summary      List a game's players
// @Description  Hidden roles are included only for the host; other callers see just their own.
// @Tags         players
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {array} PlayerResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/players [get]
func GetPlayers(c *gin.Context) {
	userID := c.GetString("userID")

	g, err := games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	players, err := games.ListPlayers(c.Request.Context(), g.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlayerResponses(players, userID, g.HostID == userID))
}

// ToggleShield godoc
// @Summary      Toggle a player's shield (Host only)
// @Description  Grants or removes a shield. Grants fail once the game's shield threshold is reached.
// @Tags         players
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "Game ID"
// @Param        playerID path string true "Player ID"
// @Success      200 {object} map[string]string "{"message": "Shield updated"}"
// @Failure      400 {object} ErrorResponse "Shield limit reached"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/players/{playerID}/shield [post]
func ToggleShield(c *gin.Context) {
	userID := c.GetString("userID")

	err := games.ToggleShield(c.Request.Context(), userID, c.Param("id"), c.Param("playerID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shield updated"})
}

// EliminatePlayer godoc
// @Summary      Eliminate a player (Host only)
// @Description  Marks the player eliminated and re-evaluates the win condition, which may end the game.
// @Tags         players
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "Game ID"
// @Param        playerID path string true "Player ID"
// @Success      200 {object} VerdictResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/players/{playerID}/eliminate [post]
func EliminatePlayer(c *gin.Context) {
	userID := c.GetString("userID")

	verdict, err := games.EliminatePlayer(c.Request.Context(), userID, c.Param("id"), c.Param("playerID"))
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

// AssignRoles godoc
// @Summary      Assign and reveal roles (Host only)
// @Description  Randomly deals traitor/faithful roles to non-eliminated players.
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Roles assigned"}"
// @Failure      400 {object} ErrorResponse "No active players"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/roles/assign [post]
func AssignRoles(c *gin.Context) {
	userID := c.GetString("userID")

	if err := games.AssignRoles(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Roles assigned"})
}

// ClearRoles godoc
// @Summary      Clear roles (Host only)
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Roles cleared"}"
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/roles/clear [post]
func ClearRoles(c *gin.Context) {
	userID := c.GetString("userID")

	if err := games.ClearRoles(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Roles cleared"})
}
