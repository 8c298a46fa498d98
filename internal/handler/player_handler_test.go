package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UniqueClone/traitors-game/internal/game"
	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the handlers to a fresh in-memory store. The caller's
// identity comes from the X-User-ID header in place of the JWT middleware.
func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	Init(st, game.NewService(st, game.NewShuffler(1), nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set("userID", id)
		}
		c.Next()
	})
	router.GET("/games/:id/players", GetPlayers)
	return router, st
}

func getPlayers(t *testing.T, router *gin.Engine, gameID, userID string) []PlayerResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/games/"+gameID+"/players", nil)
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var players []PlayerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &players))
	return players
}

func TestGetPlayersHidesRolesFromNonHosts(t *testing.T) {
	ctx := context.Background()
	router, st := newTestRouter(t)

	g := &models.Game{Name: "test", HostID: "host-1", Status: models.GameStatusActive}
	require.NoError(t, st.CreateGame(ctx, g))
	require.NoError(t, st.CreatePlayer(ctx, &models.Player{ID: "p1", GameID: g.ID, FullName: "One"}))
	require.NoError(t, st.CreatePlayer(ctx, &models.Player{ID: "p2", GameID: g.ID, FullName: "Two"}))
	require.NoError(t, st.AssignRoles(ctx, g.ID, []string{"p1"}, []string{"p2"}))

	roles := func(players []PlayerResponse) map[string]*models.Role {
		out := make(map[string]*models.Role, len(players))
		for _, player := range players {
			out[player.ID] = player.Role
		}
		return out
	}

	// The host sees every role.
	hostView := roles(getPlayers(t, router, g.ID, "host-1"))
	require.NotNil(t, hostView["p1"])
	assert.Equal(t, models.RoleTraitor, *hostView["p1"])
	require.NotNil(t, hostView["p2"])
	assert.Equal(t, models.RoleFaithful, *hostView["p2"])

	// A player sees only their own.
	playerView := roles(getPlayers(t, router, g.ID, "p2"))
	assert.Nil(t, playerView["p1"])
	require.NotNil(t, playerView["p2"])
	assert.Equal(t, models.RoleFaithful, *playerView["p2"])
}
