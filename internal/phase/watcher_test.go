package phase

import (
	"testing"

	"github.com/UniqueClone/traitors-game/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestNextNoChangesStaysPut(t *testing.T) {
	sig := game.Signals{
		CurRoundNumber:        intp(2),
		KitchenSignalVersion:  5,
		MinigameSignalVersion: 1,
	}
	cur := Cursor{
		RoundNumber:     intp(2),
		KitchenVersion:  intp(5),
		MinigameVersion: intp(1),
	}

	dest, next := Next(sig, cur)
	assert.Equal(t, DestNone, dest)
	assert.Equal(t, cur, next)
}

func TestNextRoleRevealOutranksEverything(t *testing.T) {
	sig := game.Signals{
		RolesRevealed:        true,
		CurRoundNumber:       intp(3),
		LastRevealedRound:    intp(2),
		KitchenSignalVersion: 9,
	}

	dest, next := Next(sig, Cursor{})
	assert.Equal(t, DestProfile, dest)
	assert.True(t, next.RolesRevealed)
	// The other channels stay pending for the following poll.
	assert.Nil(t, next.RoundNumber)
	assert.Nil(t, next.RevealedRound)
	assert.Nil(t, next.KitchenVersion)
}

func TestNextNewRoundRedirectsToVoting(t *testing.T) {
	sig := game.Signals{CurRoundNumber: intp(1)}

	dest, next := Next(sig, Cursor{})
	require.Equal(t, DestVoting, dest)
	require.NotNil(t, next.RoundNumber)
	assert.Equal(t, 1, *next.RoundNumber)

	// Same round on the next poll does nothing.
	dest, next = Next(sig, next)
	assert.Equal(t, DestNone, dest)

	sig.CurRoundNumber = intp(2)
	dest, _ = Next(sig, next)
	assert.Equal(t, DestVoting, dest)
}

func TestNextRevealRedirects(t *testing.T) {
	sig := game.Signals{
		CurRoundNumber:    intp(2),
		LastRevealedRound: intp(2),
	}
	cur := Cursor{RoundNumber: intp(2)}

	dest, next := Next(sig, cur)
	assert.Equal(t, DestReveal, dest)
	require.NotNil(t, next.RevealedRound)
	assert.Equal(t, 2, *next.RevealedRound)
}

func TestNextKitchenDoesNotFireOnFirstObservation(t *testing.T) {
	sig := game.Signals{KitchenSignalVersion: 3}

	// A fresh client records the version instead of being redirected to a
	// phase that may long be over.
	dest, next := Next(sig, Cursor{})
	assert.Equal(t, DestNone, dest)
	require.NotNil(t, next.KitchenVersion)
	assert.Equal(t, 3, *next.KitchenVersion)

	sig.KitchenSignalVersion = 4
	dest, next = Next(sig, next)
	assert.Equal(t, DestKitchen, dest)
	assert.Equal(t, 4, *next.KitchenVersion)
}

func TestNextMinigameDoesNotFireOnFirstObservation(t *testing.T) {
	sig := game.Signals{MinigameSignalVersion: 1}

	dest, next := Next(sig, Cursor{})
	assert.Equal(t, DestNone, dest)
	require.NotNil(t, next.MinigameVersion)

	sig.MinigameSignalVersion = 2
	dest, _ = Next(sig, next)
	assert.Equal(t, DestMinigame, dest)
}

func TestNextKitchenOutranksMinigame(t *testing.T) {
	cur := Cursor{KitchenVersion: intp(1), MinigameVersion: intp(1)}
	sig := game.Signals{KitchenSignalVersion: 2, MinigameSignalVersion: 2}

	dest, next := Next(sig, cur)
	assert.Equal(t, DestKitchen, dest)

	// The minigame change is still pending.
	dest, _ = Next(sig, next)
	assert.Equal(t, DestMinigame, dest)
}

func TestNextRoleClearResetsCursor(t *testing.T) {
	cur := Cursor{RolesRevealed: true}
	sig := game.Signals{RolesRevealed: false}

	dest, next := Next(sig, cur)
	assert.Equal(t, DestNone, dest)
	assert.False(t, next.RolesRevealed)

	// A fresh deal fires again.
	sig.RolesRevealed = true
	dest, _ = Next(sig, next)
	assert.Equal(t, DestProfile, dest)
}
