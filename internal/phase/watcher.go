// Package phase decides where a player's client should navigate when the
// host moves the game along. Each client keeps a cursor of the last signal
// values it observed; comparing that cursor against the game's current
// signals yields at most one destination per phase change, so reloads and
// repeat polls never re-trigger a nudge. Clients reconcile from the absolute
// values, never from deltas: a missed poll is harmless.
package phase

import "github.com/UniqueClone/traitors-game/internal/game"

// Destination is where the client should navigate, if anywhere.
type Destination string

const (
	DestNone     Destination = ""
	DestProfile  Destination = "/profile"
	DestVoting   Destination = "/voting"
	DestReveal   Destination = "/voting/reveal"
	DestKitchen  Destination = "/kitchen"
	DestMinigame Destination = "/minigame"
)

// Cursor is one client's last-observed signal values. A nil pointer means the
// channel has never been observed.
type Cursor struct {
	RoundNumber     *int `json:"round_number,omitempty"`
	RevealedRound   *int `json:"revealed_round,omitempty"`
	RolesRevealed   bool `json:"roles_revealed"`
	KitchenVersion  *int `json:"kitchen_version,omitempty"`
	MinigameVersion *int `json:"minigame_version,omitempty"`
}

// Next compares the game's signals against the client's cursor and returns
// the destination to navigate to plus the advanced cursor. Checks are
// prioritised: a role reveal outranks a new voting round, which outranks a
// reveal, which outranks the kitchen and minigame calls. Only the winning
// channel consumes its change; the rest stay pending for the next poll.
//
// The kitchen and minigame counters deliberately do not fire on first
// observation: a fresh login records the current version instead of being
// yanked to a phase that may long be over.
func Next(sig game.Signals, cur Cursor) (Destination, Cursor) {
	next := cur

	if sig.RolesRevealed && !cur.RolesRevealed {
		next.RolesRevealed = true
		return DestProfile, next
	}
	if !sig.RolesRevealed {
		next.RolesRevealed = false
	}

	if sig.CurRoundNumber != nil &&
		(cur.RoundNumber == nil || *cur.RoundNumber != *sig.CurRoundNumber) {
		n := *sig.CurRoundNumber
		next.RoundNumber = &n
		return DestVoting, next
	}

	if sig.LastRevealedRound != nil &&
		(cur.RevealedRound == nil || *cur.RevealedRound != *sig.LastRevealedRound) {
		n := *sig.LastRevealedRound
		next.RevealedRound = &n
		return DestReveal, next
	}

	if dest, advanced := observeCounter(sig.KitchenSignalVersion, &next.KitchenVersion); advanced {
		if dest {
			return DestKitchen, next
		}
	}
	if dest, advanced := observeCounter(sig.MinigameSignalVersion, &next.MinigameVersion); advanced {
		if dest {
			return DestMinigame, next
		}
	}

	return DestNone, next
}

// observeCounter advances a version cursor. It reports whether to redirect
// (only when a previously observed value increased) and whether the cursor
// changed at all.
func observeCounter(current int, seen **int) (redirect, advanced bool) {
	if *seen == nil {
		v := current
		*seen = &v
		return false, true
	}
	if **seen != current {
		v := current
		*seen = &v
		return true, true
	}
	return false, false
}
