package game

import "github.com/UniqueClone/traitors-game/internal/models"

// Faction names a winning side.
type Faction string

const (
	FactionFaithful Faction = "faithful"
	FactionTraitors Faction = "traitors"
)

// Verdict is the outcome of a win-condition check or an endgame vote
// resolution. The winner is host-visible but transient; only the game status
// change is persisted.
type Verdict struct {
	Decided bool
	Winner  Faction
	Message string
}

var verdictContinue = Verdict{Message: "The game continues."}

// TallyEntry is one target's count in a round tally.
type TallyEntry struct {
	TargetID string
	Count    int
}

// RoundResults carries the tallies for one round. Killing rounds produce two
// independent leaderboards; endgame rounds produce a yes/no count; every other
// voting round produces a single standard tally.
type RoundResults struct {
	RoundID string
	Type    models.RoundType

	Standard []TallyEntry
	Kill     []TallyEntry

	Yes int
	No  int
}

// VotingContext is what a player needs to cast a ballot: the active voting
// round and the eligible targets (living players; shield holders are included
// but flagged so killing-round clients can disable them).
type VotingContext struct {
	Round   *models.GameRound
	Players []models.Player
}

// MinigamePlacement is one player's view of the latest minigame round.
type MinigamePlacement struct {
	Round      *models.GameRound
	GroupIndex int
	Groupmates []models.Player
}
