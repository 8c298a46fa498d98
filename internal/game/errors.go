package game

import "errors"

// Service errors. Handlers map these onto HTTP statuses: validation failures
// to 400, missing records and non-host callers to 404, benign "already done"
// conflicts to 409, anything else to 500.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrRoundNotFound  = errors.New("round not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotHost        = errors.New("caller is not the host of this game")
	ErrNoActiveGame   = errors.New("no game is currently active")
	ErrGameNotActive  = errors.New("game is not active")

	ErrInvalidRoundType = errors.New("invalid round type")
	ErrNoActiveRound    = errors.New("there is no active round to close")
	ErrRoundNotActive   = errors.New("round is no longer accepting ballots")
	ErrNothingToReveal  = errors.New("there is no completed voting round to reveal yet")

	ErrAlreadyVoted    = errors.New("a ballot for this round has already been recorded")
	ErrVoterEliminated = errors.New("eliminated players cannot vote")
	ErrSelfVote        = errors.New("players cannot vote for themselves")
	ErrTargetShielded  = errors.New("that player holds a shield and cannot be targeted")
	ErrNotEndgameRound = errors.New("round is not an endgame vote")

	ErrShieldLimit = errors.New("shield holder limit reached; remove one first")

	ErrAlreadyJoined = errors.New("player has already joined this game")
	ErrNoPlayers     = errors.New("no active players available")

	ErrGroupCount       = errors.New("group count must be between 2 and 6")
	ErrGroupSizes       = errors.New("group sizes must be positive and sum to the active player count")
	ErrNotMinigame      = errors.New("round is not a minigame")
	ErrEmptyGroup       = errors.New("no players were assigned to that group")
	ErrInvalidGroupPick = errors.New("winning group must be 1 or higher")

	ErrTooManyLiving     = errors.New("endgame vote requires four or fewer living players")
	ErrNoTraitorsDefined = errors.New("no traitors are defined for this game")
	ErrEndgameVoteActive = errors.New("an endgame vote round is already active")
)
