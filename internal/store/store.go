package store

import (
	"context"
	"errors"

	"github.com/UniqueClone/traitors-game/internal/models"
)

// Store errors. The game service translates these into its own taxonomy; the
// gorm and in-memory implementations must both return them for the same
// conditions.
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate record")
	ErrShieldLimit = errors.New("shield holder limit reached")
)

// Store is the persistence boundary for the game core: equality-filtered
// selects, ordered limit-1 selects, inserts, conditional updates and counts
// over the games, game_rounds, players, votes, endgame_votes and
// minigame_groups tables.
//
// Sequences the design treats as atomic (close-before-open round creation,
// ballot dedup, shield cap, single-active-game) are single Store calls so an
// implementation can enforce them with a transaction or a unique constraint
// rather than a caller-side check-then-act.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	// Games.
	CreateGame(ctx context.Context, game *models.Game) error
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	// GetActiveGame returns the single game with status=active.
	GetActiveGame(ctx context.Context) (*models.Game, error)
	// ActivateGame ends every other game and activates the target in one
	// transaction, preserving the at-most-one-active-game invariant.
	ActivateGame(ctx context.Context, id string) error
	SetGameStatus(ctx context.Context, id string, status models.GameStatus) error
	SetCurrentRound(ctx context.Context, gameID string, number int) error
	SetLastRevealedRound(ctx context.Context, gameID string, number int) error
	SetRolesRevealed(ctx context.Context, gameID string, revealed bool) error
	// BumpKitchenSignal / BumpMinigameSignal increment the counter server-side
	// and return the new value.
	BumpKitchenSignal(ctx context.Context, gameID string) (int, error)
	BumpMinigameSignal(ctx context.Context, gameID string) (int, error)

	// Players.
	// CreatePlayer inserts the player, or re-points an existing row for the
	// same account at the new game with fresh per-game state. Returns
	// ErrDuplicate only when the account already has a row in that game.
	CreatePlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context, gameID string) ([]models.Player, error)
	ListLivingPlayers(ctx context.Context, gameID string) ([]models.Player, error)
	SetEliminated(ctx context.Context, gameID, playerID string, eliminated bool) error
	AssignRoles(ctx context.Context, gameID string, traitorIDs, faithfulIDs []string) error
	ClearRoles(ctx context.Context, gameID string) error
	// GrantShield sets has_shield only while fewer than limit players in the
	// game hold one, returning ErrShieldLimit otherwise.
	GrantShield(ctx context.Context, gameID, playerID string, limit int) error
	RevokeShield(ctx context.Context, gameID, playerID string) error
	ClearShields(ctx context.Context, gameID string) error

	// Rounds.
	// CreateRound force-ends the game's active rounds and inserts a new active
	// round numbered max(existing)+1, all in one transaction.
	CreateRound(ctx context.Context, gameID string, roundType models.RoundType) (*models.GameRound, error)
	GetRound(ctx context.Context, id string) (*models.GameRound, error)
	ListRounds(ctx context.Context, gameID string) ([]models.GameRound, error)
	EndRound(ctx context.Context, id string) error
	// ActiveRound returns the game's active round, optionally restricted to
	// the given types.
	ActiveRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error)
	// LatestEndedRound returns the highest-numbered ended round of the given
	// types.
	LatestEndedRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error)
	// LatestRound returns the highest-numbered round of the given types
	// regardless of status.
	LatestRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error)
	// SetWinningGroup records the winning group and forces the round to ended.
	SetWinningGroup(ctx context.Context, roundID string, groupIndex int) error

	// Ballots. Create returns ErrDuplicate when the voter already has a ballot
	// for the round.
	CreateVote(ctx context.Context, vote *models.Vote) error
	ListVotes(ctx context.Context, roundID string) ([]models.Vote, error)
	CreateEndgameVote(ctx context.Context, vote *models.EndgameVote) error
	ListEndgameVotes(ctx context.Context, roundID string) ([]models.EndgameVote, error)

	// Minigame group assignments.
	CreateMinigameGroups(ctx context.Context, groups []models.MinigameGroup) error
	ListMinigameGroups(ctx context.Context, roundID string) ([]models.MinigameGroup, error)
	GroupExists(ctx context.Context, roundID string, groupIndex int) (bool, error)
}
