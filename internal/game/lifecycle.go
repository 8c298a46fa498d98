package game

import (
	"context"
	"errors"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"
)

// Signals are the coarse-grained fields polled by player clients to learn
// that a phase changed. Clients reconcile from these absolute values, never
// from deltas.
type Signals struct {
	GameID                string
	Status                models.GameStatus
	CurRoundNumber        *int
	LastRevealedRound     *int
	RolesRevealed         bool
	KitchenSignalVersion  int
	MinigameSignalVersion int
}

// CreateGame inserts a new pending game owned by the caller. Names are not
// required to be unique.
func (s *Service) CreateGame(ctx context.Context, hostID, name string) (*models.Game, error) {
	game := &models.Game{
		Name:                  name,
		Status:                models.GameStatusPending,
		HostID:                hostID,
		ShieldPointsThreshold: 3,
	}
	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetGame returns a single game.
func (s *Service) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	return game, err
}

// ListGames returns every game, newest first.
func (s *Service) ListGames(ctx context.Context) ([]models.Game, error) {
	return s.store.ListGames(ctx)
}

// ActivateGame makes the target game the single active one, ending all
// others first.
func (s *Service) ActivateGame(ctx context.Context, hostID, gameID string) error {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return err
	}
	if err := s.store.ActivateGame(ctx, gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	return nil
}

// EndGame marks the game ended unconditionally.
func (s *Service) EndGame(ctx context.Context, hostID, gameID string) error {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return err
	}
	return s.store.SetGameStatus(ctx, gameID, models.GameStatusEnded)
}

// JoinActiveGame onboards the caller into the currently active game as a
// player. An account returning from an earlier game is moved over with fresh
// per-game state; joining the same game twice is a benign conflict.
func (s *Service) JoinActiveGame(ctx context.Context, userID, fullName, headshotURL string) (*models.Player, error) {
	game, err := s.store.GetActiveGame(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}

	player := &models.Player{
		ID:          userID,
		GameID:      game.ID,
		FullName:    fullName,
		HeadshotURL: headshotURL,
	}
	if err := s.store.CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}
	return player, nil
}

// ListPlayers returns the game's players, shields and elimination flags
// included.
func (s *Service) ListPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.store.ListPlayers(ctx, gameID)
}

// ToggleShield grants the player a shield, or removes the one they hold. At
// most the game's shield threshold may be held simultaneously; the grant is a
// conditional write so concurrent toggles cannot exceed it.
func (s *Service) ToggleShield(ctx context.Context, hostID, gameID, playerID string) error {
	game, err := s.hostGame(ctx, hostID, gameID)
	if err != nil {
		return err
	}

	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil || player.GameID != gameID {
		return ErrPlayerNotFound
	}

	if player.HasShield {
		return s.store.RevokeShield(ctx, gameID, playerID)
	}
	if err := s.store.GrantShield(ctx, gameID, playerID, game.ShieldPointsThreshold); err != nil {
		if errors.Is(err, store.ErrShieldLimit) {
			return ErrShieldLimit
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}

// CallToKitchen bumps the kitchen signal version, nudging every player's
// client toward the kitchen screen on its next poll.
func (s *Service) CallToKitchen(ctx context.Context, hostID, gameID string) (int, error) {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return 0, err
	}
	return s.store.BumpKitchenSignal(ctx, gameID)
}

// EliminatePlayer marks a player eliminated during result processing and then
// re-evaluates the win condition, which may end the game.
func (s *Service) EliminatePlayer(ctx context.Context, hostID, gameID, playerID string) (Verdict, error) {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return Verdict{}, err
	}
	if err := s.store.SetEliminated(ctx, gameID, playerID, true); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verdict{}, ErrPlayerNotFound
		}
		return Verdict{}, err
	}
	return s.CheckWinCondition(ctx, gameID)
}

// ActiveSignals returns the active game's signal fields for polling clients.
func (s *Service) ActiveSignals(ctx context.Context) (*Signals, error) {
	game, err := s.store.GetActiveGame(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}
	return &Signals{
		GameID:                game.ID,
		Status:                game.Status,
		CurRoundNumber:        game.CurRoundNumber,
		LastRevealedRound:     game.LastRevealedRound,
		RolesRevealed:         game.RolesRevealed,
		KitchenSignalVersion:  game.KitchenSignalVersion,
		MinigameSignalVersion: game.MinigameSignalVersion,
	}, nil
}
