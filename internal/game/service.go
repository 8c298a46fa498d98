package game

import (
	"context"
	"errors"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"
)

// Config holds the game rules that are constants of the format rather than
// per-game state.
type Config struct {
	// TraitorQuota is the number of traitors assigned when roles are dealt,
	// capped by the player count.
	TraitorQuota int
	// MaxEndgameLiving is the most living players allowed when the host
	// starts an endgame vote.
	MaxEndgameLiving int
	// MinGroups and MaxGroups bound the minigame group count.
	MinGroups int
	MaxGroups int
}

// Service implements the game core: lifecycle transitions, the round state
// machine, the vote ledger, role assignment and minigame grouping.
type Service struct {
	config   *Config
	store    store.Store
	shuffler Shuffler
}

// NewService creates a game service. A nil config selects the standard rules.
func NewService(st store.Store, shuffler Shuffler, cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{
			TraitorQuota:     3,
			MaxEndgameLiving: 4,
			MinGroups:        2,
			MaxGroups:        6,
		}
	}
	return &Service{
		config:   cfg,
		store:    st,
		shuffler: shuffler,
	}
}

// hostGame loads a game and verifies the caller hosts it. Host-only
// operations go through this gate before mutating anything.
func (s *Service) hostGame(ctx context.Context, hostID, gameID string) (*models.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if game.HostID != hostID {
		return nil, ErrNotHost
	}
	return game, nil
}

// hostRound resolves a round to its game and verifies the caller hosts it.
func (s *Service) hostRound(ctx context.Context, hostID, roundID string) (*models.Game, *models.GameRound, error) {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrRoundNotFound
		}
		return nil, nil, err
	}
	game, err := s.hostGame(ctx, hostID, round.GameID)
	if err != nil {
		return nil, nil, err
	}
	return game, round, nil
}
