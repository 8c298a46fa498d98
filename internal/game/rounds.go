package game

import (
	"context"
	"errors"
	"log"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"
)

// votingRoundTypes are the round types players respond to from their devices.
var votingRoundTypes = []models.RoundType{
	models.RoundTypeBanishmentVote,
	models.RoundTypeKillingVote,
	models.RoundTypeEndgameVote,
}

// revealableRoundTypes are the round types whose tallies the host can reveal
// to players.
var revealableRoundTypes = []models.RoundType{
	models.RoundTypeBanishmentVote,
	models.RoundTypeKillingVote,
}

// StartRound force-ends any active round for the game and opens a new one of
// the given type. Minigame and endgame rounds have dedicated entry points
// with their own preconditions.
func (s *Service) StartRound(ctx context.Context, hostID, gameID string, roundType models.RoundType) (*models.GameRound, error) {
	if !models.ValidRoundType(roundType) ||
		roundType == models.RoundTypeMinigame ||
		roundType == models.RoundTypeEndgameVote {
		return nil, ErrInvalidRoundType
	}

	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return nil, err
	}

	round, err := s.store.CreateRound(ctx, gameID, roundType)
	if err != nil {
		return nil, err
	}

	if models.IsVotingType(roundType) {
		// Losing the pointer bump does not undo the round; the next poll
		// still finds the round itself.
		if err := s.store.SetCurrentRound(ctx, gameID, round.Number); err != nil {
			log.Printf("start round: updating cur_round_number for game %s: %v", gameID, err)
		}
	}
	return round, nil
}

// CloseRound ends a round and applies its type-specific side effects: killing
// rounds clear every shield in the game, endgame rounds trigger resolution.
func (s *Service) CloseRound(ctx context.Context, hostID, roundID string) (Verdict, error) {
	game, round, err := s.hostRound(ctx, hostID, roundID)
	if err != nil {
		return Verdict{}, err
	}
	// Side effects must fire once; a round that already ended is done.
	if round.Status != models.RoundStatusActive {
		return Verdict{}, ErrRoundNotActive
	}

	if err := s.store.EndRound(ctx, roundID); err != nil {
		return Verdict{}, err
	}

	switch round.Type {
	case models.RoundTypeKillingVote:
		// Shields are single-use per kill cycle, spent or not.
		if err := s.store.ClearShields(ctx, game.ID); err != nil {
			log.Printf("close round: clearing shields for game %s: %v", game.ID, err)
		}
	case models.RoundTypeEndgameVote:
		return s.resolveEndgameVote(ctx, game, round)
	}
	return verdictContinue, nil
}

// CloseCurrentRound finds the game's active round and closes it.
func (s *Service) CloseCurrentRound(ctx context.Context, hostID, gameID string) (Verdict, error) {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return Verdict{}, err
	}

	round, err := s.store.ActiveRound(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verdict{}, ErrNoActiveRound
		}
		return Verdict{}, err
	}
	return s.CloseRound(ctx, hostID, round.ID)
}

// ListRounds returns the game's rounds in play order.
func (s *Service) ListRounds(ctx context.Context, gameID string) ([]models.GameRound, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.store.ListRounds(ctx, gameID)
}

// RevealLatestResults points players at the most recent ended voting round by
// bumping the game's reveal pointer.
func (s *Service) RevealLatestResults(ctx context.Context, hostID, gameID string) (*models.GameRound, error) {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return nil, err
	}

	round, err := s.store.LatestEndedRound(ctx, gameID, revealableRoundTypes...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNothingToReveal
		}
		return nil, err
	}

	if err := s.store.SetLastRevealedRound(ctx, gameID, round.Number); err != nil {
		return nil, err
	}
	return round, nil
}

// ActiveVotingRound returns the active game's open voting round together with
// the living players a ballot may target. Shield holders remain listed so
// killing-round clients can show them as untargetable.
func (s *Service) ActiveVotingRound(ctx context.Context) (*VotingContext, error) {
	game, err := s.store.GetActiveGame(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}

	round, err := s.store.ActiveRound(ctx, game.ID, votingRoundTypes...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveRound
		}
		return nil, err
	}

	players, err := s.store.ListLivingPlayers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	return &VotingContext{Round: round, Players: players}, nil
}

// RevealedRound resolves the active game's reveal pointer to the round it
// names, for player reveal views.
func (s *Service) RevealedRound(ctx context.Context) (*models.GameRound, error) {
	game, err := s.store.GetActiveGame(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}
	if game.LastRevealedRound == nil {
		return nil, ErrNothingToReveal
	}

	rounds, err := s.store.ListRounds(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	for i := range rounds {
		if rounds[i].Number == *game.LastRevealedRound {
			return &rounds[i], nil
		}
	}
	return nil, ErrRoundNotFound
}
