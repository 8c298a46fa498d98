package game

import (
	"context"
	"errors"
	"log"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"
)

// StartEndgameVote opens the special "have we found every traitor" round. It
// is only available late game: the game must be active, four or fewer players
// may be living, roles must be dealt, and no endgame round may already be
// open.
func (s *Service) StartEndgameVote(ctx context.Context, hostID, gameID string) (*models.GameRound, error) {
	game, err := s.hostGame(ctx, hostID, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusActive {
		return nil, ErrGameNotActive
	}

	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}

	living := 0
	traitors := 0
	for _, player := range players {
		if !player.Eliminated {
			living++
		}
		if player.IsTraitor() {
			traitors++
		}
	}
	if living > s.config.MaxEndgameLiving {
		return nil, ErrTooManyLiving
	}
	if traitors == 0 {
		return nil, ErrNoTraitorsDefined
	}

	_, err = s.store.ActiveRound(ctx, gameID, models.RoundTypeEndgameVote)
	if err == nil {
		return nil, ErrEndgameVoteActive
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	round, err := s.store.CreateRound(ctx, gameID, models.RoundTypeEndgameVote)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCurrentRound(ctx, gameID, round.Number); err != nil {
		log.Printf("endgame vote: updating cur_round_number for game %s: %v", gameID, err)
	}
	return round, nil
}

// resolveEndgameVote decides the game when an endgame round closes. A strict
// majority of "all traitors found" ballots is required; a tie or an empty
// ledger lets the game continue. On a majority the ground truth decides the
// winner: Faithful if no traitor is left alive, Traitors otherwise.
func (s *Service) resolveEndgameVote(ctx context.Context, game *models.Game, round *models.GameRound) (Verdict, error) {
	votes, err := s.store.ListEndgameVotes(ctx, round.ID)
	if err != nil {
		return Verdict{}, err
	}
	if len(votes) == 0 {
		return Verdict{Message: "No endgame ballots were recorded. The game continues."}, nil
	}

	yes, no := 0, 0
	for _, vote := range votes {
		if vote.AllTraitorsFound {
			yes++
		} else {
			no++
		}
	}
	if yes <= no {
		return Verdict{Message: "Players voted that not all Traitors have been found. The game continues."}, nil
	}

	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		return Verdict{}, err
	}

	totalTraitors := 0
	livingTraitors := 0
	for _, player := range players {
		if player.IsTraitor() {
			totalTraitors++
			if !player.Eliminated {
				livingTraitors++
			}
		}
	}
	if totalTraitors == 0 {
		return Verdict{}, ErrNoTraitorsDefined
	}

	if err := s.store.SetGameStatus(ctx, game.ID, models.GameStatusEnded); err != nil {
		return Verdict{}, err
	}

	if livingTraitors == 0 {
		return Verdict{
			Decided: true,
			Winner:  FactionFaithful,
			Message: "Game ended: players correctly found all Traitors. Faithful win.",
		}, nil
	}
	return Verdict{
		Decided: true,
		Winner:  FactionTraitors,
		Message: "Game ended: players were wrong, Traitors remain. Traitors win.",
	}, nil
}
