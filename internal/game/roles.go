package game

import (
	"context"
	"log"

	"github.com/UniqueClone/traitors-game/internal/models"
)

// AssignRoles deals hidden roles to the game's non-eliminated players: a
// uniform shuffle, then the first min(quota, total) become traitors and the
// rest faithful. Marks the game's roles as revealed so clients surface them.
func (s *Service) AssignRoles(ctx context.Context, hostID, gameID string) error {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return err
	}

	players, err := s.store.ListLivingPlayers(ctx, gameID)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return ErrNoPlayers
	}

	s.shuffler.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	traitorCount := s.config.TraitorQuota
	if traitorCount > len(players) {
		traitorCount = len(players)
	}

	traitorIDs := make([]string, 0, traitorCount)
	faithfulIDs := make([]string, 0, len(players)-traitorCount)
	for i, player := range players {
		if i < traitorCount {
			traitorIDs = append(traitorIDs, player.ID)
		} else {
			faithfulIDs = append(faithfulIDs, player.ID)
		}
	}

	if err := s.store.AssignRoles(ctx, gameID, traitorIDs, faithfulIDs); err != nil {
		return err
	}

	// Roles are assigned either way; players can still read them directly.
	if err := s.store.SetRolesRevealed(ctx, gameID, true); err != nil {
		log.Printf("assign roles: marking roles revealed for game %s: %v", gameID, err)
	}
	return nil
}

// ClearRoles resets every player's role and hides the reveal flag.
func (s *Service) ClearRoles(ctx context.Context, hostID, gameID string) error {
	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return err
	}
	if err := s.store.ClearRoles(ctx, gameID); err != nil {
		return err
	}
	if err := s.store.SetRolesRevealed(ctx, gameID, false); err != nil {
		log.Printf("clear roles: resetting roles_revealed for game %s: %v", gameID, err)
	}
	return nil
}

// CheckWinCondition inspects the living-player role composition and ends the
// game when one faction has been wiped out. It is a no-op before roles are
// assigned or once the game has ended. Called after every elimination.
func (s *Service) CheckWinCondition(ctx context.Context, gameID string) (Verdict, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return Verdict{}, err
	}
	if game.Status != models.GameStatusActive {
		return verdictContinue, nil
	}

	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return Verdict{}, err
	}

	totalTraitors := 0
	livingTotal := 0
	livingTraitors := 0
	livingFaithful := 0
	for _, player := range players {
		if player.IsTraitor() {
			totalTraitors++
		}
		if player.Eliminated {
			continue
		}
		livingTotal++
		if player.IsTraitor() {
			livingTraitors++
		}
		if player.IsFaithful() {
			livingFaithful++
		}
	}

	// No traitors defined means roles have not been dealt yet.
	if livingTotal == 0 || totalTraitors == 0 {
		return verdictContinue, nil
	}

	switch {
	case livingTraitors == 0:
		if err := s.store.SetGameStatus(ctx, gameID, models.GameStatusEnded); err != nil {
			return Verdict{}, err
		}
		return Verdict{
			Decided: true,
			Winner:  FactionFaithful,
			Message: "Game ended: all Traitors have been eliminated. Faithful win.",
		}, nil
	case livingFaithful == 0:
		if err := s.store.SetGameStatus(ctx, gameID, models.GameStatusEnded); err != nil {
			return Verdict{}, err
		}
		return Verdict{
			Decided: true,
			Winner:  FactionTraitors,
			Message: "Game ended: only Traitors remain. Traitors win.",
		}, nil
	}
	return verdictContinue, nil
}
