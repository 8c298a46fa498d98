package game

import (
	"context"
	"errors"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"
)

// StartMinigame opens a minigame round and partitions the non-eliminated
// players into groupCount groups from a fresh shuffle. Balanced mode deals
// round-robin so sizes differ by at most one; otherwise the caller supplies
// exactly groupCount positive sizes summing to the active-player count and
// players are sliced contiguously from the shuffled order. Bumps the minigame
// signal so player clients navigate over.
func (s *Service) StartMinigame(ctx context.Context, hostID, gameID string, groupCount int, balanced bool, sizes []int) (*models.GameRound, error) {
	if groupCount < s.config.MinGroups || groupCount > s.config.MaxGroups {
		return nil, ErrGroupCount
	}

	if _, err := s.hostGame(ctx, hostID, gameID); err != nil {
		return nil, err
	}

	players, err := s.store.ListLivingPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	if !balanced {
		if len(sizes) != groupCount {
			return nil, ErrGroupSizes
		}
		total := 0
		for _, size := range sizes {
			if size < 1 {
				return nil, ErrGroupSizes
			}
			total += size
		}
		if total != len(players) {
			return nil, ErrGroupSizes
		}
	}

	round, err := s.store.CreateRound(ctx, gameID, models.RoundTypeMinigame)
	if err != nil {
		return nil, err
	}

	s.shuffler.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	assignments := make([]models.MinigameGroup, 0, len(players))
	if balanced {
		for i, player := range players {
			assignments = append(assignments, models.MinigameGroup{
				GameID:     gameID,
				RoundID:    round.ID,
				PlayerID:   player.ID,
				GroupIndex: i%groupCount + 1,
			})
		}
	} else {
		cursor := 0
		for groupIndex, size := range sizes {
			for i := 0; i < size; i++ {
				assignments = append(assignments, models.MinigameGroup{
					GameID:     gameID,
					RoundID:    round.ID,
					PlayerID:   players[cursor].ID,
					GroupIndex: groupIndex + 1,
				})
				cursor++
			}
		}
	}

	if err := s.store.CreateMinigameGroups(ctx, assignments); err != nil {
		return nil, err
	}

	if _, err := s.store.BumpMinigameSignal(ctx, gameID); err != nil {
		return nil, err
	}
	return round, nil
}

// MarkWinningGroup records the winning group for a minigame round and forces
// the round closed. The group must actually contain players.
func (s *Service) MarkWinningGroup(ctx context.Context, hostID, roundID string, groupIndex int) error {
	_, round, err := s.hostRound(ctx, hostID, roundID)
	if err != nil {
		return err
	}
	if round.Type != models.RoundTypeMinigame {
		return ErrNotMinigame
	}
	if groupIndex < 1 {
		return ErrInvalidGroupPick
	}

	exists, err := s.store.GroupExists(ctx, roundID, groupIndex)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmptyGroup
	}
	return s.store.SetWinningGroup(ctx, roundID, groupIndex)
}

// MinigamePlacementFor returns the caller's group in the latest minigame
// round of the active game, with the teammates in that group.
func (s *Service) MinigamePlacementFor(ctx context.Context, playerID string) (*MinigamePlacement, error) {
	game, err := s.store.GetActiveGame(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}

	round, err := s.store.LatestRound(ctx, game.ID, models.RoundTypeMinigame)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	groups, err := s.store.ListMinigameGroups(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	groupIndex := 0
	memberIDs := make(map[string]struct{})
	for _, group := range groups {
		if group.PlayerID == playerID {
			groupIndex = group.GroupIndex
			break
		}
	}
	if groupIndex == 0 {
		return nil, ErrPlayerNotFound
	}
	for _, group := range groups {
		if group.GroupIndex == groupIndex && group.PlayerID != playerID {
			memberIDs[group.PlayerID] = struct{}{}
		}
	}

	players, err := s.store.ListPlayers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	var groupmates []models.Player
	for _, player := range players {
		if _, ok := memberIDs[player.ID]; ok {
			groupmates = append(groupmates, player)
		}
	}

	return &MinigamePlacement{
		Round:      round,
		GroupIndex: groupIndex,
		Groupmates: groupmates,
	}, nil
}
