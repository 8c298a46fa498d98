package game

import (
	"context"
	"errors"
	"sort"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"
)

// CastVote records a targeted ballot. In killing rounds shield holders are
// invalid targets and a traitor's ballot is classified as a kill ballot.
// Duplicate submissions surface as ErrAlreadyVoted; the ledger's unique key
// guarantees at most one ballot per (voter, round) even under concurrent
// submissions.
func (s *Service) CastVote(ctx context.Context, voterID, roundID, targetID string) error {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	if round.Type != models.RoundTypeBanishmentVote && round.Type != models.RoundTypeKillingVote {
		return ErrInvalidRoundType
	}
	if round.Status != models.RoundStatusActive {
		return ErrRoundNotActive
	}

	voter, err := s.store.GetPlayer(ctx, voterID)
	if err != nil || voter.GameID != round.GameID {
		return ErrPlayerNotFound
	}
	if voter.Eliminated {
		return ErrVoterEliminated
	}
	if voterID == targetID {
		return ErrSelfVote
	}

	kind := models.VoteKindStandard
	if round.Type == models.RoundTypeKillingVote {
		target, err := s.store.GetPlayer(ctx, targetID)
		if err != nil || target.GameID != round.GameID {
			return ErrPlayerNotFound
		}
		if target.HasShield {
			return ErrTargetShielded
		}
		if voter.IsTraitor() {
			kind = models.VoteKindKill
		}
	}

	vote := &models.Vote{
		RoundID:  roundID,
		VoterID:  voterID,
		TargetID: targetID,
		Kind:     kind,
	}
	if err := s.store.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyVoted
		}
		return err
	}
	return nil
}

// CastEndgameVote records a yes/no ballot on whether all traitors have been
// found.
func (s *Service) CastEndgameVote(ctx context.Context, voterID, roundID string, allTraitorsFound bool) error {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	if round.Type != models.RoundTypeEndgameVote {
		return ErrNotEndgameRound
	}
	if round.Status != models.RoundStatusActive {
		return ErrRoundNotActive
	}

	voter, err := s.store.GetPlayer(ctx, voterID)
	if err != nil || voter.GameID != round.GameID {
		return ErrPlayerNotFound
	}
	if voter.Eliminated {
		return ErrVoterEliminated
	}

	vote := &models.EndgameVote{
		GameID:           round.GameID,
		RoundID:          roundID,
		VoterID:          voterID,
		AllTraitorsFound: allTraitorsFound,
	}
	if err := s.store.CreateEndgameVote(ctx, vote); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyVoted
		}
		return err
	}
	return nil
}

// Tally computes a round's results. Killing rounds yield two independent
// leaderboards, one for standard suspicion ballots and one for the traitors'
// kill ballots; they are never merged. Endgame rounds yield a yes/no count.
// Other voting rounds count standard ballots only.
func (s *Service) Tally(ctx context.Context, roundID string) (*RoundResults, error) {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	results := &RoundResults{RoundID: round.ID, Type: round.Type}

	if round.Type == models.RoundTypeEndgameVote {
		votes, err := s.store.ListEndgameVotes(ctx, roundID)
		if err != nil {
			return nil, err
		}
		for _, vote := range votes {
			if vote.AllTraitorsFound {
				results.Yes++
			} else {
				results.No++
			}
		}
		return results, nil
	}

	votes, err := s.store.ListVotes(ctx, roundID)
	if err != nil {
		return nil, err
	}

	standard := make(map[string]int)
	kill := make(map[string]int)
	for _, vote := range votes {
		switch vote.Kind {
		case models.VoteKindKill:
			kill[vote.TargetID]++
		default:
			standard[vote.TargetID]++
		}
	}

	results.Standard = sortTally(standard)
	if round.Type == models.RoundTypeKillingVote {
		results.Kill = sortTally(kill)
	}
	return results, nil
}

// sortTally orders entries by descending count, breaking ties by target ID so
// results are deterministic rather than an artifact of insertion order.
func sortTally(counts map[string]int) []TallyEntry {
	if len(counts) == 0 {
		return nil
	}
	entries := make([]TallyEntry, 0, len(counts))
	for target, count := range counts {
		entries = append(entries, TallyEntry{TargetID: target, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].TargetID < entries[j].TargetID
	})
	return entries
}
