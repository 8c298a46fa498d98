package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/UniqueClone/traitors-game/internal/models"
	"github.com/UniqueClone/traitors-game/internal/store"

	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	st  *store.Memory
	svc *Service

	hostID string
	gameID string
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.st = store.NewMemory()
	s.svc = NewService(s.st, NewShuffler(1), nil)
	s.hostID = "host-1"

	game, err := s.svc.CreateGame(s.ctx, s.hostID, "Saturday Night")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.ActivateGame(s.ctx, s.hostID, game.ID))
	s.gameID = game.ID
}

// addPlayers seeds n players named p1..pn with matching IDs.
func (s *ServiceTestSuite) addPlayers(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		err := s.st.CreatePlayer(s.ctx, &models.Player{
			ID:       id,
			GameID:   s.gameID,
			FullName: fmt.Sprintf("Player %02d", i),
		})
		s.Require().NoError(err)
		ids = append(ids, id)
	}
	return ids
}

// deal bypasses the shuffle and pins the role split so win-condition tests
// know exactly who is who.
func (s *ServiceTestSuite) deal(traitorIDs, faithfulIDs []string) {
	s.Require().NoError(s.st.AssignRoles(s.ctx, s.gameID, traitorIDs, faithfulIDs))
}

func (s *ServiceTestSuite) player(id string) *models.Player {
	player, err := s.st.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	return player
}

// region --- Lifecycle ---

func (s *ServiceTestSuite) TestActivateGameEndsEveryOtherGame() {
	other, err := s.svc.CreateGame(s.ctx, s.hostID, "Sunday Night")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.ActivateGame(s.ctx, s.hostID, other.ID))

	first, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(models.GameStatusEnded, first.Status)

	active, err := s.st.GetActiveGame(s.ctx)
	s.Require().NoError(err)
	s.Equal(other.ID, active.ID)
}

func (s *ServiceTestSuite) TestHostGateRejectsOtherCallers() {
	err := s.svc.EndGame(s.ctx, "somebody-else", s.gameID)
	s.ErrorIs(err, ErrNotHost)

	_, err = s.svc.StartRound(s.ctx, "somebody-else", s.gameID, models.RoundTypeBanishmentVote)
	s.ErrorIs(err, ErrNotHost)
}

func (s *ServiceTestSuite) TestJoinActiveGame() {
	player, err := s.svc.JoinActiveGame(s.ctx, "acct-9", "Ryan", "")
	s.Require().NoError(err)
	s.Equal("acct-9", player.ID)
	s.Equal(s.gameID, player.GameID)

	_, err = s.svc.JoinActiveGame(s.ctx, "acct-9", "Ryan", "")
	s.ErrorIs(err, ErrAlreadyJoined)
}

func (s *ServiceTestSuite) TestJoinCarriesAccountIntoNextGame() {
	player, err := s.svc.JoinActiveGame(s.ctx, "acct-9", "Ryan", "")
	s.Require().NoError(err)
	s.deal([]string{"acct-9"}, nil)
	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, "acct-9", true))

	// Next game night: a new session replaces the ended one.
	next, err := s.svc.CreateGame(s.ctx, s.hostID, "Sunday Night")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.ActivateGame(s.ctx, s.hostID, next.ID))

	rejoined, err := s.svc.JoinActiveGame(s.ctx, "acct-9", "Ryan", "")
	s.Require().NoError(err)
	s.Equal(player.ID, rejoined.ID)
	s.Equal(next.ID, rejoined.GameID)

	// The move resets per-game state.
	fresh := s.player("acct-9")
	s.Equal(next.ID, fresh.GameID)
	s.False(fresh.Eliminated)
	s.Nil(fresh.Role)
	s.False(fresh.HasShield)
}

func (s *ServiceTestSuite) TestJoinRequiresActiveGame() {
	s.Require().NoError(s.svc.EndGame(s.ctx, s.hostID, s.gameID))

	_, err := s.svc.JoinActiveGame(s.ctx, "acct-9", "Ryan", "")
	s.ErrorIs(err, ErrNoActiveGame)
}

// endregion

// region --- Rounds ---

func (s *ServiceTestSuite) TestStartRoundForceEndsPreviousRound() {
	first, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeRoundTable)
	s.Require().NoError(err)
	s.Equal(1, first.Number)

	second, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeBanishmentVote)
	s.Require().NoError(err)
	s.Equal(2, second.Number)

	reloaded, err := s.st.GetRound(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(models.RoundStatusEnded, reloaded.Status)

	active, err := s.st.ActiveRound(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(second.ID, active.ID)
}

func (s *ServiceTestSuite) TestStartRoundBumpsPointerForVotingTypesOnly() {
	_, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeBreakfast)
	s.Require().NoError(err)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Nil(game.CurRoundNumber)

	round, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeKillingVote)
	s.Require().NoError(err)

	game, err = s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Require().NotNil(game.CurRoundNumber)
	s.Equal(round.Number, *game.CurRoundNumber)
}

func (s *ServiceTestSuite) TestStartRoundRejectsDedicatedTypes() {
	_, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeMinigame)
	s.ErrorIs(err, ErrInvalidRoundType)

	_, err = s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeEndgameVote)
	s.ErrorIs(err, ErrInvalidRoundType)

	_, err = s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundType("afterparty"))
	s.ErrorIs(err, ErrInvalidRoundType)
}

func (s *ServiceTestSuite) TestCloseCurrentRoundWithoutActiveRound() {
	_, err := s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.ErrorIs(err, ErrNoActiveRound)
}

func (s *ServiceTestSuite) TestClosingKillingRoundClearsAllShields() {
	ids := s.addPlayers(4)
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[0]))
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[1]))

	_, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeKillingVote)
	s.Require().NoError(err)
	_, err = s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	for _, id := range ids {
		s.False(s.player(id).HasShield, "player %s should have lost their shield", id)
	}
}

func (s *ServiceTestSuite) TestCloseRoundRejectsEndedRound() {
	ids := s.addPlayers(4)
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[0]))

	round, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeKillingVote)
	s.Require().NoError(err)
	_, err = s.svc.CloseRound(s.ctx, s.hostID, round.ID)
	s.Require().NoError(err)

	// Re-grant a shield, then try to close the same round again: the close
	// must refuse instead of re-clearing shields.
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[1]))
	_, err = s.svc.CloseRound(s.ctx, s.hostID, round.ID)
	s.ErrorIs(err, ErrRoundNotActive)
	s.True(s.player(ids[1]).HasShield)
}

func (s *ServiceTestSuite) TestRevealLatestResults() {
	_, err := s.svc.RevealLatestResults(s.ctx, s.hostID, s.gameID)
	s.ErrorIs(err, ErrNothingToReveal)

	round, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeBanishmentVote)
	s.Require().NoError(err)
	_, err = s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	revealed, err := s.svc.RevealLatestResults(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)
	s.Equal(round.ID, revealed.ID)

	resolved, err := s.svc.RevealedRound(s.ctx)
	s.Require().NoError(err)
	s.Equal(round.ID, resolved.ID)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Require().NotNil(game.LastRevealedRound)
	s.Equal(round.Number, *game.LastRevealedRound)
}

func (s *ServiceTestSuite) TestRevealSkipsNonVotingRounds() {
	_, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeBreakfast)
	s.Require().NoError(err)
	_, err = s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	_, err = s.svc.RevealLatestResults(s.ctx, s.hostID, s.gameID)
	s.ErrorIs(err, ErrNothingToReveal)
}

// endregion

// region --- Shields ---

func (s *ServiceTestSuite) TestShieldHolderCap() {
	ids := s.addPlayers(5)

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[i]))
	}
	err := s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[3])
	s.ErrorIs(err, ErrShieldLimit)

	// Removing a holder frees a slot.
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[0]))
	s.False(s.player(ids[0]).HasShield)
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[3]))
	s.True(s.player(ids[3]).HasShield)
}

// endregion

// region --- Votes ---

func (s *ServiceTestSuite) startVotingRound(roundType models.RoundType) *models.GameRound {
	round, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, roundType)
	s.Require().NoError(err)
	return round
}

func (s *ServiceTestSuite) TestCastVoteOncePerRound() {
	s.addPlayers(3)
	round := s.startVotingRound(models.RoundTypeBanishmentVote)

	s.Require().NoError(s.svc.CastVote(s.ctx, "p1", round.ID, "p2"))
	err := s.svc.CastVote(s.ctx, "p1", round.ID, "p3")
	s.ErrorIs(err, ErrAlreadyVoted)

	votes, err := s.st.ListVotes(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Len(votes, 1)
	s.Equal("p2", votes[0].TargetID)
}

func (s *ServiceTestSuite) TestCastVoteValidation() {
	ids := s.addPlayers(3)
	round := s.startVotingRound(models.RoundTypeBanishmentVote)

	s.ErrorIs(s.svc.CastVote(s.ctx, "p1", round.ID, "p1"), ErrSelfVote)
	s.ErrorIs(s.svc.CastVote(s.ctx, "stranger", round.ID, "p1"), ErrPlayerNotFound)

	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, ids[2], true))
	s.ErrorIs(s.svc.CastVote(s.ctx, "p3", round.ID, "p1"), ErrVoterEliminated)

	_, err := s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)
	s.ErrorIs(s.svc.CastVote(s.ctx, "p1", round.ID, "p2"), ErrRoundNotActive)
}

func (s *ServiceTestSuite) TestCastVoteRejectsNonVotingRounds() {
	s.addPlayers(2)
	round, err := s.svc.StartRound(s.ctx, s.hostID, s.gameID, models.RoundTypeBreakfast)
	s.Require().NoError(err)

	s.ErrorIs(s.svc.CastVote(s.ctx, "p1", round.ID, "p2"), ErrInvalidRoundType)
}

func (s *ServiceTestSuite) TestKillingVoteRejectsShieldedTarget() {
	ids := s.addPlayers(4)
	s.deal([]string{"p1"}, []string{"p2", "p3", "p4"})
	s.Require().NoError(s.svc.ToggleShield(s.ctx, s.hostID, s.gameID, ids[1]))
	round := s.startVotingRound(models.RoundTypeKillingVote)

	err := s.svc.CastVote(s.ctx, "p1", round.ID, "p2")
	s.ErrorIs(err, ErrTargetShielded)

	votes, err := s.st.ListVotes(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Empty(votes)
}

func (s *ServiceTestSuite) TestKillingVoteSplitsKillAndStandardBallots() {
	s.addPlayers(6)
	s.deal([]string{"p1", "p2"}, []string{"p3", "p4", "p5", "p6"})
	round := s.startVotingRound(models.RoundTypeKillingVote)

	// Both traitors target p5, one faithful suspects p6.
	s.Require().NoError(s.svc.CastVote(s.ctx, "p1", round.ID, "p5"))
	s.Require().NoError(s.svc.CastVote(s.ctx, "p2", round.ID, "p5"))
	s.Require().NoError(s.svc.CastVote(s.ctx, "p3", round.ID, "p6"))

	results, err := s.svc.Tally(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Equal([]TallyEntry{{TargetID: "p5", Count: 2}}, results.Kill)
	s.Equal([]TallyEntry{{TargetID: "p6", Count: 1}}, results.Standard)
}

func (s *ServiceTestSuite) TestBanishmentTallyOrdersByCountThenTarget() {
	s.addPlayers(5)
	round := s.startVotingRound(models.RoundTypeBanishmentVote)

	s.Require().NoError(s.svc.CastVote(s.ctx, "p1", round.ID, "p4"))
	s.Require().NoError(s.svc.CastVote(s.ctx, "p2", round.ID, "p4"))
	s.Require().NoError(s.svc.CastVote(s.ctx, "p3", round.ID, "p5"))
	s.Require().NoError(s.svc.CastVote(s.ctx, "p4", round.ID, "p5"))
	s.Require().NoError(s.svc.CastVote(s.ctx, "p5", round.ID, "p1"))

	results, err := s.svc.Tally(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Equal([]TallyEntry{
		{TargetID: "p4", Count: 2},
		{TargetID: "p5", Count: 2},
		{TargetID: "p1", Count: 1},
	}, results.Standard)
	s.Empty(results.Kill)
}

// endregion

// region --- Roles and win condition ---

func (s *ServiceTestSuite) TestAssignRolesQuota() {
	s.addPlayers(8)
	s.Require().NoError(s.svc.AssignRoles(s.ctx, s.hostID, s.gameID))

	players, err := s.st.ListPlayers(s.ctx, s.gameID)
	s.Require().NoError(err)

	traitors := 0
	for _, player := range players {
		s.Require().NotNil(player.Role)
		if player.IsTraitor() {
			traitors++
		}
	}
	s.Equal(3, traitors)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.True(game.RolesRevealed)
}

func (s *ServiceTestSuite) TestAssignRolesSmallGroupCapsQuota() {
	s.addPlayers(2)
	s.Require().NoError(s.svc.AssignRoles(s.ctx, s.hostID, s.gameID))

	players, err := s.st.ListPlayers(s.ctx, s.gameID)
	s.Require().NoError(err)
	for _, player := range players {
		s.True(player.IsTraitor())
	}
}

func (s *ServiceTestSuite) TestAssignRolesWithoutPlayers() {
	s.ErrorIs(s.svc.AssignRoles(s.ctx, s.hostID, s.gameID), ErrNoPlayers)
}

func (s *ServiceTestSuite) TestClearRolesResetsReveal() {
	s.addPlayers(4)
	s.Require().NoError(s.svc.AssignRoles(s.ctx, s.hostID, s.gameID))
	s.Require().NoError(s.svc.ClearRoles(s.ctx, s.hostID, s.gameID))

	players, err := s.st.ListPlayers(s.ctx, s.gameID)
	s.Require().NoError(err)
	for _, player := range players {
		s.Nil(player.Role)
	}

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.False(game.RolesRevealed)
}

func (s *ServiceTestSuite) TestEliminatingLastTraitorEndsGameForFaithful() {
	s.addPlayers(6)
	s.deal([]string{"p1", "p2", "p3"}, []string{"p4", "p5", "p6"})

	for _, id := range []string{"p1", "p2"} {
		verdict, err := s.svc.EliminatePlayer(s.ctx, s.hostID, s.gameID, id)
		s.Require().NoError(err)
		s.False(verdict.Decided)
	}

	verdict, err := s.svc.EliminatePlayer(s.ctx, s.hostID, s.gameID, "p3")
	s.Require().NoError(err)
	s.True(verdict.Decided)
	s.Equal(FactionFaithful, verdict.Winner)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(models.GameStatusEnded, game.Status)
}

func (s *ServiceTestSuite) TestEliminatingLastFaithfulEndsGameForTraitors() {
	s.addPlayers(4)
	s.deal([]string{"p1", "p2"}, []string{"p3", "p4"})

	verdict, err := s.svc.EliminatePlayer(s.ctx, s.hostID, s.gameID, "p3")
	s.Require().NoError(err)
	s.False(verdict.Decided)

	verdict, err = s.svc.EliminatePlayer(s.ctx, s.hostID, s.gameID, "p4")
	s.Require().NoError(err)
	s.True(verdict.Decided)
	s.Equal(FactionTraitors, verdict.Winner)
}

func (s *ServiceTestSuite) TestEliminationBeforeRolesNeverDecides() {
	s.addPlayers(3)

	verdict, err := s.svc.EliminatePlayer(s.ctx, s.hostID, s.gameID, "p1")
	s.Require().NoError(err)
	s.False(verdict.Decided)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(models.GameStatusActive, game.Status)
}

// endregion

// region --- Endgame ---

func (s *ServiceTestSuite) TestStartEndgameVotePreconditions() {
	s.addPlayers(5)
	s.deal([]string{"p1"}, []string{"p2", "p3", "p4", "p5"})

	_, err := s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.ErrorIs(err, ErrTooManyLiving)

	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, "p5", true))
	s.Require().NoError(s.st.ClearRoles(s.ctx, s.gameID))
	_, err = s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.ErrorIs(err, ErrNoTraitorsDefined)

	s.deal([]string{"p1"}, []string{"p2", "p3", "p4"})
	_, err = s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	_, err = s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.ErrorIs(err, ErrEndgameVoteActive)
}

func (s *ServiceTestSuite) TestEndgameTieContinuesTheGame() {
	s.addPlayers(4)
	s.deal([]string{"p1"}, []string{"p2", "p3", "p4"})

	round, err := s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p1", round.ID, false))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p2", round.ID, false))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p3", round.ID, true))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p4", round.ID, true))

	verdict, err := s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)
	s.False(verdict.Decided)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(models.GameStatusActive, game.Status)
}

func (s *ServiceTestSuite) TestEndgameMajorityYesWithTraitorsGoneFaithfulWin() {
	s.addPlayers(6)
	s.deal([]string{"p1", "p2"}, []string{"p3", "p4", "p5", "p6"})
	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, "p1", true))
	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, "p2", true))

	round, err := s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p3", round.ID, true))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p4", round.ID, true))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p5", round.ID, true))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p6", round.ID, false))

	verdict, err := s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)
	s.True(verdict.Decided)
	s.Equal(FactionFaithful, verdict.Winner)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(models.GameStatusEnded, game.Status)
}

func (s *ServiceTestSuite) TestEndgameMajorityYesWithTraitorAliveTraitorsWin() {
	s.addPlayers(4)
	s.deal([]string{"p1"}, []string{"p2", "p3", "p4"})

	round, err := s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p2", round.ID, true))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p3", round.ID, true))
	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p4", round.ID, false))

	verdict, err := s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)
	s.True(verdict.Decided)
	s.Equal(FactionTraitors, verdict.Winner)
}

func (s *ServiceTestSuite) TestEndgameWithoutBallotsContinues() {
	s.addPlayers(3)
	s.deal([]string{"p1"}, []string{"p2", "p3"})

	_, err := s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	verdict, err := s.svc.CloseCurrentRound(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)
	s.False(verdict.Decided)
}

func (s *ServiceTestSuite) TestEndgameBallotValidation() {
	s.addPlayers(4)
	s.deal([]string{"p1"}, []string{"p2", "p3", "p4"})

	round, err := s.svc.StartEndgameVote(s.ctx, s.hostID, s.gameID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.CastEndgameVote(s.ctx, "p2", round.ID, true))
	s.ErrorIs(s.svc.CastEndgameVote(s.ctx, "p2", round.ID, false), ErrAlreadyVoted)

	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, "p4", true))
	s.ErrorIs(s.svc.CastEndgameVote(s.ctx, "p4", round.ID, true), ErrVoterEliminated)

	banishment := s.startVotingRound(models.RoundTypeBanishmentVote)
	s.ErrorIs(s.svc.CastEndgameVote(s.ctx, "p3", banishment.ID, true), ErrNotEndgameRound)
}

// endregion

// region --- Minigames ---

func (s *ServiceTestSuite) TestMinigameBalancedGroupsAreEven() {
	s.addPlayers(7)

	round, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 3, true, nil)
	s.Require().NoError(err)

	groups, err := s.st.ListMinigameGroups(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Len(groups, 7)

	sizes := make(map[int]int)
	for _, group := range groups {
		sizes[group.GroupIndex]++
	}
	s.Len(sizes, 3)
	min, max := 7, 0
	for _, size := range sizes {
		if size < min {
			min = size
		}
		if size > max {
			max = size
		}
	}
	s.LessOrEqual(max-min, 1)

	game, err := s.svc.GetGame(s.ctx, s.gameID)
	s.Require().NoError(err)
	s.Equal(1, game.MinigameSignalVersion)
}

func (s *ServiceTestSuite) TestMinigameExplicitSizes() {
	s.addPlayers(6)

	_, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 3, false, []int{3, 3})
	s.ErrorIs(err, ErrGroupSizes)
	_, err = s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 3, false, []int{4, 2, 0})
	s.ErrorIs(err, ErrGroupSizes)
	_, err = s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 3, false, []int{3, 3, 3})
	s.ErrorIs(err, ErrGroupSizes)

	round, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 3, false, []int{1, 2, 3})
	s.Require().NoError(err)

	groups, err := s.st.ListMinigameGroups(s.ctx, round.ID)
	s.Require().NoError(err)
	sizes := make(map[int]int)
	for _, group := range groups {
		sizes[group.GroupIndex]++
	}
	s.Equal(map[int]int{1: 1, 2: 2, 3: 3}, sizes)
}

func (s *ServiceTestSuite) TestMinigameGroupCountBounds() {
	s.addPlayers(8)

	_, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 1, true, nil)
	s.ErrorIs(err, ErrGroupCount)
	_, err = s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 7, true, nil)
	s.ErrorIs(err, ErrGroupCount)
}

func (s *ServiceTestSuite) TestMinigameExcludesEliminatedPlayers() {
	ids := s.addPlayers(5)
	s.Require().NoError(s.st.SetEliminated(s.ctx, s.gameID, ids[4], true))

	round, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 2, true, nil)
	s.Require().NoError(err)

	groups, err := s.st.ListMinigameGroups(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Len(groups, 4)
	for _, group := range groups {
		s.NotEqual(ids[4], group.PlayerID)
	}
}

func (s *ServiceTestSuite) TestMarkWinningGroup() {
	s.addPlayers(4)

	round, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 2, true, nil)
	s.Require().NoError(err)

	s.ErrorIs(s.svc.MarkWinningGroup(s.ctx, s.hostID, round.ID, 0), ErrInvalidGroupPick)
	s.ErrorIs(s.svc.MarkWinningGroup(s.ctx, s.hostID, round.ID, 5), ErrEmptyGroup)
	s.Require().NoError(s.svc.MarkWinningGroup(s.ctx, s.hostID, round.ID, 2))

	reloaded, err := s.st.GetRound(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Require().NotNil(reloaded.WinningGroupIndex)
	s.Equal(2, *reloaded.WinningGroupIndex)
	s.Equal(models.RoundStatusEnded, reloaded.Status)
}

func (s *ServiceTestSuite) TestMarkWinningGroupRejectsOtherRoundTypes() {
	s.addPlayers(3)
	round := s.startVotingRound(models.RoundTypeBanishmentVote)

	s.ErrorIs(s.svc.MarkWinningGroup(s.ctx, s.hostID, round.ID, 1), ErrNotMinigame)
}

func (s *ServiceTestSuite) TestMinigamePlacement() {
	s.addPlayers(4)

	round, err := s.svc.StartMinigame(s.ctx, s.hostID, s.gameID, 2, true, nil)
	s.Require().NoError(err)

	groups, err := s.st.ListMinigameGroups(s.ctx, round.ID)
	s.Require().NoError(err)

	target := groups[0]
	placement, err := s.svc.MinigamePlacementFor(s.ctx, target.PlayerID)
	s.Require().NoError(err)
	s.Equal(round.ID, placement.Round.ID)
	s.Equal(target.GroupIndex, placement.GroupIndex)

	want := 0
	for _, group := range groups {
		if group.GroupIndex == target.GroupIndex && group.PlayerID != target.PlayerID {
			want++
		}
	}
	s.Len(placement.Groupmates, want)
	for _, mate := range placement.Groupmates {
		s.NotEqual(target.PlayerID, mate.ID)
	}

	_, err = s.svc.MinigamePlacementFor(s.ctx, "stranger")
	s.ErrorIs(err, ErrPlayerNotFound)
}

// endregion

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
