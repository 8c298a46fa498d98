package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/UniqueClone/traitors-game/internal/models"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and by the server when no
// DATABASE_URL is configured. It enforces the same uniqueness and
// conditional-update semantics as the relational implementation.
type Memory struct {
	mu sync.Mutex

	users   map[string]*models.User
	games   map[string]*models.Game
	players map[string]*models.Player
	rounds  map[string]*models.GameRound
	votes   []models.Vote
	endgame []models.EndgameVote
	groups  []models.MinigameGroup
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]*models.User),
		games:   make(map[string]*models.Game),
		players: make(map[string]*models.Player),
		rounds:  make(map[string]*models.GameRound),
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// region --- Users ---

func (s *Memory) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Nickname == user.Nickname || existing.Email == user.Email {
			return ErrDuplicate
		}
	}
	ensureID(&user.ID)
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Memory) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Memory) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Nickname == login || user.Email == login {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// endregion

// region --- Games ---

func (s *Memory) CreateGame(ctx context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&game.ID)
	if game.Status == "" {
		game.Status = models.GameStatusPending
	}
	if game.ShieldPointsThreshold == 0 {
		game.ShieldPointsThreshold = 3
	}
	game.CreatedAt = time.Now()
	copied := *game
	s.games[game.ID] = &copied
	return nil
}

func (s *Memory) GetGame(ctx context.Context, id string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getGameLocked(id)
}

func (s *Memory) getGameLocked(id string) (*models.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *game
	return &copied, nil
}

func (s *Memory) ListGames(ctx context.Context) ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := make([]models.Game, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, *game)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	return games, nil
}

func (s *Memory) GetActiveGame(ctx context.Context) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, game := range s.games {
		if game.Status == models.GameStatusActive {
			copied := *game
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) ActivateGame(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	for _, game := range s.games {
		if game.ID != id && game.Status != models.GameStatusEnded {
			game.Status = models.GameStatusEnded
		}
	}
	target.Status = models.GameStatusActive
	return nil
}

func (s *Memory) SetGameStatus(ctx context.Context, id string, status models.GameStatus) error {
	return s.mutateGame(id, func(game *models.Game) {
		game.Status = status
	})
}

func (s *Memory) SetCurrentRound(ctx context.Context, gameID string, number int) error {
	return s.mutateGame(gameID, func(game *models.Game) {
		n := number
		game.CurRoundNumber = &n
	})
}

func (s *Memory) SetLastRevealedRound(ctx context.Context, gameID string, number int) error {
	return s.mutateGame(gameID, func(game *models.Game) {
		n := number
		game.LastRevealedRound = &n
	})
}

func (s *Memory) SetRolesRevealed(ctx context.Context, gameID string, revealed bool) error {
	return s.mutateGame(gameID, func(game *models.Game) {
		game.RolesRevealed = revealed
	})
}

func (s *Memory) BumpKitchenSignal(ctx context.Context, gameID string) (int, error) {
	var version int
	err := s.mutateGame(gameID, func(game *models.Game) {
		game.KitchenSignalVersion++
		version = game.KitchenSignalVersion
	})
	return version, err
}

func (s *Memory) BumpMinigameSignal(ctx context.Context, gameID string) (int, error) {
	var version int
	err := s.mutateGame(gameID, func(game *models.Game) {
		game.MinigameSignalVersion++
		version = game.MinigameSignalVersion
	})
	return version, err
}

func (s *Memory) mutateGame(id string, mutate func(*models.Game)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	mutate(game)
	return nil
}

// endregion

// region --- Players ---

func (s *Memory) CreatePlayer(ctx context.Context, player *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&player.ID)
	if existing, ok := s.players[player.ID]; ok {
		if existing.GameID == player.GameID {
			return ErrDuplicate
		}
		// Returning account: re-point the row at the new game with fresh
		// per-game state.
		existing.GameID = player.GameID
		existing.FullName = player.FullName
		existing.HeadshotURL = player.HeadshotURL
		existing.Eliminated = false
		existing.Role = nil
		existing.HasShield = false
		*player = *existing
		return nil
	}
	player.CreatedAt = time.Now()
	copied := *player
	s.players[player.ID] = &copied
	return nil
}

func (s *Memory) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Memory) ListPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPlayersLocked(gameID, false), nil
}

func (s *Memory) ListLivingPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPlayersLocked(gameID, true), nil
}

func (s *Memory) listPlayersLocked(gameID string, livingOnly bool) []models.Player {
	var players []models.Player
	for _, player := range s.players {
		if player.GameID != gameID {
			continue
		}
		if livingOnly && player.Eliminated {
			continue
		}
		players = append(players, *player)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].FullName < players[j].FullName
	})
	return players
}

func (s *Memory) SetEliminated(ctx context.Context, gameID, playerID string, eliminated bool) error {
	return s.mutatePlayer(gameID, playerID, func(player *models.Player) {
		player.Eliminated = eliminated
	})
}

func (s *Memory) AssignRoles(ctx context.Context, gameID string, traitorIDs, faithfulIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assign := func(ids []string, role models.Role) {
		for _, id := range ids {
			if player, ok := s.players[id]; ok && player.GameID == gameID {
				r := role
				player.Role = &r
			}
		}
	}
	assign(traitorIDs, models.RoleTraitor)
	assign(faithfulIDs, models.RoleFaithful)
	return nil
}

func (s *Memory) ClearRoles(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, player := range s.players {
		if player.GameID == gameID {
			player.Role = nil
		}
	}
	return nil
}

func (s *Memory) GrantShield(ctx context.Context, gameID, playerID string, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	holders := 0
	for _, player := range s.players {
		if player.GameID == gameID && player.HasShield {
			holders++
		}
	}
	if holders >= limit {
		return ErrShieldLimit
	}

	player, ok := s.players[playerID]
	if !ok || player.GameID != gameID {
		return ErrNotFound
	}
	player.HasShield = true
	return nil
}

func (s *Memory) RevokeShield(ctx context.Context, gameID, playerID string) error {
	return s.mutatePlayer(gameID, playerID, func(player *models.Player) {
		player.HasShield = false
	})
}

func (s *Memory) ClearShields(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, player := range s.players {
		if player.GameID == gameID {
			player.HasShield = false
		}
	}
	return nil
}

func (s *Memory) mutatePlayer(gameID, playerID string, mutate func(*models.Player)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok || player.GameID != gameID {
		return ErrNotFound
	}
	mutate(player)
	return nil
}

// endregion

// region --- Rounds ---

func (s *Memory) CreateRound(ctx context.Context, gameID string, roundType models.RoundType) (*models.GameRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return nil, ErrNotFound
	}

	maxNumber := 0
	for _, round := range s.rounds {
		if round.GameID != gameID {
			continue
		}
		if round.Status == models.RoundStatusActive {
			round.Status = models.RoundStatusEnded
		}
		if round.Number > maxNumber {
			maxNumber = round.Number
		}
	}

	round := &models.GameRound{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Number:    maxNumber + 1,
		Type:      roundType,
		Status:    models.RoundStatusActive,
		CreatedAt: time.Now(),
	}
	s.rounds[round.ID] = round
	copied := *round
	return &copied, nil
}

func (s *Memory) GetRound(ctx context.Context, id string) (*models.GameRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *round
	return &copied, nil
}

func (s *Memory) ListRounds(ctx context.Context, gameID string) ([]models.GameRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rounds []models.GameRound
	for _, round := range s.rounds {
		if round.GameID == gameID {
			rounds = append(rounds, *round)
		}
	}
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})
	return rounds, nil
}

func (s *Memory) EndRound(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[id]
	if !ok {
		return ErrNotFound
	}
	round.Status = models.RoundStatusEnded
	return nil
}

func (s *Memory) ActiveRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error) {
	return s.findRound(gameID, func(round *models.GameRound) bool {
		return round.Status == models.RoundStatusActive && matchesType(round.Type, types)
	})
}

func (s *Memory) LatestEndedRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error) {
	return s.findRound(gameID, func(round *models.GameRound) bool {
		return round.Status == models.RoundStatusEnded && matchesType(round.Type, types)
	})
}

func (s *Memory) LatestRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error) {
	return s.findRound(gameID, func(round *models.GameRound) bool {
		return matchesType(round.Type, types)
	})
}

// findRound returns the highest-numbered round of the game matching the
// predicate, mirroring an ordered limit-1 select.
func (s *Memory) findRound(gameID string, match func(*models.GameRound) bool) (*models.GameRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *models.GameRound
	for _, round := range s.rounds {
		if round.GameID != gameID || !match(round) {
			continue
		}
		if best == nil || round.Number > best.Number {
			best = round
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	copied := *best
	return &copied, nil
}

func matchesType(t models.RoundType, types []models.RoundType) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}

func (s *Memory) SetWinningGroup(ctx context.Context, roundID string, groupIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[roundID]
	if !ok {
		return ErrNotFound
	}
	idx := groupIndex
	round.WinningGroupIndex = &idx
	round.Status = models.RoundStatusEnded
	return nil
}

// endregion

// region --- Ballots ---

func (s *Memory) CreateVote(ctx context.Context, vote *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.votes {
		if existing.RoundID == vote.RoundID && existing.VoterID == vote.VoterID {
			return ErrDuplicate
		}
	}
	ensureID(&vote.ID)
	vote.CreatedAt = time.Now()
	s.votes = append(s.votes, *vote)
	return nil
}

func (s *Memory) ListVotes(ctx context.Context, roundID string) ([]models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var votes []models.Vote
	for _, vote := range s.votes {
		if vote.RoundID == roundID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (s *Memory) CreateEndgameVote(ctx context.Context, vote *models.EndgameVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.endgame {
		if existing.RoundID == vote.RoundID && existing.VoterID == vote.VoterID {
			return ErrDuplicate
		}
	}
	ensureID(&vote.ID)
	vote.CreatedAt = time.Now()
	s.endgame = append(s.endgame, *vote)
	return nil
}

func (s *Memory) ListEndgameVotes(ctx context.Context, roundID string) ([]models.EndgameVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var votes []models.EndgameVote
	for _, vote := range s.endgame {
		if vote.RoundID == roundID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

// endregion

// region --- Minigame groups ---

func (s *Memory) CreateMinigameGroups(ctx context.Context, groups []models.MinigameGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range groups {
		ensureID(&groups[i].ID)
		groups[i].CreatedAt = time.Now()
		s.groups = append(s.groups, groups[i])
	}
	return nil
}

func (s *Memory) ListMinigameGroups(ctx context.Context, roundID string) ([]models.MinigameGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var groups []models.MinigameGroup
	for _, group := range s.groups {
		if group.RoundID == roundID {
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].GroupIndex < groups[j].GroupIndex
	})
	return groups, nil
}

func (s *Memory) GroupExists(ctx context.Context, roundID string, groupIndex int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, group := range s.groups {
		if group.RoundID == roundID && group.GroupIndex == groupIndex {
			return true, nil
		}
	}
	return false, nil
}

// endregion
