package store

import (
	"context"
	"errors"

	"github.com/UniqueClone/traitors-game/internal/models"

	"gorm.io/gorm"
)

// Gorm is the relational Store implementation. It relies on the connection
// being opened with TranslateError so unique-key violations surface as
// gorm.ErrDuplicatedKey.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// NewGorm creates a Store backed by the given gorm connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// region --- Users ---

func (s *Gorm) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Gorm) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("nickname = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// endregion

// region --- Games ---

func (s *Gorm) CreateGame(ctx context.Context, game *models.Game) error {
	return translate(s.db.WithContext(ctx).Create(game).Error)
}

func (s *Gorm) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (s *Gorm) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&games).Error
	return games, translate(err)
}

func (s *Gorm) GetActiveGame(ctx context.Context) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Where("status = ?", models.GameStatusActive).First(&game).Error
	if err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (s *Gorm) ActivateGame(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Game{}).
			Where("id <> ? AND status <> ?", id, models.GameStatusEnded).
			Update("status", models.GameStatusEnded).Error
		if err != nil {
			return err
		}

		res := tx.Model(&models.Game{}).Where("id = ?", id).
			Update("status", models.GameStatusActive)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (s *Gorm) SetGameStatus(ctx context.Context, id string, status models.GameStatus) error {
	return s.updateGame(ctx, id, map[string]interface{}{"status": status})
}

func (s *Gorm) SetCurrentRound(ctx context.Context, gameID string, number int) error {
	return s.updateGame(ctx, gameID, map[string]interface{}{"cur_round_number": number})
}

func (s *Gorm) SetLastRevealedRound(ctx context.Context, gameID string, number int) error {
	return s.updateGame(ctx, gameID, map[string]interface{}{"last_revealed_round": number})
}

func (s *Gorm) SetRolesRevealed(ctx context.Context, gameID string, revealed bool) error {
	return s.updateGame(ctx, gameID, map[string]interface{}{"roles_revealed": revealed})
}

func (s *Gorm) BumpKitchenSignal(ctx context.Context, gameID string) (int, error) {
	return s.bumpSignal(ctx, gameID, "kitchen_signal_version")
}

func (s *Gorm) BumpMinigameSignal(ctx context.Context, gameID string) (int, error) {
	return s.bumpSignal(ctx, gameID, "minigame_signal_version")
}

// bumpSignal increments the counter in the database rather than writing back a
// value read earlier, so concurrent bumps never lose an increment.
func (s *Gorm) bumpSignal(ctx context.Context, gameID, column string) (int, error) {
	var version int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Game{}).Where("id = ?", gameID).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Game{}).Where("id = ?", gameID).
			Select(column).Scan(&version).Error
	})
	return version, translate(err)
}

func (s *Gorm) updateGame(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// endregion

// region --- Players ---

func (s *Gorm) CreatePlayer(ctx context.Context, player *models.Player) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Player
		err := tx.First(&existing, "id = ?", player.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(player).Error
		}
		if err != nil {
			return err
		}
		if existing.GameID == player.GameID {
			return ErrDuplicate
		}

		// Returning account: re-point the row at the new game with fresh
		// per-game state.
		err = tx.Model(&models.Player{}).Where("id = ?", player.ID).
			Updates(map[string]interface{}{
				"game_id":      player.GameID,
				"full_name":    player.FullName,
				"headshot_url": player.HeadshotURL,
				"eliminated":   false,
				"role":         nil,
				"has_shield":   false,
			}).Error
		if err != nil {
			return err
		}
		player.Eliminated = false
		player.Role = nil
		player.HasShield = false
		return nil
	}))
}

func (s *Gorm) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var player models.Player
	if err := s.db.WithContext(ctx).First(&player, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &player, nil
}

func (s *Gorm) ListPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).Where("game_id = ?", gameID).
		Order("full_name ASC").Find(&players).Error
	return players, translate(err)
}

func (s *Gorm) ListLivingPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).
		Where("game_id = ? AND eliminated = ?", gameID, false).
		Order("full_name ASC").Find(&players).Error
	return players, translate(err)
}

func (s *Gorm) SetEliminated(ctx context.Context, gameID, playerID string, eliminated bool) error {
	res := s.db.WithContext(ctx).Model(&models.Player{}).
		Where("id = ? AND game_id = ?", playerID, gameID).
		Update("eliminated", eliminated)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) AssignRoles(ctx context.Context, gameID string, traitorIDs, faithfulIDs []string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(traitorIDs) > 0 {
			err := tx.Model(&models.Player{}).
				Where("game_id = ? AND id IN ?", gameID, traitorIDs).
				Update("role", models.RoleTraitor).Error
			if err != nil {
				return err
			}
		}
		if len(faithfulIDs) > 0 {
			err := tx.Model(&models.Player{}).
				Where("game_id = ? AND id IN ?", gameID, faithfulIDs).
				Update("role", models.RoleFaithful).Error
			if err != nil {
				return err
			}
		}
		return nil
	}))
}

func (s *Gorm) ClearRoles(ctx context.Context, gameID string) error {
	return translate(s.db.WithContext(ctx).Model(&models.Player{}).
		Where("game_id = ?", gameID).
		Update("role", nil).Error)
}

func (s *Gorm) GrantShield(ctx context.Context, gameID, playerID string, limit int) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holders int64
		err := tx.Model(&models.Player{}).
			Where("game_id = ? AND has_shield = ?", gameID, true).
			Count(&holders).Error
		if err != nil {
			return err
		}
		if holders >= int64(limit) {
			return ErrShieldLimit
		}

		res := tx.Model(&models.Player{}).
			Where("id = ? AND game_id = ?", playerID, gameID).
			Update("has_shield", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (s *Gorm) RevokeShield(ctx context.Context, gameID, playerID string) error {
	res := s.db.WithContext(ctx).Model(&models.Player{}).
		Where("id = ? AND game_id = ?", playerID, gameID).
		Update("has_shield", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) ClearShields(ctx context.Context, gameID string) error {
	return translate(s.db.WithContext(ctx).Model(&models.Player{}).
		Where("game_id = ? AND has_shield = ?", gameID, true).
		Update("has_shield", false).Error)
}

// endregion

// region --- Rounds ---

func (s *Gorm) CreateRound(ctx context.Context, gameID string, roundType models.RoundType) (*models.GameRound, error) {
	round := &models.GameRound{
		GameID: gameID,
		Type:   roundType,
		Status: models.RoundStatusActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.GameRound{}).
			Where("game_id = ? AND status = ?", gameID, models.RoundStatusActive).
			Update("status", models.RoundStatusEnded).Error
		if err != nil {
			return err
		}

		// Number the round inside the transaction so concurrent creations
		// cannot both read the same max.
		var maxNumber int
		err = tx.Model(&models.GameRound{}).
			Where("game_id = ?", gameID).
			Select("COALESCE(MAX(round), 0)").Scan(&maxNumber).Error
		if err != nil {
			return err
		}
		round.Number = maxNumber + 1

		return tx.Create(round).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return round, nil
}

func (s *Gorm) GetRound(ctx context.Context, id string) (*models.GameRound, error) {
	var round models.GameRound
	if err := s.db.WithContext(ctx).First(&round, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &round, nil
}

func (s *Gorm) ListRounds(ctx context.Context, gameID string) ([]models.GameRound, error) {
	var rounds []models.GameRound
	err := s.db.WithContext(ctx).Where("game_id = ?", gameID).
		Order("round ASC").Find(&rounds).Error
	return rounds, translate(err)
}

func (s *Gorm) EndRound(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.GameRound{}).
		Where("id = ?", id).
		Update("status", models.RoundStatusEnded)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) ActiveRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error) {
	query := s.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, models.RoundStatusActive)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}

	var round models.GameRound
	if err := query.Order("round DESC").First(&round).Error; err != nil {
		return nil, translate(err)
	}
	return &round, nil
}

func (s *Gorm) LatestEndedRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error) {
	query := s.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, models.RoundStatusEnded)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}

	var round models.GameRound
	if err := query.Order("round DESC").First(&round).Error; err != nil {
		return nil, translate(err)
	}
	return &round, nil
}

func (s *Gorm) LatestRound(ctx context.Context, gameID string, types ...models.RoundType) (*models.GameRound, error) {
	query := s.db.WithContext(ctx).Where("game_id = ?", gameID)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}

	var round models.GameRound
	if err := query.Order("round DESC").First(&round).Error; err != nil {
		return nil, translate(err)
	}
	return &round, nil
}

func (s *Gorm) SetWinningGroup(ctx context.Context, roundID string, groupIndex int) error {
	res := s.db.WithContext(ctx).Model(&models.GameRound{}).
		Where("id = ?", roundID).
		Updates(map[string]interface{}{
			"winning_group_index": groupIndex,
			"status":              models.RoundStatusEnded,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// endregion

// region --- Ballots ---

func (s *Gorm) CreateVote(ctx context.Context, vote *models.Vote) error {
	return translate(s.db.WithContext(ctx).Create(vote).Error)
}

func (s *Gorm) ListVotes(ctx context.Context, roundID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.WithContext(ctx).Where("round_id = ?", roundID).
		Order("created_at ASC").Find(&votes).Error
	return votes, translate(err)
}

func (s *Gorm) CreateEndgameVote(ctx context.Context, vote *models.EndgameVote) error {
	return translate(s.db.WithContext(ctx).Create(vote).Error)
}

func (s *Gorm) ListEndgameVotes(ctx context.Context, roundID string) ([]models.EndgameVote, error) {
	var votes []models.EndgameVote
	err := s.db.WithContext(ctx).Where("round_id = ?", roundID).
		Order("created_at ASC").Find(&votes).Error
	return votes, translate(err)
}

// endregion

// region --- Minigame groups ---

func (s *Gorm) CreateMinigameGroups(ctx context.Context, groups []models.MinigameGroup) error {
	if len(groups) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Create(&groups).Error)
}

func (s *Gorm) ListMinigameGroups(ctx context.Context, roundID string) ([]models.MinigameGroup, error) {
	var groups []models.MinigameGroup
	err := s.db.WithContext(ctx).Where("round_id = ?", roundID).
		Order("group_index ASC").Find(&groups).Error
	return groups, translate(err)
}

func (s *Gorm) GroupExists(ctx context.Context, roundID string, groupIndex int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MinigameGroup{}).
		Where("round_id = ? AND group_index = ?", roundID, groupIndex).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// endregion
