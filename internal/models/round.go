package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoundStatus defines the lifecycle state of a round.
type RoundStatus string

const (
	RoundStatusPending RoundStatus = "pending"
	RoundStatusActive  RoundStatus = "active"
	RoundStatusEnded   RoundStatus = "ended"
)

// RoundType defines the kind of phase a round represents.
type RoundType string

const (
	RoundTypeRoundTable       RoundType = "round_table"
	RoundTypeBanishmentVote   RoundType = "banishment_vote"
	RoundTypeBanishmentResult RoundType = "banishment_result"
	RoundTypeKillingVote      RoundType = "killing_vote"
	RoundTypeBreakfast        RoundType = "breakfast"
	RoundTypeMinigame         RoundType = "minigame"
	RoundTypeEndgameVote      RoundType = "endgame_vote"
)

// ValidRoundType reports whether t is one of the known round types.
func ValidRoundType(t RoundType) bool {
	switch t {
	case RoundTypeRoundTable, RoundTypeBanishmentVote, RoundTypeBanishmentResult,
		RoundTypeKillingVote, RoundTypeBreakfast, RoundTypeMinigame, RoundTypeEndgameVote:
		return true
	}
	return false
}

// IsVotingType reports whether rounds of type t collect ballots and should
// bump the game's current round pointer when opened.
func IsVotingType(t RoundType) bool {
	return t == RoundTypeBanishmentVote || t == RoundTypeKillingVote || t == RoundTypeEndgameVote
}

// GameRound is one phase within a game. At most one round per game is active.
type GameRound struct {
	ID     string      `gorm:"type:uuid;primaryKey"`
	GameID string      `gorm:"type:uuid;not null;index"`
	Number int         `gorm:"column:round;not null"`
	Type   RoundType   `gorm:"type:varchar(30);not null"`
	Status RoundStatus `gorm:"type:varchar(20);not null;index"`

	// WinningGroupIndex is set by the host for minigame rounds only.
	WinningGroupIndex *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GameRound) TableName() string {
	return "game_rounds"
}

func (r *GameRound) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
