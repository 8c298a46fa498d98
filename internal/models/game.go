package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameStatus defines the lifecycle state of a game session.
type GameStatus string

const (
	GameStatusDraft   GameStatus = "draft"
	GameStatusPending GameStatus = "pending"
	GameStatusActive  GameStatus = "active"
	GameStatusEnded   GameStatus = "ended"
)

// Game represents one play session. At most one game is active system-wide.
type Game struct {
	ID     string     `gorm:"type:uuid;primaryKey"`
	Name   string     `gorm:"size:255;not null"`
	Status GameStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	HostID string     `gorm:"type:uuid;not null;index"`

	// CurRoundNumber nudges players to the voting page when it changes.
	CurRoundNumber *int
	// LastRevealedRound nudges players to the reveal page when it changes.
	LastRevealedRound *int
	// RolesRevealed nudges players to their profile once roles are assigned.
	RolesRevealed bool `gorm:"not null;default:false"`

	// Monotonic counters compared against a per-client cursor.
	KitchenSignalVersion  int `gorm:"not null;default:0"`
	MinigameSignalVersion int `gorm:"not null;default:0"`

	// Maximum number of simultaneous shield holders.
	ShieldPointsThreshold int `gorm:"not null;default:3"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
