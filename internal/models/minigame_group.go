package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinigameGroup maps a player to a 1-based group index within one minigame
// round. Every non-eliminated player present at round creation gets a row.
type MinigameGroup struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	GameID     string `gorm:"type:uuid;not null;index"`
	RoundID    string `gorm:"type:uuid;not null;index"`
	PlayerID   string `gorm:"type:uuid;not null"`
	GroupIndex int    `gorm:"not null"`

	CreatedAt time.Time
}

func (MinigameGroup) TableName() string {
	return "minigame_groups"
}

func (g *MinigameGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
