package models

import "time"

// Role is a player's hidden faction. A nil role means roles have not been
// assigned yet (or were cleared by the host).
type Role string

const (
	RoleTraitor  Role = "traitor"
	RoleFaithful Role = "faithful"
)

// Player is a participant in a game. Its ID is the participant's account ID;
// an account has at most one player row, re-pointed at the currently active
// game each time it onboards.
type Player struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	GameID      string `gorm:"type:uuid;not null;index"`
	FullName    string `gorm:"size:255;not null"`
	HeadshotURL string `gorm:"size:512"`

	Eliminated bool  `gorm:"not null;default:false"`
	Role       *Role `gorm:"type:varchar(20)"`

	// HasShield makes the player an invalid kill-vote target. Cleared for the
	// whole game when a killing round closes.
	HasShield bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTraitor reports whether the player has been assigned the traitor role.
func (p *Player) IsTraitor() bool {
	return p.Role != nil && *p.Role == RoleTraitor
}

// IsFaithful reports whether the player has been assigned the faithful role.
func (p *Player) IsFaithful() bool {
	return p.Role != nil && *p.Role == RoleFaithful
}
