package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteKind distinguishes a traitor's kill ballot from a general suspicion
// ballot in killing rounds. The two kinds are always tallied separately.
type VoteKind string

const (
	VoteKindStandard VoteKind = "standard"
	VoteKindKill     VoteKind = "kill"
)

// Vote is one player's targeted ballot in a round. The unique index on
// (voter_id, round_id) makes duplicate submissions fail atomically instead of
// relying on a check-then-insert sequence.
type Vote struct {
	ID       string   `gorm:"type:uuid;primaryKey"`
	RoundID  string   `gorm:"type:uuid;not null;uniqueIndex:idx_votes_voter_round"`
	VoterID  string   `gorm:"type:uuid;not null;uniqueIndex:idx_votes_voter_round"`
	TargetID string   `gorm:"type:uuid;not null;index"`
	Kind     VoteKind `gorm:"column:type;type:varchar(20);not null;default:'standard'"`

	CreatedAt time.Time
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// EndgameVote is one player's yes/no ballot in an endgame round: did the group
// find all the traitors?
type EndgameVote struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	GameID           string `gorm:"type:uuid;not null;index"`
	RoundID          string `gorm:"type:uuid;not null;uniqueIndex:idx_endgame_votes_voter_round"`
	VoterID          string `gorm:"type:uuid;not null;uniqueIndex:idx_endgame_votes_voter_round"`
	AllTraitorsFound bool   `gorm:"not null"`

	CreatedAt time.Time
}

func (v *EndgameVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
