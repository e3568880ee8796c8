package models

import (
	"encoding/json"
	"time"
)

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusPending   TournamentStatus = "pending"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusArchived  TournamentStatus = "archived"
)

type Tournament struct {
	ID   int    `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`

	// Structural config, derived once at creation and immutable after.
	GameMode       string `json:"game_mode" db:"game_mode"`
	TeamFormat     string `json:"team_format" db:"team_format"`
	TeamSize       int    `json:"team_size" db:"team_size"`
	PlayerCap      int    `json:"player_cap" db:"player_cap"`
	TotalTeamSlots int    `json:"total_team_slots" db:"total_team_slots"`

	TotalMatches   int `json:"total_matches" db:"total_matches"`
	CountedMatches int `json:"counted_matches" db:"counted_matches"`

	// ScoringProfileJSON is the raw profile as stored; it must round-trip
	// unchanged. Parsed by the scoring package, not here.
	ScoringProfileJSON json.RawMessage `json:"scoring_profile" db:"scoring_profile"`

	Status    TournamentStatus `json:"status" db:"status"`
	CreatorID int              `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Creator *User  `json:"creator,omitempty" db:"-"`
	Teams   []Team `json:"teams,omitempty" db:"-"`
}
