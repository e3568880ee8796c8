package models

import "time"

type Team struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	Code         string `json:"code" db:"code"`
	// AccessCode authenticates result submissions; never exposed publicly.
	AccessCode string    `json:"-" db:"access_code"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Players     []Player          `json:"players,omitempty" db:"-"`
	Matches     []Match           `json:"matches,omitempty" db:"-"`
	Adjustments []ScoreAdjustment `json:"adjustments,omitempty" db:"-"`
}

type Player struct {
	ID          int       `json:"id" db:"id"`
	TeamID      int       `json:"team_id" db:"team_id"`
	Gamertag    string    `json:"gamertag" db:"gamertag"`
	DisplayName string    `json:"display_name" db:"display_name"`
	IsLeader    bool      `json:"is_leader" db:"is_leader"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
