package models

import "time"

type AuditEntry struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	ActorID      int       `json:"actor_id" db:"actor_id"`
	Action       string    `json:"action" db:"action"`
	Details      string    `json:"details" db:"details"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
