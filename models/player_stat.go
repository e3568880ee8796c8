package models

import "time"

// PlayerStat is the per-(tournament, team) counter record maintained by
// match approval. Keyed by tournament_id + team_id, incremented via upsert.
type PlayerStat struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	TeamID        int       `json:"team_id" db:"team_id"`
	KillsTotal    int       `json:"kills_total" db:"kills_total"`
	MatchesPlayed int       `json:"matches_played" db:"matches_played"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
