package models

import "time"

// ScoreAdjustment is an append-only ledger entry: a signed point delta
// (bonus or penalty) applied to a team's final score outside match play.
type ScoreAdjustment struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Reason    string    `json:"reason" db:"reason"`
	CreatorID int       `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
