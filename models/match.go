package models

import "time"

// MatchStatus mirrors the ENUM in the database. Approved and rejected are
// terminal; the repository enforces the pending guard on review.
type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusApproved MatchStatus = "approved"
	MatchStatusRejected MatchStatus = "rejected"
)

type Match struct {
	ID        int `json:"id" db:"id"`
	TeamID    int `json:"team_id" db:"team_id"`
	Placement int `json:"placement" db:"placement"`
	Kills     int `json:"kills" db:"kills"`

	// Score is computed once at submission with the tournament's scoring
	// profile and never recomputed, even if the profile changes later.
	Score    float64 `json:"score" db:"score"`
	IsManual bool    `json:"is_manual" db:"is_manual"`

	Status       MatchStatus `json:"status" db:"status"`
	ReviewerID   *int        `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewReason *string     `json:"review_reason,omitempty" db:"review_reason"`
	ReviewedAt   *time.Time  `json:"reviewed_at,omitempty" db:"reviewed_at"`

	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`

	Evidence []Evidence `json:"evidence,omitempty" db:"-"`
}

// Evidence is an opaque reference to an uploaded screenshot or video clip.
type Evidence struct {
	ID          int       `json:"id" db:"id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	ContentType string    `json:"content_type" db:"content_type"`
	URL         string    `json:"url,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
