package scoring

import (
	"sort"

	"github.com/dropzone-gg/warzone-tournaments/models"
)

// TeamStats is the aggregated, never-persisted scoring state of one team.
// FinalScore is always recomputed from approved matches and adjustments.
type TeamStats struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	TeamCode string `json:"team_code"`

	// TotalScore sums only the counted (best-N) approved match scores.
	TotalScore      float64 `json:"total_score"`
	AdjustmentTotal float64 `json:"adjustment_total"`
	FinalScore      float64 `json:"final_score"`

	// KillsTotal covers ALL approved matches, not just the counted subset:
	// kills are a season-wide stat while the score is capped by counted
	// matches.
	KillsTotal      int `json:"kills_total"`
	MatchesPlayed   int `json:"matches_played"`
	ApprovedCount   int `json:"approved_count"`
	PendingCount    int `json:"pending_count"`
	AdjustmentCount int `json:"adjustment_count"`
}

// Aggregate selects the team's best countedMatches approved scores, sums
// them, and applies the full adjustment ledger. Teams with fewer approved
// matches than countedMatches use what they have; nothing is padded.
func Aggregate(team models.Team, matches []models.Match, adjustments []models.ScoreAdjustment, countedMatches int) TeamStats {
	stats := TeamStats{
		TeamID:   team.ID,
		TeamName: team.Name,
		TeamCode: team.Code,
	}

	var approvedScores []float64
	for _, m := range matches {
		stats.MatchesPlayed++
		switch m.Status {
		case models.MatchStatusApproved:
			stats.ApprovedCount++
			stats.KillsTotal += m.Kills
			approvedScores = append(approvedScores, m.Score)
		case models.MatchStatusPending:
			stats.PendingCount++
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(approvedScores)))
	counted := approvedScores
	if countedMatches >= 0 && len(counted) > countedMatches {
		counted = counted[:countedMatches]
	}
	for _, s := range counted {
		stats.TotalScore += s
	}

	// Adjustments are never subject to the counted-matches cap.
	for _, a := range adjustments {
		stats.AdjustmentCount++
		stats.AdjustmentTotal += a.Amount
	}

	stats.FinalScore = stats.TotalScore + stats.AdjustmentTotal
	return stats
}
