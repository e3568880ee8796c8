package scoring

import (
	"fmt"
	"math"
)

// MaxPlacement is the lowest position a Warzone lobby reports.
const MaxPlacement = 20

// ScoreInput carries one match submission. ManualScore is a moderator
// override that bypasses the profile entirely.
type ScoreInput struct {
	Kills       int
	Placement   int
	Profile     ScoringProfile
	IsManual    bool
	ManualScore *float64
}

// ScoreResult reports the computed score together with every validation
// failure at once, so the submitting UI can show all problems in one pass.
type ScoreResult struct {
	Score  float64  `json:"score"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ComputeScore converts a submission into a score. Validation does not
// short-circuit: all violated rules are collected. On any failure the score
// is 0 and Valid is false.
func ComputeScore(input ScoreInput) ScoreResult {
	var errs []string
	if input.Kills < 0 {
		errs = append(errs, fmt.Sprintf("kills must not be negative, got %d", input.Kills))
	}
	if input.Placement < 1 || input.Placement > MaxPlacement {
		errs = append(errs, fmt.Sprintf("placement must be between 1 and %d, got %d", MaxPlacement, input.Placement))
	}
	if input.IsManual {
		switch {
		case input.ManualScore == nil:
			errs = append(errs, "manual score is required when manual mode is set")
		case *input.ManualScore < 0:
			errs = append(errs, fmt.Sprintf("manual score must not be negative, got %v", *input.ManualScore))
		}
	}
	if len(errs) > 0 {
		return ScoreResult{Score: 0, Valid: false, Errors: errs}
	}

	if input.IsManual {
		// Hard override: kills, placement and the profile are ignored.
		return ScoreResult{Score: roundTenth(*input.ManualScore), Valid: true}
	}

	var score float64
	switch input.Profile.Kind {
	case ProfileKindPlacementPoints:
		points := input.Profile.PlacementPoints[input.Placement]
		mult, ok := input.Profile.PlacementMultipliers[input.Placement]
		if !ok {
			mult = 1
		}
		score = points*mult + float64(input.Kills)*input.Profile.KillWeight
	default:
		// Multiplier profile; a missing placement defaults to 1, not an error.
		mult, ok := input.Profile.Multipliers[input.Placement]
		if !ok {
			mult = 1
		}
		score = float64(input.Kills) * mult
	}

	return ScoreResult{Score: roundTenth(score), Valid: true}
}

// roundTenth rounds to one decimal place, half away from zero (half-up for
// the non-negative scores produced here).
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
