package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProfileKind tags the two scoring-profile shapes. The calculator switches
// on the tag instead of probing for field presence.
type ProfileKind string

const (
	// ProfileKindMultiplier: score = kills * multiplier[placement].
	ProfileKindMultiplier ProfileKind = "multiplier"
	// ProfileKindPlacementPoints: score = points[placement] *
	// placementMultiplier[placement] + kills * killWeight.
	ProfileKindPlacementPoints ProfileKind = "placement_points"
)

var ErrUnknownProfileKind = errors.New("unknown scoring profile kind")

// ScoringProfile defines how a placement and kill count convert to points
// for a tournament. It is the one structured configuration object that must
// round-trip through storage unchanged.
type ScoringProfile struct {
	Kind ProfileKind `json:"kind"`

	// Multiplier kind.
	Multipliers map[int]float64 `json:"multipliers,omitempty"`

	// PlacementPoints kind.
	PlacementPoints      map[int]float64 `json:"placement_points,omitempty"`
	PlacementMultipliers map[int]float64 `json:"placement_multipliers,omitempty"`
	KillWeight           float64         `json:"kill_weight,omitempty"`
}

// Validate checks that the profile carries the tables its kind requires.
func (p ScoringProfile) Validate() error {
	switch p.Kind {
	case ProfileKindMultiplier:
		if len(p.Multipliers) == 0 {
			return errors.New("multiplier profile requires a multipliers table")
		}
	case ProfileKindPlacementPoints:
		if len(p.PlacementPoints) == 0 {
			return errors.New("placement points profile requires a placement_points table")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProfileKind, p.Kind)
	}
	return nil
}

// ParseProfile decodes a stored profile. An empty document falls back to the
// default multiplier profile so pre-profile tournaments keep working.
func ParseProfile(raw json.RawMessage) (ScoringProfile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultMultiplierProfile(), nil
	}
	var p ScoringProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return ScoringProfile{}, fmt.Errorf("failed to parse scoring profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return ScoringProfile{}, err
	}
	return p, nil
}

// DefaultMultiplierProfile is the multiplicative default: a team's kills are
// scaled by a placement multiplier.
func DefaultMultiplierProfile() ScoringProfile {
	m := map[int]float64{1: 2.0}
	for pos := 2; pos <= 3; pos++ {
		m[pos] = 1.8
	}
	for pos := 4; pos <= 6; pos++ {
		m[pos] = 1.6
	}
	for pos := 7; pos <= 10; pos++ {
		m[pos] = 1.4
	}
	for pos := 11; pos <= MaxPlacement; pos++ {
		m[pos] = 1.0
	}
	return ScoringProfile{Kind: ProfileKindMultiplier, Multipliers: m}
}

// DefaultPlacementPointsProfile is the battle-royale default: placement
// points scaled by a placement multiplier, plus one point per kill.
func DefaultPlacementPointsProfile() ScoringProfile {
	points := map[int]float64{1: 15, 2: 12, 3: 10, 4: 8, 5: 6, 6: 4, 7: 2}
	for pos := 8; pos <= MaxPlacement; pos++ {
		points[pos] = 1
	}
	mults := map[int]float64{1: 2.0, 2: 1.8, 3: 1.6, 4: 1.4, 5: 1.2}
	for pos := 6; pos <= MaxPlacement; pos++ {
		mults[pos] = 1.0
	}
	return ScoringProfile{
		Kind:                 ProfileKindPlacementPoints,
		PlacementPoints:      points,
		PlacementMultipliers: mults,
		KillWeight:           1.0,
	}
}

// DefaultProfileForMode picks the built-in profile for a game mode. Battle
// royale uses the additive placement-points scheme, everything else the
// multiplier scheme.
func DefaultProfileForMode(mode string) ScoringProfile {
	if mode == ModeBattleRoyale {
		return DefaultPlacementPointsProfile()
	}
	return DefaultMultiplierProfile()
}
