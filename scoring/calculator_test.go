package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeScore_MultiplierProfile(t *testing.T) {
	tests := []struct {
		name      string
		kills     int
		placement int
		profile   ScoringProfile
		want      float64
	}{
		{
			name:      "explicit multiplier",
			kills:     10,
			placement: 1,
			profile:   ScoringProfile{Kind: ProfileKindMultiplier, Multipliers: map[int]float64{1: 2.0}},
			want:      20.0,
		},
		{
			name:      "missing placement defaults to multiplier 1",
			kills:     7,
			placement: 15,
			profile:   ScoringProfile{Kind: ProfileKindMultiplier, Multipliers: map[int]float64{1: 2.0}},
			want:      7.0,
		},
		{
			name:      "zero kills",
			kills:     0,
			placement: 1,
			profile:   DefaultMultiplierProfile(),
			want:      0.0,
		},
		{
			name:      "default table second place",
			kills:     5,
			placement: 2,
			profile:   DefaultMultiplierProfile(),
			want:      9.0,
		},
		{
			name:      "rounds to one decimal half up",
			kills:     1,
			placement: 4,
			profile:   ScoringProfile{Kind: ProfileKindMultiplier, Multipliers: map[int]float64{4: 1.25}},
			want:      1.3, // 1.25 -> 1.3
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ComputeScore(ScoreInput{Kills: tt.kills, Placement: tt.placement, Profile: tt.profile})
			require.True(t, res.Valid, "expected valid input, got errors: %v", res.Errors)
			assert.Equal(t, tt.want, res.Score)
		})
	}
}

func TestComputeScore_Deterministic(t *testing.T) {
	input := ScoreInput{Kills: 12, Placement: 3, Profile: DefaultMultiplierProfile()}
	first := ComputeScore(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeScore(input))
	}
}

func TestComputeScore_PlacementPointsProfile(t *testing.T) {
	profile := DefaultPlacementPointsProfile()

	t.Run("win with ten kills", func(t *testing.T) {
		// 15 * 2.0 + 10 * 1.0
		res := ComputeScore(ScoreInput{Kills: 10, Placement: 1, Profile: profile})
		require.True(t, res.Valid)
		assert.Equal(t, 40.0, res.Score)
	})

	t.Run("deep placement falls back to one point", func(t *testing.T) {
		// 1 * 1.0 + 4 * 1.0
		res := ComputeScore(ScoreInput{Kills: 4, Placement: 12, Profile: profile})
		require.True(t, res.Valid)
		assert.Equal(t, 5.0, res.Score)
	})

	t.Run("fifth place keeps both axes", func(t *testing.T) {
		// 6 * 1.2 + 3 * 1.0
		res := ComputeScore(ScoreInput{Kills: 3, Placement: 5, Profile: profile})
		require.True(t, res.Valid)
		assert.Equal(t, 10.2, res.Score)
	})
}

func TestComputeScore_ManualOverride(t *testing.T) {
	t.Run("manual score ignores kills and placement", func(t *testing.T) {
		res := ComputeScore(ScoreInput{
			Kills:       99,
			Placement:   1,
			Profile:     DefaultMultiplierProfile(),
			IsManual:    true,
			ManualScore: floatPtr(5),
		})
		require.True(t, res.Valid)
		assert.Equal(t, 5.0, res.Score)
	})

	t.Run("missing manual score is invalid", func(t *testing.T) {
		res := ComputeScore(ScoreInput{Kills: 3, Placement: 2, IsManual: true})
		require.False(t, res.Valid)
		assert.Zero(t, res.Score)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "manual score")
	})

	t.Run("negative manual score is invalid", func(t *testing.T) {
		res := ComputeScore(ScoreInput{Kills: 3, Placement: 2, IsManual: true, ManualScore: floatPtr(-1)})
		require.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "manual score")
	})
}

func TestComputeScore_CollectsAllValidationErrors(t *testing.T) {
	t.Run("negative kills", func(t *testing.T) {
		res := ComputeScore(ScoreInput{Kills: -1, Placement: 1, Profile: DefaultMultiplierProfile()})
		require.False(t, res.Valid)
		assert.Zero(t, res.Score)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "kills")
	})

	t.Run("every violated rule is reported at once", func(t *testing.T) {
		res := ComputeScore(ScoreInput{Kills: -5, Placement: 21, IsManual: true})
		require.False(t, res.Valid)
		assert.Len(t, res.Errors, 3)
	})

	t.Run("placement zero", func(t *testing.T) {
		res := ComputeScore(ScoreInput{Kills: 2, Placement: 0, Profile: DefaultMultiplierProfile()})
		require.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "placement")
	})
}
