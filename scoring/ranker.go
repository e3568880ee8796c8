package scoring

import "sort"

// LeaderboardEntry is the externally visible, derived leaderboard row.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	TeamStats
}

// Rank sorts team stats into the public leaderboard. Teams with no matches
// and no adjustments are excluded entirely. Ordering is fully deterministic:
// final score descending, then total kills descending, then team code
// ascending. Ranks are assigned sequentially; exact ties do not share a rank.
func Rank(allStats []TeamStats) []LeaderboardEntry {
	active := make([]TeamStats, 0, len(allStats))
	for _, s := range allStats {
		if s.MatchesPlayed == 0 && s.AdjustmentCount == 0 {
			continue
		}
		active = append(active, s)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].FinalScore != active[j].FinalScore {
			return active[i].FinalScore > active[j].FinalScore
		}
		if active[i].KillsTotal != active[j].KillsTotal {
			return active[i].KillsTotal > active[j].KillsTotal
		}
		return active[i].TeamCode < active[j].TeamCode
	})

	entries := make([]LeaderboardEntry, len(active))
	for i, s := range active {
		entries[i] = LeaderboardEntry{Rank: i + 1, TeamStats: s}
	}
	return entries
}
