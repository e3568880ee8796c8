package scoring

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid tournament configuration")

// Game modes select the lobby player cap.
const (
	ModeBattleRoyale = "BR"
	ModeResurgence   = "RESURGENCE"
	ModePlunder      = "PLUNDER"
)

// Team formats select the squad size.
const (
	FormatSolos = "SOLOS"
	FormatDuos  = "DUOS"
	FormatTrios = "TRIOS"
	FormatQuads = "QUADS"
)

var modePlayerCaps = map[string]int{
	ModeBattleRoyale: 150,
	ModeResurgence:   45,
	ModePlunder:      120,
}

var formatTeamSizes = map[string]int{
	FormatSolos: 1,
	FormatDuos:  2,
	FormatTrios: 3,
	FormatQuads: 4,
}

// TournamentConfig is the fixed structural shape of a tournament, derived
// once from the chosen mode and format and immutable after creation.
type TournamentConfig struct {
	TeamSize       int `json:"team_size"`
	PlayerCap      int `json:"player_cap"`
	TotalTeamSlots int `json:"total_team_slots"`
}

// DeriveConfig resolves mode and format against the fixed registries.
// TotalTeamSlots is the hard cap on registered teams.
func DeriveConfig(mode, format string) (TournamentConfig, error) {
	playerCap, ok := modePlayerCaps[mode]
	if !ok {
		return TournamentConfig{}, fmt.Errorf("%w: unknown game mode %q", ErrInvalidConfiguration, mode)
	}
	teamSize, ok := formatTeamSizes[format]
	if !ok {
		return TournamentConfig{}, fmt.Errorf("%w: unknown team format %q", ErrInvalidConfiguration, format)
	}
	return TournamentConfig{
		TeamSize:       teamSize,
		PlayerCap:      playerCap,
		TotalTeamSlots: playerCap / teamSize,
	}, nil
}
