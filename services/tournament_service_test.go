package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	"github.com/dropzone-gg/warzone-tournaments/scoring"
)

func newTournamentServiceFixture() (*mockTournamentRepo, *mockAuditRepo, TournamentService) {
	tournamentRepo := &mockTournamentRepo{}
	auditRepo := &mockAuditRepo{}
	svc := NewTournamentService(tournamentRepo, auditRepo, testLogger())
	return tournamentRepo, auditRepo, svc
}

func TestTournamentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives structure from mode and format", func(t *testing.T) {
		tournamentRepo, auditRepo, svc := newTournamentServiceFixture()

		tournament, err := svc.Create(ctx, CreateTournamentInput{
			Name:           "Friday Night Drop",
			GameMode:       scoring.ModeBattleRoyale,
			TeamFormat:     scoring.FormatQuads,
			TotalMatches:   5,
			CountedMatches: 3,
			CreatorID:      9,
		})
		require.NoError(t, err)

		assert.Equal(t, 4, tournament.TeamSize)
		assert.Equal(t, 150, tournament.PlayerCap)
		assert.Equal(t, 37, tournament.TotalTeamSlots)
		assert.Equal(t, models.TournamentStatusPending, tournament.Status)
		assert.Len(t, tournament.Code, scoring.CodeLength)

		require.Len(t, tournamentRepo.CreateCalls, 1)
		require.Len(t, auditRepo.AppendCalls, 1)
		assert.Equal(t, "tournament_created", auditRepo.AppendCalls[0].Action)
	})

	t.Run("default profile follows the game mode", func(t *testing.T) {
		_, _, svc := newTournamentServiceFixture()

		br, err := svc.Create(ctx, CreateTournamentInput{
			Name: "BR Cup", GameMode: scoring.ModeBattleRoyale, TeamFormat: scoring.FormatTrios,
			TotalMatches: 5, CountedMatches: 5,
		})
		require.NoError(t, err)
		resurgence, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Rebirth Rumble", GameMode: scoring.ModeResurgence, TeamFormat: scoring.FormatDuos,
			TotalMatches: 5, CountedMatches: 5,
		})
		require.NoError(t, err)

		var brProfile, resProfile scoring.ScoringProfile
		require.NoError(t, json.Unmarshal(br.ScoringProfileJSON, &brProfile))
		require.NoError(t, json.Unmarshal(resurgence.ScoringProfileJSON, &resProfile))
		assert.Equal(t, scoring.ProfileKindPlacementPoints, brProfile.Kind)
		assert.Equal(t, scoring.ProfileKindMultiplier, resProfile.Kind)
	})

	t.Run("custom profile is validated and stored", func(t *testing.T) {
		tournamentRepo, _, svc := newTournamentServiceFixture()

		custom := scoring.DefaultMultiplierProfile()
		custom.KillWeight = 1.5
		raw, err := json.Marshal(custom)
		require.NoError(t, err)

		tournament, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Custom Kills", GameMode: scoring.ModePlunder, TeamFormat: scoring.FormatQuads,
			TotalMatches: 4, CountedMatches: 2, ScoringProfile: raw,
		})
		require.NoError(t, err)

		var stored scoring.ScoringProfile
		require.NoError(t, json.Unmarshal(tournament.ScoringProfileJSON, &stored))
		assert.Equal(t, 1.5, stored.KillWeight)
		require.Len(t, tournamentRepo.CreateCalls, 1)
	})

	t.Run("rejects malformed custom profile", func(t *testing.T) {
		tournamentRepo, _, svc := newTournamentServiceFixture()

		_, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Broken", GameMode: scoring.ModeBattleRoyale, TeamFormat: scoring.FormatDuos,
			TotalMatches: 5, CountedMatches: 3,
			ScoringProfile: json.RawMessage(`{"kind":"dice_roll"}`),
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Empty(t, tournamentRepo.CreateCalls)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, _, svc := newTournamentServiceFixture()

		_, err := svc.Create(ctx, CreateTournamentInput{
			Name: "   ", GameMode: scoring.ModeBattleRoyale, TeamFormat: scoring.FormatQuads,
			TotalMatches: 5, CountedMatches: 3,
		})
		assert.ErrorIs(t, err, ErrTournamentNameRequired)
	})

	t.Run("rejects counted matches above total", func(t *testing.T) {
		_, _, svc := newTournamentServiceFixture()

		_, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Overcounted", GameMode: scoring.ModeBattleRoyale, TeamFormat: scoring.FormatQuads,
			TotalMatches: 3, CountedMatches: 5,
		})
		assert.ErrorIs(t, err, ErrCountedMatchesInvalid)
	})

	t.Run("rejects unknown game mode", func(t *testing.T) {
		tournamentRepo, _, svc := newTournamentServiceFixture()

		_, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Mystery Mode", GameMode: "GULAG_ONLY", TeamFormat: scoring.FormatDuos,
			TotalMatches: 5, CountedMatches: 3,
		})
		assert.ErrorIs(t, err, scoring.ErrInvalidConfiguration)
		assert.Empty(t, tournamentRepo.CreateCalls)
	})

	t.Run("retries until the generated code is free", func(t *testing.T) {
		tournamentRepo, _, svc := newTournamentServiceFixture()
		checks := 0
		tournamentRepo.CodeExistsFunc = func(ctx context.Context, code string) (bool, error) {
			checks++
			return checks < 3, nil
		}

		tournament, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Collision Course", GameMode: scoring.ModeResurgence, TeamFormat: scoring.FormatTrios,
			TotalMatches: 5, CountedMatches: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, checks)
		assert.Len(t, tournament.Code, scoring.CodeLength)
	})

	t.Run("maps duplicate name to a conflict", func(t *testing.T) {
		tournamentRepo, _, svc := newTournamentServiceFixture()
		tournamentRepo.CreateFunc = func(ctx context.Context, tr *models.Tournament) error {
			return repositories.ErrTournamentNameConflict
		}

		_, err := svc.Create(ctx, CreateTournamentInput{
			Name: "Taken", GameMode: scoring.ModeBattleRoyale, TeamFormat: scoring.FormatQuads,
			TotalMatches: 5, CountedMatches: 3,
		})
		assert.ErrorIs(t, err, ErrTournamentConflict)
	})
}

func TestTournamentService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	existing := func(status models.TournamentStatus) *mockTournamentRepo {
		repo := &mockTournamentRepo{}
		repo.GetByIDFunc = func(ctx context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, Code: "AB12CD", Status: status}, nil
		}
		return repo
	}

	t.Run("advances one step forward", func(t *testing.T) {
		repo := existing(models.TournamentStatusPending)
		auditRepo := &mockAuditRepo{}
		svc := NewTournamentService(repo, auditRepo, testLogger())

		tournament, err := svc.UpdateStatus(ctx, 1, models.TournamentStatusActive, 4)
		require.NoError(t, err)
		assert.Equal(t, models.TournamentStatusActive, tournament.Status)
		require.Len(t, repo.UpdateStatusCalls, 1)
		require.Len(t, auditRepo.AppendCalls, 1)
		assert.Equal(t, "tournament_status_changed", auditRepo.AppendCalls[0].Action)
	})

	t.Run("rejects skipping a stage", func(t *testing.T) {
		repo := existing(models.TournamentStatusPending)
		svc := NewTournamentService(repo, &mockAuditRepo{}, testLogger())

		_, err := svc.UpdateStatus(ctx, 1, models.TournamentStatusCompleted, 4)
		assert.ErrorIs(t, err, ErrInvalidTournamentStatus)
		assert.Empty(t, repo.UpdateStatusCalls)
	})

	t.Run("rejects moving backwards", func(t *testing.T) {
		repo := existing(models.TournamentStatusCompleted)
		svc := NewTournamentService(repo, &mockAuditRepo{}, testLogger())

		_, err := svc.UpdateStatus(ctx, 1, models.TournamentStatusActive, 4)
		assert.ErrorIs(t, err, ErrInvalidTournamentStatus)
	})

	t.Run("archived is terminal", func(t *testing.T) {
		repo := existing(models.TournamentStatusArchived)
		svc := NewTournamentService(repo, &mockAuditRepo{}, testLogger())

		_, err := svc.UpdateStatus(ctx, 1, models.TournamentStatusPending, 4)
		assert.ErrorIs(t, err, ErrInvalidTournamentStatus)
	})
}

func TestTournamentService_GetByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the code before lookup", func(t *testing.T) {
		repo := &mockTournamentRepo{}
		var looked string
		repo.GetByCodeFunc = func(ctx context.Context, code string) (*models.Tournament, error) {
			looked = code
			return &models.Tournament{ID: 1, Code: code}, nil
		}
		svc := NewTournamentService(repo, &mockAuditRepo{}, testLogger())

		_, err := svc.GetByCode(ctx, "  ab12cd ")
		require.NoError(t, err)
		assert.Equal(t, "AB12CD", looked)
	})

	t.Run("maps missing tournament", func(t *testing.T) {
		svc := NewTournamentService(&mockTournamentRepo{}, &mockAuditRepo{}, testLogger())

		_, err := svc.GetByCode(ctx, "ZZZZZZ")
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}
