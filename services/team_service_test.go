package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	"github.com/dropzone-gg/warzone-tournaments/scoring"
)

func openTournamentRepo(status models.TournamentStatus) *mockTournamentRepo {
	repo := &mockTournamentRepo{}
	repo.GetByIDFunc = func(ctx context.Context, id int) (*models.Tournament, error) {
		return &models.Tournament{
			ID:             id,
			Code:           "AB12CD",
			Status:         status,
			TeamSize:       3,
			TotalTeamSlots: 15,
		}, nil
	}
	return repo
}

func duosRoster() []RosterEntry {
	return []RosterEntry{
		{Gamertag: "Ghost", DisplayName: "Simon", IsLeader: true},
		{Gamertag: "Soap", DisplayName: "John"},
	}
}

func TestTeamService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates team with codes and roster", func(t *testing.T) {
		teamRepo := &mockTeamRepo{}
		svc := NewTeamService(teamRepo, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		team, err := svc.Register(ctx, RegisterTeamInput{
			TournamentID: 1,
			Name:         "  The Gulag Kings ",
			Roster:       duosRoster(),
		})
		require.NoError(t, err)

		assert.Equal(t, "The Gulag Kings", team.Name)
		assert.Len(t, team.Code, scoring.CodeLength)
		assert.Len(t, team.AccessCode, scoring.CodeLength)
		assert.NotEqual(t, team.Code, team.AccessCode)
		require.Len(t, team.Players, 2)
		assert.True(t, team.Players[0].IsLeader)
		require.Len(t, teamRepo.CreateCalls, 1)
	})

	t.Run("accepts registration while active", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, openTournamentRepo(models.TournamentStatusActive), &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Late Drop", Roster: duosRoster()})
		assert.NoError(t, err)
	})

	t.Run("rejects registration once completed", func(t *testing.T) {
		teamRepo := &mockTeamRepo{}
		svc := NewTeamService(teamRepo, openTournamentRepo(models.TournamentStatusCompleted), &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Too Late", Roster: duosRoster()})
		assert.ErrorIs(t, err, ErrRegistrationClosed)
		assert.Empty(t, teamRepo.CreateCalls)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: " ", Roster: duosRoster()})
		assert.ErrorIs(t, err, ErrTeamNameRequired)
	})

	t.Run("rejects oversized roster", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		roster := []RosterEntry{
			{Gamertag: "One", IsLeader: true},
			{Gamertag: "Two"},
			{Gamertag: "Three"},
			{Gamertag: "Four"},
		}
		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Crowded", Roster: roster})
		assert.ErrorIs(t, err, ErrRosterSizeInvalid)
	})

	t.Run("rejects empty roster", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Ghost Squad", Roster: nil})
		assert.ErrorIs(t, err, ErrRosterSizeInvalid)
	})

	t.Run("requires exactly one leader", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		none := []RosterEntry{{Gamertag: "One"}, {Gamertag: "Two"}}
		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Headless", Roster: none})
		assert.ErrorIs(t, err, ErrRosterLeaderInvalid)

		both := []RosterEntry{{Gamertag: "One", IsLeader: true}, {Gamertag: "Two", IsLeader: true}}
		_, err = svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Two Chiefs", Roster: both})
		assert.ErrorIs(t, err, ErrRosterLeaderInvalid)
	})

	t.Run("rejects blank gamertag", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		roster := []RosterEntry{{Gamertag: "One", IsLeader: true}, {Gamertag: "  "}}
		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Anon", Roster: roster})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("rejects when slots are full", func(t *testing.T) {
		tournamentRepo := openTournamentRepo(models.TournamentStatusActive)
		tournamentRepo.CountTeamsFunc = func(ctx context.Context, tournamentID int) (int, error) {
			return 15, nil
		}
		teamRepo := &mockTeamRepo{}
		svc := NewTeamService(teamRepo, tournamentRepo, &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Overflow", Roster: duosRoster()})
		assert.ErrorIs(t, err, ErrTournamentFull)
		assert.Empty(t, teamRepo.CreateCalls)
	})

	t.Run("maps duplicate name to a conflict", func(t *testing.T) {
		teamRepo := &mockTeamRepo{}
		teamRepo.CreateFunc = func(ctx context.Context, team *models.Team) error {
			return repositories.ErrTeamNameConflict
		}
		svc := NewTeamService(teamRepo, openTournamentRepo(models.TournamentStatusPending), &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 1, Name: "Taken", Roster: duosRoster()})
		assert.ErrorIs(t, err, ErrTeamNameConflict)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, &mockTournamentRepo{}, &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: 42, Name: "Lost", Roster: duosRoster()})
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}

func TestTeamService_GetByAccessCode(t *testing.T) {
	t.Run("normalizes the code before lookup", func(t *testing.T) {
		teamRepo := &mockTeamRepo{
			GetByAccessCodeFunc: func(ctx context.Context, accessCode string) (*models.Team, error) {
				assert.Equal(t, "AB12CD", accessCode)
				return &models.Team{ID: 4, Name: "Gulag Rats"}, nil
			},
		}
		svc := NewTeamService(teamRepo, &mockTournamentRepo{}, &mockAdjustmentRepo{}, &mockAuditRepo{})

		team, err := svc.GetByAccessCode(context.Background(), "  ab12cd ")
		require.NoError(t, err)
		assert.Equal(t, 4, team.ID)
	})

	t.Run("unknown code reads as invalid credentials", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, &mockTournamentRepo{}, &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.GetByAccessCode(context.Background(), "ZZZZZZ")
		require.ErrorIs(t, err, ErrAccessCodeInvalid)
	})
}

func TestTeamService_AddAdjustment(t *testing.T) {
	ctx := context.Background()

	knownTeamRepo := func() *mockTeamRepo {
		repo := &mockTeamRepo{}
		repo.GetByIDFunc = func(ctx context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, TournamentID: 1, Code: "TM01AA", Name: "The Gulag Kings"}, nil
		}
		return repo
	}

	t.Run("records ledger row and audit entry", func(t *testing.T) {
		adjustmentRepo := &mockAdjustmentRepo{}
		auditRepo := &mockAuditRepo{}
		svc := NewTeamService(knownTeamRepo(), &mockTournamentRepo{}, adjustmentRepo, auditRepo)

		adjustment, err := svc.AddAdjustment(ctx, AddAdjustmentInput{
			TeamID:    7,
			Amount:    -15,
			Reason:    "stream sniping in match 2",
			CreatorID: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, -15.0, adjustment.Amount)
		require.Len(t, adjustmentRepo.CreateCalls, 1)
		require.Len(t, auditRepo.AppendCalls, 1)
		assert.Equal(t, "score_adjusted", auditRepo.AppendCalls[0].Action)
		require.NotNil(t, auditRepo.AppendCalls[0].TeamID)
		assert.Equal(t, 7, *auditRepo.AppendCalls[0].TeamID)
	})

	t.Run("requires a reason", func(t *testing.T) {
		adjustmentRepo := &mockAdjustmentRepo{}
		svc := NewTeamService(knownTeamRepo(), &mockTournamentRepo{}, adjustmentRepo, &mockAuditRepo{})

		_, err := svc.AddAdjustment(ctx, AddAdjustmentInput{TeamID: 7, Amount: 5, Reason: "  "})
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Empty(t, adjustmentRepo.CreateCalls)
	})

	t.Run("unknown team", func(t *testing.T) {
		svc := NewTeamService(&mockTeamRepo{}, &mockTournamentRepo{}, &mockAdjustmentRepo{}, &mockAuditRepo{})

		_, err := svc.AddAdjustment(ctx, AddAdjustmentInput{TeamID: 404, Amount: 5, Reason: "bonus"})
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})
}
