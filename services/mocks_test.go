package services

import (
	"context"
	"time"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
)

// Hand-rolled mocks in the ...Func/...Calls style. Methods with a nil Func
// return zero values.

type mockTournamentRepo struct {
	GetByIDFunc      func(ctx context.Context, id int) (*models.Tournament, error)
	GetByCodeFunc    func(ctx context.Context, code string) (*models.Tournament, error)
	CreateFunc       func(ctx context.Context, t *models.Tournament) error
	ListFunc         func(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatusFunc func(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error
	CodeExistsFunc   func(ctx context.Context, code string) (bool, error)
	CountTeamsFunc   func(ctx context.Context, tournamentID int) (int, error)

	CreateCalls       []*models.Tournament
	UpdateStatusCalls []models.TournamentStatus
}

func (m *mockTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	m.CreateCalls = append(m.CreateCalls, t)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	t.ID = len(m.CreateCalls)
	t.CreatedAt = time.Now()
	return nil
}

func (m *mockTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTournamentNotFound
}

func (m *mockTournamentRepo) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, repositories.ErrTournamentNotFound
}

func (m *mockTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, status)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, exec, id, status)
	}
	return nil
}

func (m *mockTournamentRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.CodeExistsFunc != nil {
		return m.CodeExistsFunc(ctx, code)
	}
	return false, nil
}

func (m *mockTournamentRepo) CountTeams(ctx context.Context, tournamentID int) (int, error) {
	if m.CountTeamsFunc != nil {
		return m.CountTeamsFunc(ctx, tournamentID)
	}
	return 0, nil
}

type mockTeamRepo struct {
	CreateFunc          func(ctx context.Context, team *models.Team) error
	GetByIDFunc         func(ctx context.Context, id int) (*models.Team, error)
	GetByAccessCodeFunc func(ctx context.Context, accessCode string) (*models.Team, error)
	ListByTournamentFunc func(ctx context.Context, tournamentID int) ([]models.Team, error)
	ListPlayersFunc     func(ctx context.Context, teamID int) ([]models.Player, error)
	CodeExistsFunc      func(ctx context.Context, code string) (bool, error)

	CreateCalls []*models.Team
}

func (m *mockTeamRepo) Create(ctx context.Context, team *models.Team) error {
	m.CreateCalls = append(m.CreateCalls, team)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, team)
	}
	team.ID = len(m.CreateCalls)
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTeamNotFound
}

func (m *mockTeamRepo) GetByAccessCode(ctx context.Context, accessCode string) (*models.Team, error) {
	if m.GetByAccessCodeFunc != nil {
		return m.GetByAccessCodeFunc(ctx, accessCode)
	}
	return nil, repositories.ErrTeamNotFound
}

func (m *mockTeamRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	if m.ListByTournamentFunc != nil {
		return m.ListByTournamentFunc(ctx, tournamentID)
	}
	return nil, nil
}

func (m *mockTeamRepo) ListPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *mockTeamRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.CodeExistsFunc != nil {
		return m.CodeExistsFunc(ctx, code)
	}
	return false, nil
}

type mockMatchRepo struct {
	CreateFunc                  func(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error
	GetByIDFunc                 func(ctx context.Context, id int) (*models.Match, error)
	ListByTeamFunc              func(ctx context.Context, teamID int) ([]models.Match, error)
	ListByTeamsFunc             func(ctx context.Context, teamIDs []int) (map[int][]models.Match, error)
	ListPendingByTournamentFunc func(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateStatusIfPendingFunc   func(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus, reviewerID int, reason *string, reviewedAt time.Time) error
	AddEvidenceFunc             func(ctx context.Context, exec repositories.SQLExecutor, evidence *models.Evidence) error
	ListEvidenceFunc            func(ctx context.Context, matchID int) ([]models.Evidence, error)

	CreateCalls                []*models.Match
	UpdateStatusIfPendingCalls []models.MatchStatus
	AddEvidenceCalls           []*models.Evidence
}

func (m *mockMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	m.CreateCalls = append(m.CreateCalls, match)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, exec, match)
	}
	match.ID = len(m.CreateCalls)
	match.SubmittedAt = time.Now()
	return nil
}

func (m *mockMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrMatchNotFound
}

func (m *mockMatchRepo) ListByTeam(ctx context.Context, teamID int) ([]models.Match, error) {
	if m.ListByTeamFunc != nil {
		return m.ListByTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *mockMatchRepo) ListByTeams(ctx context.Context, teamIDs []int) (map[int][]models.Match, error) {
	if m.ListByTeamsFunc != nil {
		return m.ListByTeamsFunc(ctx, teamIDs)
	}
	return map[int][]models.Match{}, nil
}

func (m *mockMatchRepo) ListPendingByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if m.ListPendingByTournamentFunc != nil {
		return m.ListPendingByTournamentFunc(ctx, tournamentID)
	}
	return nil, nil
}

func (m *mockMatchRepo) UpdateStatusIfPending(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus, reviewerID int, reason *string, reviewedAt time.Time) error {
	m.UpdateStatusIfPendingCalls = append(m.UpdateStatusIfPendingCalls, status)
	if m.UpdateStatusIfPendingFunc != nil {
		return m.UpdateStatusIfPendingFunc(ctx, exec, id, status, reviewerID, reason, reviewedAt)
	}
	return nil
}

func (m *mockMatchRepo) AddEvidence(ctx context.Context, exec repositories.SQLExecutor, evidence *models.Evidence) error {
	m.AddEvidenceCalls = append(m.AddEvidenceCalls, evidence)
	if m.AddEvidenceFunc != nil {
		return m.AddEvidenceFunc(ctx, exec, evidence)
	}
	evidence.ID = len(m.AddEvidenceCalls)
	return nil
}

func (m *mockMatchRepo) ListEvidence(ctx context.Context, matchID int) ([]models.Evidence, error) {
	if m.ListEvidenceFunc != nil {
		return m.ListEvidenceFunc(ctx, matchID)
	}
	return nil, nil
}

type mockAdjustmentRepo struct {
	CreateFunc      func(ctx context.Context, adjustment *models.ScoreAdjustment) error
	ListByTeamFunc  func(ctx context.Context, teamID int) ([]models.ScoreAdjustment, error)
	ListByTeamsFunc func(ctx context.Context, teamIDs []int) (map[int][]models.ScoreAdjustment, error)

	CreateCalls []*models.ScoreAdjustment
}

func (m *mockAdjustmentRepo) Create(ctx context.Context, a *models.ScoreAdjustment) error {
	m.CreateCalls = append(m.CreateCalls, a)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	a.ID = len(m.CreateCalls)
	return nil
}

func (m *mockAdjustmentRepo) ListByTeam(ctx context.Context, teamID int) ([]models.ScoreAdjustment, error) {
	if m.ListByTeamFunc != nil {
		return m.ListByTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *mockAdjustmentRepo) ListByTeams(ctx context.Context, teamIDs []int) (map[int][]models.ScoreAdjustment, error) {
	if m.ListByTeamsFunc != nil {
		return m.ListByTeamsFunc(ctx, teamIDs)
	}
	return map[int][]models.ScoreAdjustment{}, nil
}

type upsertCall struct {
	TournamentID     int
	TeamID           int
	IncrementKills   int
	IncrementMatches int
}

type mockPlayerStatRepo struct {
	UpsertFunc func(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID, incrementKills, incrementMatches int) error

	UpsertCalls []upsertCall
}

func (m *mockPlayerStatRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID, incrementKills, incrementMatches int) error {
	m.UpsertCalls = append(m.UpsertCalls, upsertCall{tournamentID, teamID, incrementKills, incrementMatches})
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, exec, tournamentID, teamID, incrementKills, incrementMatches)
	}
	return nil
}

func (m *mockPlayerStatRepo) GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.PlayerStat, error) {
	return nil, repositories.ErrPlayerStatNotFound
}

func (m *mockPlayerStatRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.PlayerStat, error) {
	return nil, nil
}

type mockAuditRepo struct {
	AppendFunc func(ctx context.Context, exec repositories.SQLExecutor, entry *models.AuditEntry) error

	AppendCalls []*models.AuditEntry
}

func (m *mockAuditRepo) Append(ctx context.Context, exec repositories.SQLExecutor, entry *models.AuditEntry) error {
	m.AppendCalls = append(m.AppendCalls, entry)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, exec, entry)
	}
	entry.ID = len(m.AppendCalls)
	return nil
}

func (m *mockAuditRepo) ListByTournament(ctx context.Context, tournamentID int, limit, offset int) ([]models.AuditEntry, error) {
	return nil, nil
}

// mockTxRunner executes the unit of work directly; rollback semantics are
// covered by the repository integration, not here. RolledBack counts units
// whose error would have aborted the transaction.
type mockTxRunner struct {
	Runs       int
	RolledBack int
}

func (m *mockTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.Runs++
	err := fn(nil)
	if err != nil {
		m.RolledBack++
	}
	return err
}

type mockNotifier struct {
	Changed []int
}

func (m *mockNotifier) LeaderboardChanged(tournamentID int) {
	m.Changed = append(m.Changed, tournamentID)
}
