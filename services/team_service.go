package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	"github.com/dropzone-gg/warzone-tournaments/scoring"
)

type RosterEntry struct {
	Gamertag    string `json:"gamertag"`
	DisplayName string `json:"display_name"`
	IsLeader    bool   `json:"is_leader"`
}

type RegisterTeamInput struct {
	TournamentID int           `json:"tournament_id"`
	Name         string        `json:"name"`
	Roster       []RosterEntry `json:"roster"`
}

type AddAdjustmentInput struct {
	TeamID    int     `json:"team_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
	CreatorID int     `json:"-"`
}

type TeamService interface {
	Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByAccessCode(ctx context.Context, accessCode string) (*models.Team, error)
	AddAdjustment(ctx context.Context, input AddAdjustmentInput) (*models.ScoreAdjustment, error)
	ListAdjustments(ctx context.Context, teamID int) ([]models.ScoreAdjustment, error)
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	adjustmentRepo repositories.AdjustmentRepository
	auditRepo      repositories.AuditRepository
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	adjustmentRepo repositories.AdjustmentRepository,
	auditRepo repositories.AuditRepository,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		adjustmentRepo: adjustmentRepo,
		auditRepo:      auditRepo,
	}
}

func (s *teamService) Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", input.TournamentID, err)
	}

	// Teams can only register before the first lobby fires.
	if tournament.Status != models.TournamentStatusPending && tournament.Status != models.TournamentStatusActive {
		return nil, ErrRegistrationClosed
	}

	if len(input.Roster) < 1 || len(input.Roster) > tournament.TeamSize {
		return nil, fmt.Errorf("%w: got %d players, team size is %d", ErrRosterSizeInvalid, len(input.Roster), tournament.TeamSize)
	}
	leaders := 0
	for _, entry := range input.Roster {
		if strings.TrimSpace(entry.Gamertag) == "" {
			return nil, fmt.Errorf("%w: empty gamertag", ErrValidationFailed)
		}
		if entry.IsLeader {
			leaders++
		}
	}
	if leaders != 1 {
		return nil, fmt.Errorf("%w: got %d leaders", ErrRosterLeaderInvalid, leaders)
	}

	registered, err := s.tournamentRepo.CountTeams(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registered teams: %w", err)
	}
	if registered >= tournament.TotalTeamSlots {
		return nil, fmt.Errorf("%w: %d of %d slots taken", ErrTournamentFull, registered, tournament.TotalTeamSlots)
	}

	checkTeamCode := func(ctx context.Context, code string) (bool, error) {
		exists, err := s.teamRepo.CodeExists(ctx, code)
		return !exists, err
	}
	code, err := scoring.GenerateUniqueCode(ctx, checkTeamCode)
	if err != nil {
		return nil, err
	}
	accessCode, err := scoring.GenerateUniqueCode(ctx, checkTeamCode)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		TournamentID: tournament.ID,
		Name:         name,
		Code:         code,
		AccessCode:   accessCode,
	}
	for _, entry := range input.Roster {
		team.Players = append(team.Players, models.Player{
			Gamertag:    strings.TrimSpace(entry.Gamertag),
			DisplayName: strings.TrimSpace(entry.DisplayName),
			IsLeader:    entry.IsLeader,
		})
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	players, err := s.teamRepo.ListPlayers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for team %d: %w", id, err)
	}
	team.Players = players
	return team, nil
}

// GetByAccessCode resolves a team by its secret submission code. Lookups
// mirror the submission flow: unknown codes read as invalid credentials, not
// as a missing team.
func (s *teamService) GetByAccessCode(ctx context.Context, accessCode string) (*models.Team, error) {
	team, err := s.teamRepo.GetByAccessCode(ctx, strings.ToUpper(strings.TrimSpace(accessCode)))
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrAccessCodeInvalid
		}
		return nil, fmt.Errorf("failed to resolve access code: %w", err)
	}
	return team, nil
}

func (s *teamService) AddAdjustment(ctx context.Context, input AddAdjustmentInput) (*models.ScoreAdjustment, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", ErrValidationFailed)
	}
	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", input.TeamID, err)
	}

	adjustment := &models.ScoreAdjustment{
		TeamID:    team.ID,
		Amount:    input.Amount,
		Reason:    strings.TrimSpace(input.Reason),
		CreatorID: input.CreatorID,
	}
	if err := s.adjustmentRepo.Create(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to create adjustment: %w", err)
	}

	entry := &models.AuditEntry{
		TournamentID: team.TournamentID,
		ActorID:      input.CreatorID,
		Action:       "score_adjusted",
		Details:      fmt.Sprintf("adjustment of %+.1f for team %s: %s", adjustment.Amount, team.Code, adjustment.Reason),
		TeamID:       &team.ID,
	}
	// Audit failures do not undo the adjustment; the ledger row is the
	// source of truth.
	_ = s.auditRepo.Append(ctx, nil, entry)

	return adjustment, nil
}

func (s *teamService) ListAdjustments(ctx context.Context, teamID int) ([]models.ScoreAdjustment, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	adjustments, err := s.adjustmentRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments for team %d: %w", teamID, err)
	}
	return adjustments, nil
}
