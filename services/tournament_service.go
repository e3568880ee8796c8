package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	"github.com/dropzone-gg/warzone-tournaments/scoring"
)

type CreateTournamentInput struct {
	Name           string          `json:"name"`
	GameMode       string          `json:"game_mode"`
	TeamFormat     string          `json:"team_format"`
	TotalMatches   int             `json:"total_matches"`
	CountedMatches int             `json:"counted_matches"`
	ScoringProfile json.RawMessage `json:"scoring_profile,omitempty"`
	CreatorID      int             `json:"-"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByCode(ctx context.Context, code string) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, next models.TournamentStatus, actorID int) (*models.Tournament, error)
	ListAuditLog(ctx context.Context, tournamentID int, limit, offset int) ([]models.AuditEntry, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	auditRepo      repositories.AuditRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	auditRepo repositories.AuditRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		auditRepo:      auditRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.TotalMatches <= 0 || input.CountedMatches <= 0 || input.CountedMatches > input.TotalMatches {
		return nil, fmt.Errorf("%w: counted=%d total=%d", ErrCountedMatchesInvalid, input.CountedMatches, input.TotalMatches)
	}

	cfg, err := scoring.DeriveConfig(input.GameMode, input.TeamFormat)
	if err != nil {
		return nil, err
	}

	profile := scoring.DefaultProfileForMode(input.GameMode)
	if len(input.ScoringProfile) > 0 && string(input.ScoringProfile) != "null" {
		profile, err = scoring.ParseProfile(input.ScoringProfile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scoring profile: %w", err)
	}

	code, err := scoring.GenerateUniqueCode(ctx, func(ctx context.Context, code string) (bool, error) {
		exists, err := s.tournamentRepo.CodeExists(ctx, code)
		return !exists, err
	})
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Code:               code,
		Name:               name,
		GameMode:           input.GameMode,
		TeamFormat:         input.TeamFormat,
		TeamSize:           cfg.TeamSize,
		PlayerCap:          cfg.PlayerCap,
		TotalTeamSlots:     cfg.TotalTeamSlots,
		TotalMatches:       input.TotalMatches,
		CountedMatches:     input.CountedMatches,
		ScoringProfileJSON: profileJSON,
		Status:             models.TournamentStatusPending,
		CreatorID:          input.CreatorID,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.appendAudit(ctx, tournament.ID, input.CreatorID, "tournament_created",
		fmt.Sprintf("tournament %q created with code %s", tournament.Name, tournament.Code), nil)

	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by code %q: %w", code, err)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

// Lifecycle is a forward-only chain: pending -> active -> completed -> archived.
var tournamentTransitions = map[models.TournamentStatus]models.TournamentStatus{
	models.TournamentStatusPending:   models.TournamentStatusActive,
	models.TournamentStatusActive:    models.TournamentStatusCompleted,
	models.TournamentStatusCompleted: models.TournamentStatusArchived,
}

func isValidTournamentTransition(current, next models.TournamentStatus) bool {
	allowed, ok := tournamentTransitions[current]
	return ok && allowed == next
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, next models.TournamentStatus, actorID int) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidTournamentTransition(tournament.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTournamentStatus, tournament.Status, next)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		return nil, fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}
	tournament.Status = next

	s.appendAudit(ctx, id, actorID, "tournament_status_changed",
		fmt.Sprintf("status changed to %s", next), nil)

	return tournament, nil
}

func (s *tournamentService) ListAuditLog(ctx context.Context, tournamentID int, limit, offset int) ([]models.AuditEntry, error) {
	if _, err := s.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	entries, err := s.auditRepo.ListByTournament(ctx, tournamentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log for tournament %d: %w", tournamentID, err)
	}
	return entries, nil
}

// appendAudit is fire-and-forget outside the review flow: a failed audit
// write is logged, not surfaced.
func (s *tournamentService) appendAudit(ctx context.Context, tournamentID, actorID int, action, details string, teamID *int) {
	entry := &models.AuditEntry{
		TournamentID: tournamentID,
		ActorID:      actorID,
		Action:       action,
		Details:      details,
		TeamID:       teamID,
	}
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		s.logger.WarnContext(ctx, "failed to append audit entry",
			slog.Int("tournament_id", tournamentID),
			slog.String("action", action),
			slog.Any("error", err))
	}
}
