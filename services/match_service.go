package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	"github.com/dropzone-gg/warzone-tournaments/scoring"
)

// ValidationError carries every violated submission rule at once, so the
// submitting UI can show all problems in a single pass.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// LeaderboardNotifier is the push channel for live leaderboard consumers.
// Notifications are best-effort and fire after the review commits.
type LeaderboardNotifier interface {
	LeaderboardChanged(tournamentID int)
}

type EvidenceInput struct {
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type"`
}

type SubmitMatchInput struct {
	AccessCode string          `json:"access_code"`
	Placement  int             `json:"placement"`
	Kills      int             `json:"kills"`
	Evidence   []EvidenceInput `json:"evidence"`

	// ManualScore bypasses the scoring profile entirely. Moderator only;
	// the handler enforces the role.
	ManualScore *float64 `json:"manual_score,omitempty"`
}

type ReviewMatchInput struct {
	MatchID    int
	Status     models.MatchStatus
	ReviewerID int
	Reason     *string
}

type MatchService interface {
	Submit(ctx context.Context, input SubmitMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListPending(ctx context.Context, tournamentID int) ([]models.Match, error)
	Review(ctx context.Context, input ReviewMatchInput) (*models.Match, error)
}

type matchService struct {
	txRunner       repositories.TxRunner
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	playerStatRepo repositories.PlayerStatRepository
	auditRepo      repositories.AuditRepository
	notifier       LeaderboardNotifier
	logger         *slog.Logger
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	playerStatRepo repositories.PlayerStatRepository,
	auditRepo repositories.AuditRepository,
	notifier LeaderboardNotifier,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txRunner:       txRunner,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		playerStatRepo: playerStatRepo,
		auditRepo:      auditRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *matchService) Submit(ctx context.Context, input SubmitMatchInput) (*models.Match, error) {
	team, err := s.teamRepo.GetByAccessCode(ctx, strings.ToUpper(strings.TrimSpace(input.AccessCode)))
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrAccessCodeInvalid
		}
		return nil, fmt.Errorf("failed to resolve access code: %w", err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, team.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", team.TournamentID, err)
	}
	if tournament.Status != models.TournamentStatusActive {
		return nil, ErrTournamentNotAcceptingResults
	}
	if len(input.Evidence) < 2 {
		return nil, ErrEvidenceRequired
	}

	profile, err := scoring.ParseProfile(tournament.ScoringProfileJSON)
	if err != nil {
		return nil, fmt.Errorf("tournament %d has a broken scoring profile: %w", tournament.ID, err)
	}

	// The score is computed once here, against the profile as it exists at
	// submission time, and frozen on the match row.
	result := scoring.ComputeScore(scoring.ScoreInput{
		Kills:       input.Kills,
		Placement:   input.Placement,
		Profile:     profile,
		IsManual:    input.ManualScore != nil,
		ManualScore: input.ManualScore,
	})
	if !result.Valid {
		return nil, &ValidationError{Reasons: result.Errors}
	}

	match := &models.Match{
		TeamID:    team.ID,
		Placement: input.Placement,
		Kills:     input.Kills,
		Score:     result.Score,
		IsManual:  input.ManualScore != nil,
		Status:    models.MatchStatusPending,
	}

	// Match and evidence rows commit together; a failed attachment must not
	// leave an under-evidenced match in the review queue.
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}
		for _, ev := range input.Evidence {
			evidence := &models.Evidence{
				MatchID:     match.ID,
				StorageKey:  ev.StorageKey,
				ContentType: ev.ContentType,
			}
			if err := s.matchRepo.AddEvidence(ctx, exec, evidence); err != nil {
				return fmt.Errorf("failed to attach evidence to match %d: %w", match.ID, err)
			}
			match.Evidence = append(match.Evidence, *evidence)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	evidence, err := s.matchRepo.ListEvidence(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence for match %d: %w", id, err)
	}
	match.Evidence = evidence
	return match, nil
}

func (s *matchService) ListPending(ctx context.Context, tournamentID int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListPendingByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// Review drives the pending -> approved/rejected transition. The status
// update, player-stat upsert and audit append commit as one transaction, so
// a concurrent leaderboard read never sees an approved match whose counters
// are missing.
func (s *matchService) Review(ctx context.Context, input ReviewMatchInput) (*models.Match, error) {
	if input.Status != models.MatchStatusApproved && input.Status != models.MatchStatusRejected {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}

	match, err := s.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusPending {
		return nil, ErrAlreadyReviewed
	}

	team, err := s.teamRepo.GetByID(ctx, match.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team %d: %w", match.TeamID, err)
	}

	reviewedAt := time.Now()
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateStatusIfPending(ctx, exec, match.ID, input.Status, input.ReviewerID, input.Reason, reviewedAt); err != nil {
			return err
		}
		if input.Status == models.MatchStatusApproved {
			if err := s.playerStatRepo.Upsert(ctx, exec, team.TournamentID, team.ID, match.Kills, 1); err != nil {
				return fmt.Errorf("failed to upsert player stats for team %d: %w", team.ID, err)
			}
		}
		details := fmt.Sprintf("match %d %s", match.ID, input.Status)
		if input.Reason != nil && *input.Reason != "" {
			details += ": " + *input.Reason
		}
		entry := &models.AuditEntry{
			TournamentID: team.TournamentID,
			ActorID:      input.ReviewerID,
			Action:       "match_" + string(input.Status),
			Details:      details,
			TeamID:       &team.ID,
		}
		if err := s.auditRepo.Append(ctx, exec, entry); err != nil {
			return fmt.Errorf("failed to append review audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotPending):
			// Lost the race against another reviewer.
			return nil, ErrAlreadyReviewed
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to review match %d: %w", match.ID, err)
	}

	match.Status = input.Status
	match.ReviewerID = &input.ReviewerID
	match.ReviewReason = input.Reason
	match.ReviewedAt = &reviewedAt

	if s.notifier != nil {
		s.notifier.LeaderboardChanged(team.TournamentID)
	}
	s.logger.InfoContext(ctx, "match reviewed",
		slog.Int("match_id", match.ID),
		slog.String("status", string(input.Status)),
		slog.Int("reviewer_id", input.ReviewerID))

	return match, nil
}
