package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team reference invalid")
	// ErrMatchNotPending signals a failed pending guard: the match exists
	// but its status is already terminal.
	ErrMatchNotPending = errors.New("match is not pending")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Match, error)
	ListByTeams(ctx context.Context, teamIDs []int) (map[int][]models.Match, error)
	ListPendingByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	// UpdateStatusIfPending is the optimistic-concurrency guard on review:
	// the UPDATE only matches rows still in pending, so a concurrent second
	// reviewer gets ErrMatchNotPending instead of silently overwriting.
	UpdateStatusIfPending(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, reviewerID int, reason *string, reviewedAt time.Time) error
	AddEvidence(ctx context.Context, exec SQLExecutor, evidence *models.Evidence) error
	ListEvidence(ctx context.Context, matchID int) ([]models.Evidence, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, team_id, placement, kills, score, is_manual, status,
	reviewer_id, review_reason, reviewed_at, submitted_at`

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TeamID, &m.Placement, &m.Kills, &m.Score, &m.IsManual,
		&m.Status, &m.ReviewerID, &m.ReviewReason, &m.ReviewedAt, &m.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (team_id, placement, kills, score, is_manual, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, submitted_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.TeamID, m.Placement, m.Kills, m.Score, m.IsManual, m.Status,
	).Scan(&m.ID, &m.SubmittedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE team_id = $1 ORDER BY submitted_at ASC`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectMatches(rows)
}

func (r *postgresMatchRepository) ListByTeams(ctx context.Context, teamIDs []int) (map[int][]models.Match, error) {
	result := make(map[int][]models.Match, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}
	query := `SELECT` + matchColumns + ` FROM matches WHERE team_id = ANY($1) ORDER BY submitted_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches, err := r.collectMatches(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		result[m.TeamID] = append(result[m.TeamID], m)
	}
	return result, nil
}

func (r *postgresMatchRepository) ListPendingByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT m.id, m.team_id, m.placement, m.kills, m.score, m.is_manual, m.status,
		       m.reviewer_id, m.review_reason, m.reviewed_at, m.submitted_at
		FROM matches m
		JOIN teams t ON t.id = m.team_id
		WHERE t.tournament_id = $1 AND m.status = $2
		ORDER BY m.submitted_at ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID, models.MatchStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectMatches(rows)
}

func (r *postgresMatchRepository) collectMatches(rows *sql.Rows) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateStatusIfPending(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, reviewerID int, reason *string, reviewedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET status = $1, reviewer_id = $2, review_reason = $3, reviewed_at = $4
		WHERE id = $5 AND status = $6`
	result, err := executor.ExecContext(ctx, query, status, reviewerID, reason, reviewedAt, id, models.MatchStatusPending)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing match from one that already left pending.
		var exists bool
		if scanErr := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if exists {
			return ErrMatchNotPending
		}
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) AddEvidence(ctx context.Context, exec SQLExecutor, e *models.Evidence) error {
	query := `
		INSERT INTO match_evidence (match_id, storage_key, content_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, e.MatchID, e.StorageKey, e.ContentType).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) ListEvidence(ctx context.Context, matchID int) ([]models.Evidence, error) {
	query := `
		SELECT id, match_id, storage_key, content_type, created_at
		FROM match_evidence
		WHERE match_id = $1
		ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evidence := make([]models.Evidence, 0)
	for rows.Next() {
		var e models.Evidence
		if scanErr := rows.Scan(&e.ID, &e.MatchID, &e.StorageKey, &e.ContentType, &e.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		evidence = append(evidence, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return evidence, nil
}
