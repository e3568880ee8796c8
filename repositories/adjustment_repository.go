package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/lib/pq"
)

var ErrAdjustmentTeamInvalid = errors.New("adjustment team reference invalid")

// AdjustmentRepository is an append-only ledger: no update or delete.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *models.ScoreAdjustment) error
	ListByTeam(ctx context.Context, teamID int) ([]models.ScoreAdjustment, error)
	ListByTeams(ctx context.Context, teamIDs []int) (map[int][]models.ScoreAdjustment, error)
}

type postgresAdjustmentRepository struct {
	db *sql.DB
}

func NewPostgresAdjustmentRepository(db *sql.DB) AdjustmentRepository {
	return &postgresAdjustmentRepository{db: db}
}

func (r *postgresAdjustmentRepository) Create(ctx context.Context, a *models.ScoreAdjustment) error {
	query := `
		INSERT INTO score_adjustments (team_id, amount, reason, creator_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, a.TeamID, a.Amount, a.Reason, a.CreatorID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrAdjustmentTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresAdjustmentRepository) ListByTeam(ctx context.Context, teamID int) ([]models.ScoreAdjustment, error) {
	query := `
		SELECT id, team_id, amount, reason, creator_id, created_at
		FROM score_adjustments
		WHERE team_id = $1
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdjustments(rows)
}

func (r *postgresAdjustmentRepository) ListByTeams(ctx context.Context, teamIDs []int) (map[int][]models.ScoreAdjustment, error) {
	result := make(map[int][]models.ScoreAdjustment, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT id, team_id, amount, reason, creator_id, created_at
		FROM score_adjustments
		WHERE team_id = ANY($1)
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	adjustments, err := collectAdjustments(rows)
	if err != nil {
		return nil, err
	}
	for _, a := range adjustments {
		result[a.TeamID] = append(result[a.TeamID], a)
	}
	return result, nil
}

func collectAdjustments(rows *sql.Rows) ([]models.ScoreAdjustment, error) {
	adjustments := make([]models.ScoreAdjustment, 0)
	for rows.Next() {
		var a models.ScoreAdjustment
		if err := rows.Scan(&a.ID, &a.TeamID, &a.Amount, &a.Reason, &a.CreatorID, &a.CreatedAt); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return adjustments, nil
}
