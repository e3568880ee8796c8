package repositories

import (
	"context"
	"database/sql"

	"github.com/dropzone-gg/warzone-tournaments/models"
)

type AuditRepository interface {
	Append(ctx context.Context, exec SQLExecutor, entry *models.AuditEntry) error
	ListByTournament(ctx context.Context, tournamentID int, limit, offset int) ([]models.AuditEntry, error)
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAuditRepository) Append(ctx context.Context, exec SQLExecutor, e *models.AuditEntry) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO audit_log (tournament_id, actor_id, action, details, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		e.TournamentID, e.ActorID, e.Action, e.Details, e.TeamID,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *postgresAuditRepository) ListByTournament(ctx context.Context, tournamentID int, limit, offset int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, tournament_id, actor_id, action, details, team_id, created_at
		FROM audit_log
		WHERE tournament_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, tournamentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0)
	for rows.Next() {
		var e models.AuditEntry
		if scanErr := rows.Scan(&e.ID, &e.TournamentID, &e.ActorID, &e.Action, &e.Details, &e.TeamID, &e.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
