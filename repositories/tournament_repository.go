package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentCodeConflict = errors.New("tournament code conflict")
	ErrTournamentNameConflict = errors.New("tournament name conflict")
)

type ListTournamentsFilter struct {
	Status    *models.TournamentStatus
	CreatorID *int
	Limit     int
	Offset    int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByCode(ctx context.Context, code string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	CodeExists(ctx context.Context, code string) (bool, error)
	CountTeams(ctx context.Context, tournamentID int) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, code, name, game_mode, team_format, team_size, player_cap,
	total_team_slots, total_matches, counted_matches, scoring_profile,
	status, creator_id, created_at`

func (r *postgresTournamentRepository) scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID, &t.Code, &t.Name, &t.GameMode, &t.TeamFormat, &t.TeamSize,
		&t.PlayerCap, &t.TotalTeamSlots, &t.TotalMatches, &t.CountedMatches,
		&t.ScoringProfileJSON, &t.Status, &t.CreatorID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			code, name, game_mode, team_format, team_size, player_cap,
			total_team_slots, total_matches, counted_matches, scoring_profile,
			status, creator_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Code, t.Name, t.GameMode, t.TeamFormat, t.TeamSize, t.PlayerCap,
		t.TotalTeamSlots, t.TotalMatches, t.CountedMatches, t.ScoringProfileJSON,
		t.Status, t.CreatorID,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "tournaments_code_key":
				return ErrTournamentCodeConflict
			case "tournaments_name_key":
				return ErrTournamentNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE code = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, code))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CreatorID != nil {
		query += fmt.Sprintf(" AND creator_id = $%d", argID)
		args = append(args, *filter.CreatorID)
		argID++
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tournaments WHERE code = $1)`
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresTournamentRepository) CountTeams(ctx context.Context, tournamentID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM teams WHERE tournament_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
