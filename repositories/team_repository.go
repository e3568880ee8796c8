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
	ErrTeamNotFound           = errors.New("team not found")
	ErrTeamCodeConflict       = errors.New("team code conflict")
	ErrTeamNameConflict       = errors.New("team name conflict for this tournament")
	ErrTeamTournamentInvalid  = errors.New("team tournament reference invalid")
	ErrPlayerGamertagConflict = errors.New("gamertag already registered for this team")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByAccessCode(ctx context.Context, accessCode string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	ListPlayers(ctx context.Context, teamID int) ([]models.Player, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

// Create inserts the team together with its roster in one transaction, so a
// half-registered roster is never visible.
func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin team create transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (tournament_id, name, code, access_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		team.TournamentID, team.Name, team.Code, team.AccessCode,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return mapTeamError(err)
	}

	playerQuery := `
		INSERT INTO players (team_id, gamertag, display_name, is_leader)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	for i := range team.Players {
		p := &team.Players[i]
		p.TeamID = team.ID
		if err := tx.QueryRowContext(ctx, playerQuery,
			p.TeamID, p.Gamertag, p.DisplayName, p.IsLeader,
		).Scan(&p.ID, &p.CreatedAt); err != nil {
			return mapTeamError(err)
		}
	}

	return tx.Commit()
}

func mapTeamError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			switch pqErr.Constraint {
			case "teams_code_key", "teams_access_code_key":
				return ErrTeamCodeConflict
			case "teams_tournament_id_name_key":
				return ErrTeamNameConflict
			case "players_team_id_gamertag_key":
				return ErrPlayerGamertagConflict
			}
		case "23503":
			if pqErr.Constraint == "teams_tournament_id_fkey" {
				return ErrTeamTournamentInvalid
			}
		}
	}
	return err
}

func (r *postgresTeamRepository) scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Code, &t.AccessCode, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, tournament_id, name, code, access_code, created_at FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByAccessCode(ctx context.Context, accessCode string) (*models.Team, error) {
	query := `SELECT id, tournament_id, name, code, access_code, created_at FROM teams WHERE access_code = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, accessCode))
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, code, access_code, created_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) ListPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `
		SELECT id, team_id, gamertag, display_name, is_leader, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY is_leader DESC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.TeamID, &p.Gamertag, &p.DisplayName, &p.IsLeader, &p.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

// CodeExists reports whether a code is taken by either a team code or an
// access code; both live in the same human-facing code space.
func (r *postgresTeamRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE code = $1 OR access_code = $1)`
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
