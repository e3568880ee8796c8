package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dropzone-gg/warzone-tournaments/models"
)

var ErrPlayerStatNotFound = errors.New("player stat not found")

type PlayerStatRepository interface {
	// Upsert increments the counters for (tournamentID, teamID), creating
	// the row on first approval. Runs inside the review transaction.
	Upsert(ctx context.Context, exec SQLExecutor, tournamentID, teamID, incrementKills, incrementMatches int) error
	GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.PlayerStat, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.PlayerStat, error)
}

type postgresPlayerStatRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatRepository(db *sql.DB) PlayerStatRepository {
	return &postgresPlayerStatRepository{db: db}
}

func (r *postgresPlayerStatRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerStatRepository) Upsert(ctx context.Context, exec SQLExecutor, tournamentID, teamID, incrementKills, incrementMatches int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_stats (tournament_id, team_id, kills_total, matches_played, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tournament_id, team_id) DO UPDATE SET
			kills_total = player_stats.kills_total + EXCLUDED.kills_total,
			matches_played = player_stats.matches_played + EXCLUDED.matches_played,
			updated_at = NOW()`
	_, err := executor.ExecContext(ctx, query, tournamentID, teamID, incrementKills, incrementMatches)
	return err
}

func (r *postgresPlayerStatRepository) GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.PlayerStat, error) {
	query := `
		SELECT id, tournament_id, team_id, kills_total, matches_played, updated_at
		FROM player_stats
		WHERE tournament_id = $1 AND team_id = $2`
	s := &models.PlayerStat{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, teamID).Scan(
		&s.ID, &s.TournamentID, &s.TeamID, &s.KillsTotal, &s.MatchesPlayed, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresPlayerStatRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.PlayerStat, error) {
	query := `
		SELECT id, tournament_id, team_id, kills_total, matches_played, updated_at
		FROM player_stats
		WHERE tournament_id = $1
		ORDER BY kills_total DESC, team_id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.PlayerStat, 0)
	for rows.Next() {
		var s models.PlayerStat
		if scanErr := rows.Scan(&s.ID, &s.TournamentID, &s.TeamID, &s.KillsTotal, &s.MatchesPlayed, &s.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
