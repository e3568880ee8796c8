package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/repositories"
	"github.com/dropzone-gg/warzone-tournaments/scoring"
	"golang.org/x/sync/errgroup"
)

// Leaderboard is recomputed from stored matches and adjustments on every
// request; nothing here is cached or persisted.
type Leaderboard struct {
	TournamentID   int                        `json:"tournament_id"`
	TournamentCode string                     `json:"tournament_code"`
	CountedMatches int                        `json:"counted_matches"`
	Entries        []scoring.LeaderboardEntry `json:"entries"`
}

type LeaderboardService interface {
	Compute(ctx context.Context, tournamentID int) (*Leaderboard, error)
	TeamStats(ctx context.Context, teamID int) (*scoring.TeamStats, error)
}

type leaderboardService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	adjustmentRepo repositories.AdjustmentRepository
}

func NewLeaderboardService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	adjustmentRepo repositories.AdjustmentRepository,
) LeaderboardService {
	return &leaderboardService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

func (s *leaderboardService) Compute(ctx context.Context, tournamentID int) (*Leaderboard, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	teamIDs := make([]int, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	var (
		matchesByTeam     map[int][]models.Match
		adjustmentsByTeam map[int][]models.ScoreAdjustment
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var loadErr error
		matchesByTeam, loadErr = s.matchRepo.ListByTeams(gCtx, teamIDs)
		if loadErr != nil {
			return fmt.Errorf("failed to load matches: %w", loadErr)
		}
		return nil
	})
	g.Go(func() error {
		var loadErr error
		adjustmentsByTeam, loadErr = s.adjustmentRepo.ListByTeams(gCtx, teamIDs)
		if loadErr != nil {
			return fmt.Errorf("failed to load adjustments: %w", loadErr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allStats := make([]scoring.TeamStats, 0, len(teams))
	for _, team := range teams {
		allStats = append(allStats, scoring.Aggregate(
			team,
			matchesByTeam[team.ID],
			adjustmentsByTeam[team.ID],
			tournament.CountedMatches,
		))
	}

	return &Leaderboard{
		TournamentID:   tournament.ID,
		TournamentCode: tournament.Code,
		CountedMatches: tournament.CountedMatches,
		Entries:        scoring.Rank(allStats),
	}, nil
}

func (s *leaderboardService) TeamStats(ctx context.Context, teamID int) (*scoring.TeamStats, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, team.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", team.TournamentID, err)
	}

	matches, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for team %d: %w", teamID, err)
	}
	adjustments, err := s.adjustmentRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments for team %d: %w", teamID, err)
	}

	stats := scoring.Aggregate(*team, matches, adjustments, tournament.CountedMatches)
	return &stats, nil
}
