package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/dropzone-gg/warzone-tournaments/services"
)

// LeaderboardBroadcaster recomputes a tournament's leaderboard whenever a
// review lands and pushes it to the tournament's room.
type LeaderboardBroadcaster struct {
	hub          *Hub
	leaderboards services.LeaderboardService
	logger       *slog.Logger
}

func NewLeaderboardBroadcaster(hub *Hub, leaderboards services.LeaderboardService, logger *slog.Logger) *LeaderboardBroadcaster {
	return &LeaderboardBroadcaster{
		hub:          hub,
		leaderboards: leaderboards,
		logger:       logger,
	}
}

// LeaderboardChanged runs the recompute off the caller's request path. A
// failed push never affects the review that triggered it.
func (b *LeaderboardBroadcaster) LeaderboardChanged(tournamentID int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		board, err := b.leaderboards.Compute(ctx, tournamentID)
		if err != nil {
			b.logger.Error("failed to compute leaderboard for live push",
				slog.Int("tournament_id", tournamentID),
				slog.Any("error", err))
			return
		}

		room := RoomForTournament(tournamentID)
		b.hub.BroadcastToRoom(room, Message{
			Type:    "LEADERBOARD_UPDATED",
			Payload: board,
			RoomID:  room,
		})
	}()
}
