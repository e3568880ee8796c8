package handlers

import (
	"net/http"

	"github.com/dropzone-gg/warzone-tournaments/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: ls,
	}
}

// GetHandler handles GET /tournaments/{tournamentID}/leaderboard
func (h *LeaderboardHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leaderboard, err := h.leaderboardService.Compute(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TeamStatsHandler handles GET /teams/{teamID}/stats
func (h *LeaderboardHandler) TeamStatsHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.leaderboardService.TeamStats(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
