package handlers

import (
	"net/http"

	"github.com/dropzone-gg/warzone-tournaments/middleware"
	"github.com/dropzone-gg/warzone-tournaments/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// RegisterHandler handles POST /tournaments/{tournamentID}/teams
func (h *TeamHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	team, err := h.teamService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// The access code is returned exactly once, at registration time.
	if err := writeJSON(w, http.StatusCreated, jsonResponse{
		"team":        team,
		"access_code": team.AccessCode,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /teams/{teamID}
func (h *TeamHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddAdjustmentHandler handles POST /teams/{teamID}/adjustments
func (h *TeamHandler) AddAdjustmentHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to adjust scores")
		return
	}

	var input services.AddAdjustmentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TeamID = teamID
	input.CreatorID = currentUserID

	adjustment, err := h.teamService.AddAdjustment(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"adjustment": adjustment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAdjustmentsHandler handles GET /teams/{teamID}/adjustments
func (h *TeamHandler) ListAdjustmentsHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	adjustments, err := h.teamService.ListAdjustments(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"adjustments": adjustments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
