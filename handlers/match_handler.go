package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dropzone-gg/warzone-tournaments/middleware"
	"github.com/dropzone-gg/warzone-tournaments/models"
	"github.com/dropzone-gg/warzone-tournaments/services"
	"github.com/dropzone-gg/warzone-tournaments/storage"
)

const maxEvidenceSize = 10 << 20 // 10MB

type MatchHandler struct {
	matchService services.MatchService
	teamService  services.TeamService
	uploader     storage.FileUploader
}

// NewMatchHandler accepts a nil uploader; evidence uploads are then rejected
// with 503 while result submission keeps working.
func NewMatchHandler(matchService services.MatchService, teamService services.TeamService, uploader storage.FileUploader) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		teamService:  teamService,
		uploader:     uploader,
	}
}

// SubmitHandler handles POST /matches. Authentication is the team access
// code inside the body, not a bearer token.
func (h *MatchHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var input services.SubmitMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Manual score overrides are a moderator tool.
	if input.ManualScore != nil {
		role, err := middleware.GetUserRoleFromContext(r.Context())
		if err != nil || (role != models.RoleModerator && role != models.RoleAdmin) {
			forbiddenResponse(w, r, "manual score override requires a moderator token")
			return
		}
	}

	match, err := h.matchService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /matches/{matchID}
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPendingHandler handles GET /tournaments/{tournamentID}/matches/pending
func (h *MatchHandler) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListPending(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReviewHandler handles PATCH /matches/{matchID}/review
func (h *MatchHandler) ReviewHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reviewerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to review matches")
		return
	}

	var body struct {
		Status models.MatchStatus `json:"status"`
		Reason *string            `json:"reason,omitempty"`
	}
	if err := readJSON(w, r, &body); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Review(r.Context(), services.ReviewMatchInput{
		MatchID:    matchID,
		Status:     body.Status,
		ReviewerID: reviewerID,
		Reason:     body.Reason,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadEvidenceHandler handles POST /evidence. The returned storage key is
// referenced later in the submission body. The caller proves they belong to
// the tournament the same way submission does: with the team access code,
// carried here as an access_code form field. A bearer token works too.
func (h *MatchHandler) UploadEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "evidence storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	if !h.uploadAuthorized(w, r) {
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing file field in multipart form"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		badRequestResponse(w, r, fmt.Errorf("unsupported evidence content type %q", contentType))
		return
	}

	key, err := evidenceKey(header.Filename)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{
		"storage_key":  result.Key,
		"content_type": contentType,
		"url":          result.Location,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// uploadAuthorized writes the error response itself when the caller presents
// neither a valid access code nor a bearer token.
func (h *MatchHandler) uploadAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if code := r.FormValue("access_code"); code != "" {
		if _, err := h.teamService.GetByAccessCode(r.Context(), code); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return false
		}
		return true
	}
	if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "evidence upload requires a team access code or a bearer token")
		return false
	}
	return true
}

func evidenceKey(filename string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate evidence key: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return "evidence/" + hex.EncodeToString(buf) + ext, nil
}
