package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grims-squad/clan-backend/middleware"
	"github.com/grims-squad/clan-backend/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(ps *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

// GetByNameHandler handles GET /profiles/{inGameName}
func (h *ProfileHandler) GetByNameHandler(w http.ResponseWriter, r *http.Request) {
	inGameName := chi.URLParam(r, "inGameName")
	if inGameName == "" {
		badRequestResponse(w, r, errors.New("missing in-game name in URL path"))
		return
	}

	profile, err := h.profileService.GetPublicProfile(r.Context(), inGameName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /profiles (registered players page)
func (h *ProfileHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListRegisteredPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profiles": profiles}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMeHandler handles PUT /profiles/me
func (h *ProfileHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatarHandler handles POST /profiles/me/avatar
func (h *ProfileHandler) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	profile, err := h.profileService.UploadAvatar(r.Context(), currentUserID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteAvatarHandler handles DELETE /profiles/me/avatar
func (h *ProfileHandler) DeleteAvatarHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.profileService.DeleteAvatar(r.Context(), currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "avatar removed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setStatsInput struct {
	TournamentsPlayed int `json:"tournaments_played"`
	TournamentsWon    int `json:"tournaments_won"`
}

// SetStatsHandler handles PUT /profiles/{inGameName}/stats (admin)
func (h *ProfileHandler) SetStatsHandler(w http.ResponseWriter, r *http.Request) {
	inGameName := chi.URLParam(r, "inGameName")
	if inGameName == "" {
		badRequestResponse(w, r, errors.New("missing in-game name in URL path"))
		return
	}

	var input setStatsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.profileService.SetStats(r.Context(), inGameName, input.TournamentsPlayed, input.TournamentsWon)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
