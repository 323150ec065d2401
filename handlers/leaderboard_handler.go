package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/grims-squad/clan-backend/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(ls *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// ListHandler handles GET /leaderboard
func (h *LeaderboardHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.leaderboardService.ListPlayers(r.Context(), 0)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TopHandler handles GET /leaderboard/top for the homepage mini board.
func (h *LeaderboardHandler) TopHandler(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 100 {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		limit = parsed
	}

	players, err := h.leaderboardService.ListPlayers(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setPointsInput struct {
	Points *int `json:"points"`
}

// SetPointsHandler handles PUT /leaderboard/players/{playerID}/points, the
// operator correction path.
func (h *LeaderboardHandler) SetPointsHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setPointsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Points == nil {
		badRequestResponse(w, r, errors.New("points is required"))
		return
	}

	player, err := h.leaderboardService.SetPlayerPoints(r.Context(), playerID, *input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
