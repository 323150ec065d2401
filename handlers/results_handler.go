package handlers

import (
	"net/http"

	"github.com/grims-squad/clan-backend/services"
)

type ResultsHandler struct {
	resultsService *services.ResultsService
}

func NewResultsHandler(rs *services.ResultsService) *ResultsHandler {
	return &ResultsHandler{resultsService: rs}
}

type submitResultsInput struct {
	Entries []services.ResultEntry `json:"entries"`
}

// SubmitHandler handles POST /tournaments/{tournamentID}/results
func (h *ResultsHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitResultsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.resultsService.SubmitTournamentResults(r.Context(), tournamentID, input.Entries); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "results submitted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /tournaments/{tournamentID}/results
func (h *ResultsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.resultsService.ListTournamentResults(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
