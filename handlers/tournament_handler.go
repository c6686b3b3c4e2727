package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkcho/worldcup-backend/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// List — главная страница: все турниры, свежие первыми, с превью.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"worldcups": tournaments}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetGamePayload — данные для одного прохождения сетки.
func (h *TournamentHandler) GetGamePayload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.tournamentService.GetGamePayload(r.Context(), chi.URLParam(r, "shortID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
