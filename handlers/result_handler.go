package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkcho/worldcup-backend/middleware"
	"github.com/mkcho/worldcup-backend/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// Submit сохраняет победителя, заявленного клиентским движком сетки.
func (h *ResultHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.SubmitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	result, err := h.resultService.Submit(r.Context(), chi.URLParam(r, "shortID"), middleware.ClientIP(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetLatest отдаёт текущего победителя турнира.
func (h *ResultHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.resultService.GetLatest(r.Context(), chi.URLParam(r, "shortID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	response := jsonResponse{
		"winner_image_id":  result.WinnerImageID,
		"winner_name":      result.WinnerName,
		"winner_image_url": result.WinnerImageURL,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
