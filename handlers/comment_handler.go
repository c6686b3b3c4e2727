package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkcho/worldcup-backend/middleware"
	"github.com/mkcho/worldcup-backend/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.List(r.Context(), chi.URLParam(r, "shortID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"comments": comments}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *CommentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.SubmitCommentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	comment, err := h.commentService.Submit(r.Context(), chi.URLParam(r, "shortID"), middleware.ClientIP(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, comment, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
