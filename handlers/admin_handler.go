package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkcho/worldcup-backend/middleware"
	"github.com/mkcho/worldcup-backend/services"
	"github.com/mkcho/worldcup-backend/storage"
)

const (
	adminCookieMaxAge = 7 * 24 * time.Hour
	uploadKeyPrefix   = "worldcup"
	maxUploadBytes    = 10 << 20 // 10MB на файл
)

type AdminHandler struct {
	adminService      services.AdminService
	tournamentService services.TournamentService
	uploader          storage.FileUploader
	secureCookies     bool
}

func NewAdminHandler(
	adminService services.AdminService,
	tournamentService services.TournamentService,
	uploader storage.FileUploader,
	secureCookies bool,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		tournamentService: tournamentService,
		uploader:          uploader,
		secureCookies:     secureCookies,
	}
}

// Login выдаёт админскую сессию в HttpOnly cookie. Тело ответа не содержит
// ничего кроме подтверждения — токен наружу не возвращается.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	token, err := h.adminService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(adminCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

// CreateWorldcup создаёт турнир из уже загруженных в хранилище картинок.
func (h *AdminHandler) CreateWorldcup(w http.ResponseWriter, r *http.Request) {
	var input services.CreateWorldcupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	response := jsonResponse{
		"id":       tournament.ID,
		"short_id": tournament.ShortID,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

type uploadedFile struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadImages принимает multipart с картинками кандидатов и складывает их в
// объектное хранилище. Ключи возвращаются клиенту, чтобы он сослался на них в
// CreateWorldcup.
func (h *AdminHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequestResponse(w, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		badRequestResponse(w, errors.New("at least one image file is required"))
		return
	}

	uploads := make([]uploadedFile, 0, len(files))
	for _, header := range files {
		if header.Size > maxUploadBytes {
			badRequestResponse(w, fmt.Errorf("file %q exceeds the %d byte limit", header.Filename, maxUploadBytes))
			return
		}

		contentType := header.Header.Get("Content-Type")
		ext, err := extensionForContentType(contentType)
		if err != nil {
			badRequestResponse(w, err)
			return
		}

		file, err := header.Open()
		if err != nil {
			serverErrorResponse(w, fmt.Errorf("failed to open uploaded file: %w", err))
			return
		}

		key := path.Join(uploadKeyPrefix, uuid.NewString()+ext)
		result, err := h.uploader.Upload(r.Context(), key, contentType, file)
		file.Close()
		if err != nil {
			serverErrorResponse(w, err)
			return
		}

		uploads = append(uploads, uploadedFile{Key: result.Key, URL: result.Location})
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"uploads": uploads}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
		return "." + strings.SplitN(parts[1], "+", 2)[0], nil
	}
	return "", fmt.Errorf("unsupported image content type: %q", contentType)
}
