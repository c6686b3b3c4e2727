package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/services"
)

type WebSocketHandler struct {
	hub      *live.Hub
	resolver *services.ShortIDResolver
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *live.Hub, resolver *services.ShortIDResolver, allowedOrigin string, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		resolver: resolver,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// ServeLive подключает зрителя к live-ленте турнира.
func (h *WebSocketHandler) ServeLive(w http.ResponseWriter, r *http.Request) {
	shortID := chi.URLParam(r, "shortID")
	if _, err := h.resolver.Resolve(r.Context(), shortID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту при ошибке.
		h.logger.Warn("websocket upgrade failed", slog.String("short_id", shortID), slog.Any("error", err))
		return
	}

	// shortID уже прошёл через Resolve, парсинг не может упасть.
	parsed, _ := strconv.ParseInt(shortID, 10, 64)
	live.NewClient(h.hub, conn, live.RoomForShortID(parsed))
}
