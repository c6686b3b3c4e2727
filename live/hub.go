// Package live раздаёт события турнира (новый результат, новый комментарий)
// подключённым по websocket зрителям страницы результатов. Комнаты — по одному
// турниру, клиенты ничего не шлют кроме ping/pong.
package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const (
	EventResultSaved    = "RESULT_SAVED"
	EventCommentCreated = "COMMENT_CREATED"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RoomForShortID — имя комнаты для турнира с данным публичным id.
func RoomForShortID(shortID int64) string {
	return fmt.Sprintf("worldcup_%d", shortID)
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()
			h.logger.Debug("live client registered", slog.String("room", client.room))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, known := clients[client]; known {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("live client unregistered", slog.String("room", client.room))
		}
	}
}

// BroadcastToRoom отправляет событие всем клиентам комнаты. Медленные клиенты
// с переполненным буфером пропускают событие, запрос это не блокирует.
func (h *Hub) BroadcastToRoom(room string, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal live event", slog.String("room", room), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		select {
		case client.send <- message:
		default:
		}
	}
}
