package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/mkcho/worldcup-backend/models"
)

// SessionStore — хранилище админских сессий по opaque токену.
// Процесс-локальная реализация ниже; при нескольких инстансах сервера сюда
// подставляется внешний кеш, call sites не меняются.
type SessionStore interface {
	Put(token string, session models.AdminSession)
	Get(token string) (models.AdminSession, bool)
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.AdminSession
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]models.AdminSession)}
}

func (s *memorySessionStore) Put(token string, session models.AdminSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
}

func (s *memorySessionStore) Get(token string) (models.AdminSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	return session, ok
}

// NewSessionToken выдаёт криптографически случайный opaque токен сессии.
func NewSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
