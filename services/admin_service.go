package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkcho/worldcup-backend/auth"
	"github.com/mkcho/worldcup-backend/models"
)

type LoginInput struct {
	AccessToken string `json:"access_token"`

	// Парольный fallback для локальной разработки, работает только когда в
	// конфигурации задан ADMIN_PASSWORD_HASH.
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminService interface {
	// Login проверяет личность и при успехе возвращает opaque токен новой
	// сессии. Сессия живёт в памяти процесса до рестарта.
	Login(ctx context.Context, input LoginInput) (string, error)
}

type adminService struct {
	verifier     auth.TokenVerifier
	sessions     auth.SessionStore
	adminEmails  []string
	passwordHash string
	logger       *slog.Logger
}

func NewAdminService(
	verifier auth.TokenVerifier,
	sessions auth.SessionStore,
	adminEmails []string,
	passwordHash string,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		verifier:     verifier,
		sessions:     sessions,
		adminEmails:  adminEmails,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

func (s *adminService) Login(ctx context.Context, input LoginInput) (string, error) {
	var identity auth.Identity

	switch {
	case input.AccessToken != "":
		verified, err := s.verifier.Verify(ctx, input.AccessToken)
		if err != nil {
			s.logger.Warn("admin token verification failed", slog.Any("error", err))
			return "", ErrUnauthorized
		}
		identity = verified

	case input.Email != "" && input.Password != "" && s.passwordHash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(input.Password)); err != nil {
			return "", ErrUnauthorized
		}
		identity = auth.Identity{Subject: "local-admin", Email: input.Email}

	default:
		return "", fmt.Errorf("%w: access token is required", ErrValidationFailed)
	}

	if !s.isAdmin(identity.Email) {
		s.logger.Warn("login attempt by non-admin", slog.String("email", identity.Email))
		return "", ErrForbidden
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}
	s.sessions.Put(token, models.AdminSession{
		Subject: identity.Subject,
		Email:   identity.Email,
	})

	s.logger.Info("admin logged in", slog.String("email", identity.Email))
	return token, nil
}

func (s *adminService) isAdmin(email string) bool {
	for _, allowed := range s.adminEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}
