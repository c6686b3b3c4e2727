package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkcho/worldcup-backend/auth"
)

var adminEmails = []string{"admin@example.com"}

func TestLoginWithVerifiedToken(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	verifier := &fakeVerifier{identity: auth.Identity{Subject: "user-1", Email: "admin@example.com"}}
	svc := NewAdminService(verifier, sessions, adminEmails, "", testLogger())

	token, err := svc.Login(context.Background(), LoginInput{AccessToken: "provider-jwt"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, ok := sessions.Get(token)
	require.True(t, ok)
	assert.Equal(t, "user-1", session.Subject)
	assert.Equal(t, "admin@example.com", session.Email)
}

func TestLoginAllowlistIsCaseInsensitive(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	verifier := &fakeVerifier{identity: auth.Identity{Subject: "user-1", Email: "Admin@Example.COM"}}
	svc := NewAdminService(verifier, sessions, adminEmails, "", testLogger())

	_, err := svc.Login(context.Background(), LoginInput{AccessToken: "provider-jwt"})
	assert.NoError(t, err)
}

func TestLoginRejectsNonAdminEmail(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	verifier := &fakeVerifier{identity: auth.Identity{Subject: "user-2", Email: "stranger@example.com"}}
	svc := NewAdminService(verifier, sessions, adminEmails, "", testLogger())

	token, err := svc.Login(context.Background(), LoginInput{AccessToken: "provider-jwt"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, token)
}

func TestLoginRejectsBadToken(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	verifier := &fakeVerifier{err: auth.ErrTokenInvalid}
	svc := NewAdminService(verifier, sessions, adminEmails, "", testLogger())

	_, err := svc.Login(context.Background(), LoginInput{AccessToken: "garbage"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginPasswordFallback(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("local-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	sessions := auth.NewMemorySessionStore()
	svc := NewAdminService(&fakeVerifier{err: auth.ErrTokenInvalid}, sessions, adminEmails, string(hash), testLogger())

	token, err := svc.Login(context.Background(), LoginInput{Email: "admin@example.com", Password: "local-secret"})
	require.NoError(t, err)

	session, ok := sessions.Get(token)
	require.True(t, ok)
	assert.Equal(t, "local-admin", session.Subject)

	_, err = svc.Login(context.Background(), LoginInput{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginPasswordFallbackDisabledWithoutHash(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	svc := NewAdminService(&fakeVerifier{err: auth.ErrTokenInvalid}, sessions, adminEmails, "", testLogger())

	// Без ADMIN_PASSWORD_HASH парольный вход не существует как способ входа.
	_, err := svc.Login(context.Background(), LoginInput{Email: "admin@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLoginRequiresCredentials(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	svc := NewAdminService(&fakeVerifier{}, sessions, adminEmails, "", testLogger())

	_, err := svc.Login(context.Background(), LoginInput{})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
