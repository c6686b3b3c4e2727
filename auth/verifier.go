package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

var ErrTokenInvalid = errors.New("invalid access token")

// Identity — проверенная личность, которую вернул identity-провайдер.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier проверяет access token внешнего identity-провайдера и
// возвращает подтверждённые subject и email.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (Identity, error)
}

// JWTVerifier проверяет токен локально: access token провайдера — это HS256
// JWT, подписанный секретом проекта, поэтому сетевой вызов к провайдеру не
// нужен. exp/nbf валидируются библиотекой при парсинге.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, accessToken string) (Identity, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return Identity{}, fmt.Errorf("%w: missing sub or email claim", ErrTokenInvalid)
	}

	return Identity{Subject: sub, Email: email}, nil
}
