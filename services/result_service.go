package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/models"
	"github.com/mkcho/worldcup-backend/repositories"
)

// Admitter — admission control перед записью. Реализуется ratelimit.Limiter.
type Admitter interface {
	Allow(key string) bool
}

// Broadcaster рассылает события live-ленты. Реализуется live.Hub; рассылка
// не влияет на судьбу запроса.
type Broadcaster interface {
	BroadcastToRoom(room string, event live.Event)
}

type SubmitResultInput struct {
	WinnerImageID string `json:"winner_image_id"`
	WinnerName    string `json:"winner_name"`
}

type ResultService interface {
	// Submit сохраняет победителя одного прохождения. clientKey — ключ
	// admission control (IP клиента или sentinel).
	Submit(ctx context.Context, shortID, clientKey string, input SubmitResultInput) (*models.Result, error)
	GetLatest(ctx context.Context, shortID string) (*models.Result, error)
}

type resultService struct {
	resolver *ShortIDResolver
	results  repositories.ResultRepository
	images   repositories.ImageRepository
	limiter  Admitter
	hub      Broadcaster
	logger   *slog.Logger
}

func NewResultService(
	resolver *ShortIDResolver,
	results repositories.ResultRepository,
	images repositories.ImageRepository,
	limiter Admitter,
	hub Broadcaster,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		resolver: resolver,
		results:  results,
		images:   images,
		limiter:  limiter,
		hub:      hub,
		logger:   logger,
	}
}

func (s *resultService) Submit(ctx context.Context, shortID, clientKey string, input SubmitResultInput) (*models.Result, error) {
	tournamentID, err := s.resolver.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	winnerID, err := uuid.Parse(input.WinnerImageID)
	if err != nil || strings.TrimSpace(input.WinnerName) == "" {
		return nil, ErrWinnerRequired
	}

	if !s.limiter.Allow(clientKey) {
		return nil, ErrRateLimited
	}

	// Сервер не пересчитывает сетку, но хотя бы проверяет, что заявленный
	// победитель — кандидат именно этого турнира.
	winnerImage, err := s.images.GetByID(ctx, winnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrImageNotFound) {
			return nil, ErrWinnerNotInTournament
		}
		return nil, fmt.Errorf("failed to verify winner image: %w", err)
	}
	if winnerImage.TournamentID != tournamentID {
		return nil, ErrWinnerNotInTournament
	}

	result := &models.Result{
		TournamentID:  tournamentID,
		WinnerImageID: winnerID,
		WinnerName:    strings.TrimSpace(input.WinnerName),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}
	result.WinnerImageURL = &winnerImage.ImageURL

	s.hub.BroadcastToRoom(live.RoomForShortID(parseShortID(shortID)), live.Event{
		Type:    live.EventResultSaved,
		Payload: result,
	})

	return result, nil
}

func (s *resultService) GetLatest(ctx context.Context, shortID string) (*models.Result, error) {
	tournamentID, err := s.resolver.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	result, err := s.results.GetLatestByTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load latest result: %w", err)
	}
	return result, nil
}
