package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkcho/worldcup-backend/live"
	"github.com/mkcho/worldcup-backend/models"
	"github.com/mkcho/worldcup-backend/repositories"
)

// DefaultNickname подставляется вместо пустого ника.
const DefaultNickname = "anonymous"

type SubmitCommentInput struct {
	Nickname string `json:"nickname"`
	Content  string `json:"content"`
}

// CommentLimits — границы длины полей комментария, задаются конфигурацией.
type CommentLimits struct {
	MaxContentLength  int
	MaxNicknameLength int
}

type CommentService interface {
	Submit(ctx context.Context, shortID, clientKey string, input SubmitCommentInput) (*models.Comment, error)
	List(ctx context.Context, shortID string) ([]models.Comment, error)
}

type commentService struct {
	resolver *ShortIDResolver
	comments repositories.CommentRepository
	results  repositories.ResultRepository
	limiter  Admitter
	limits   CommentLimits
	hub      Broadcaster
	logger   *slog.Logger
}

func NewCommentService(
	resolver *ShortIDResolver,
	comments repositories.CommentRepository,
	results repositories.ResultRepository,
	limiter Admitter,
	limits CommentLimits,
	hub Broadcaster,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		resolver: resolver,
		comments: comments,
		results:  results,
		limiter:  limiter,
		limits:   limits,
		hub:      hub,
		logger:   logger,
	}
}

// Submit сохраняет анонимный комментарий, впечатывая в него текущего победителя
// турнира. Снапшот намеренно не обновляется задним числом: старые комментарии
// показывают победителя, актуального на момент написания.
func (s *commentService) Submit(ctx context.Context, shortID, clientKey string, input SubmitCommentInput) (*models.Comment, error) {
	tournamentID, err := s.resolver.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(input.Content)
	nickname := strings.TrimSpace(input.Nickname)

	if content == "" {
		return nil, ErrContentRequired
	}
	if len([]rune(content)) > s.limits.MaxContentLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrContentTooLong, s.limits.MaxContentLength)
	}
	// Слишком длинный ник отклоняется, а не обрезается.
	if len([]rune(nickname)) > s.limits.MaxNicknameLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrNicknameTooLong, s.limits.MaxNicknameLength)
	}
	if nickname == "" {
		nickname = DefaultNickname
	}

	if !s.limiter.Allow(clientKey) {
		return nil, ErrRateLimited
	}

	comment := &models.Comment{
		TournamentID: tournamentID,
		Nickname:     nickname,
		Content:      content,
	}

	// Снапшот текущего победителя; его отсутствие — не ошибка.
	latest, err := s.results.GetLatestByTournament(ctx, tournamentID)
	switch {
	case err == nil:
		comment.WinnerName = &latest.WinnerName
		comment.WinnerImageURL = latest.WinnerImageURL
	case errors.Is(err, repositories.ErrResultNotFound):
		// комментарий до первого результата
	default:
		return nil, fmt.Errorf("failed to snapshot current winner: %w", err)
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.hub.BroadcastToRoom(live.RoomForShortID(parseShortID(shortID)), live.Event{
		Type:    live.EventCommentCreated,
		Payload: comment,
	})

	return comment, nil
}

func (s *commentService) List(ctx context.Context, shortID string) ([]models.Comment, error) {
	tournamentID, err := s.resolver.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
