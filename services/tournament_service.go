package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mkcho/worldcup-backend/brackets"
	"github.com/mkcho/worldcup-backend/models"
	"github.com/mkcho/worldcup-backend/repositories"
)

// thumbnailCount — сколько превью отдаётся в списке на главной.
const thumbnailCount = 2

type ImageInput struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type CreateWorldcupInput struct {
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Images      []ImageInput `json:"images"`
}

type WorldcupInfo struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// GamePayload — всё, что нужно клиентскому движку сетки: метаданные турнира и
// полный список кандидатов в порядке вставки.
type GamePayload struct {
	Info   WorldcupInfo   `json:"info"`
	Images []models.Image `json:"images"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateWorldcupInput) (*models.Tournament, error)
	GetGamePayload(ctx context.Context, shortID string) (*GamePayload, error)
	List(ctx context.Context) ([]models.Tournament, error)
}

type tournamentService struct {
	tx          repositories.TxRunner
	tournaments repositories.TournamentRepository
	images      repositories.ImageRepository
	resolver    *ShortIDResolver
	logger      *slog.Logger
}

func NewTournamentService(
	tx repositories.TxRunner,
	tournaments repositories.TournamentRepository,
	images repositories.ImageRepository,
	resolver *ShortIDResolver,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:          tx,
		tournaments: tournaments,
		images:      images,
		resolver:    resolver,
		logger:      logger,
	}
}

// Create заводит турнир вместе со всеми кандидатами одной транзакцией: турнир
// без картинок неиграбелен, поэтому частичное создание недопустимо.
//
// Минимум кандидатов диктует движок сетки: он всегда режет посев до 32, так
// что меньший набор отклоняется уже здесь.
func (s *tournamentService) Create(ctx context.Context, input CreateWorldcupInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if len(input.Images) < brackets.SlotCount {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughImages, len(input.Images))
	}
	for _, img := range input.Images {
		if strings.TrimSpace(img.Path) == "" || strings.TrimSpace(img.Name) == "" {
			return nil, ErrImageEntryIncomplete
		}
	}

	tournament := &models.Tournament{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournaments.Create(ctx, exec, tournament); err != nil {
			return fmt.Errorf("failed to create tournament: %w", err)
		}

		images := make([]models.Image, len(input.Images))
		for i, img := range input.Images {
			images[i] = models.Image{
				TournamentID: tournament.ID,
				ImageURL:     img.Path,
				Name:         img.Name,
			}
		}
		if err := s.images.CreateBatch(ctx, exec, images); err != nil {
			return fmt.Errorf("failed to create images: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("worldcup created",
		slog.Int64("short_id", tournament.ShortID),
		slog.String("title", tournament.Title),
		slog.Int("images", len(input.Images)),
	)
	return tournament, nil
}

func (s *tournamentService) GetGamePayload(ctx context.Context, shortID string) (*GamePayload, error) {
	id, err := s.resolver.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}

	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load tournament", slog.String("id", id.String()), slog.Any("error", err))
		return nil, ErrWorldcupNotFound
	}

	images, err := s.images.ListByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	return &GamePayload{
		Info: WorldcupInfo{
			Title:       tournament.Title,
			Description: tournament.Description,
		},
		Images: images,
	}, nil
}

// List возвращает турниры для главной страницы, свежие первыми, с парой превью
// на каждый. Превью подгружаются параллельно, но ограниченно.
func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournaments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range tournaments {
		i := i
		g.Go(func() error {
			urls, err := s.images.ListThumbnailURLs(gCtx, tournaments[i].ID, thumbnailCount)
			if err != nil {
				return fmt.Errorf("failed to load thumbnails for tournament %d: %w", tournaments[i].ShortID, err)
			}
			tournaments[i].Thumbnails = urls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tournaments, nil
}
