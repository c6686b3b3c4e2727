package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mkcho/worldcup-backend/models"
)

var (
	ErrImageNotFound          = errors.New("image not found")
	ErrImageInvalidTournament = errors.New("invalid tournament reference")
)

type ImageRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, images []models.Image) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Image, error)
	ListThumbnailURLs(ctx context.Context, tournamentID uuid.UUID, limit int) ([]string, error)
}

type postgresImageRepository struct {
	db *sql.DB
}

func NewPostgresImageRepository(db *sql.DB) ImageRepository {
	return &postgresImageRepository{db: db}
}

func (r *postgresImageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch вставляет все картинки турнира одним INSERT. Вызывается внутри
// транзакции создания турнира, чтобы не оставлять турнир без кандидатов.
func (r *postgresImageRepository) CreateBatch(ctx context.Context, exec SQLExecutor, images []models.Image) error {
	if len(images) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	placeholders := make([]string, 0, len(images))
	args := make([]interface{}, 0, len(images)*3)
	for i, img := range images {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, img.TournamentID, img.ImageURL, img.Name)
	}

	query := `
		INSERT INTO images (tournament_id, image_url, name)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return r.handleImageError(err)
	}
	return nil
}

func (r *postgresImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	query := `
		SELECT id, tournament_id, image_url, name, created_at
		FROM images
		WHERE id = $1`

	img := &models.Image{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&img.ID, &img.TournamentID, &img.ImageURL, &img.Name, &img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return img, nil
}

// ListByTournament возвращает кандидатов в порядке вставки — этот порядок
// используется клиентом как стабильный дефолтный.
func (r *postgresImageRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Image, error) {
	query := `
		SELECT id, tournament_id, image_url, name, created_at
		FROM images
		WHERE tournament_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]models.Image, 0)
	for rows.Next() {
		var img models.Image
		if scanErr := rows.Scan(&img.ID, &img.TournamentID, &img.ImageURL, &img.Name, &img.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		images = append(images, img)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *postgresImageRepository) ListThumbnailURLs(ctx context.Context, tournamentID uuid.UUID, limit int) ([]string, error) {
	query := `
		SELECT image_url
		FROM images
		WHERE tournament_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]string, 0, limit)
	for rows.Next() {
		var url string
		if scanErr := rows.Scan(&url); scanErr != nil {
			return nil, scanErr
		}
		urls = append(urls, url)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *postgresImageRepository) handleImageError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrImageInvalidTournament
	}
	return err
}
