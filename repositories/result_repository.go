package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mkcho/worldcup-backend/models"
)

var (
	ErrResultNotFound     = errors.New("result not found")
	ErrResultInvalidImage = errors.New("invalid winner image reference")
)

type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetLatestByTournament(ctx context.Context, tournamentID uuid.UUID) (*models.Result, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Create(ctx context.Context, result *models.Result) error {
	query := `
		INSERT INTO results (tournament_id, winner_image_id, winner_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		result.TournamentID, result.WinnerImageID, result.WinnerName,
	).Scan(&result.ID, &result.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrResultInvalidImage
		}
		return err
	}
	return nil
}

// GetLatestByTournament возвращает самый свежий результат вместе с актуальным
// URL картинки победителя.
func (r *postgresResultRepository) GetLatestByTournament(ctx context.Context, tournamentID uuid.UUID) (*models.Result, error) {
	query := `
		SELECT r.id, r.tournament_id, r.winner_image_id, r.winner_name, r.created_at, i.image_url
		FROM results r
		JOIN images i ON i.id = r.winner_image_id
		WHERE r.tournament_id = $1
		ORDER BY r.created_at DESC
		LIMIT 1`

	result := &models.Result{}
	var imageURL string
	err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(
		&result.ID, &result.TournamentID, &result.WinnerImageID, &result.WinnerName, &result.CreatedAt, &imageURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	result.WinnerImageURL = &imageURL
	return result, nil
}
