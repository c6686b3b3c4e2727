package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mkcho/worldcup-backend/models"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Comment, error)
}

type postgresCommentRepository struct {
	db *sql.DB
}

func NewPostgresCommentRepository(db *sql.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	query := `
		INSERT INTO comments (tournament_id, nickname, content, winner_name, winner_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		c.TournamentID, c.Nickname, c.Content, c.WinnerName, c.WinnerImageURL,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *postgresCommentRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Comment, error) {
	query := `
		SELECT id, tournament_id, nickname, content, winner_name, winner_image_url, created_at
		FROM comments
		WHERE tournament_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if scanErr := rows.Scan(
			&c.ID, &c.TournamentID, &c.Nickname, &c.Content,
			&c.WinnerName, &c.WinnerImageURL, &c.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}
