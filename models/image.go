package models

import (
	"time"

	"github.com/google/uuid"
)

// Image — кандидат турнира. Name показывается под картинкой как имя участника.
type Image struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TournamentID uuid.UUID `json:"tournament_id" db:"tournament_id"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
