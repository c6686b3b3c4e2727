package models

import (
	"time"

	"github.com/google/uuid"
)

// Result — итог одного прохождения сетки. Строки только добавляются; "текущим"
// результатом турнира считается самая свежая строка.
type Result struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TournamentID  uuid.UUID `json:"tournament_id" db:"tournament_id"`
	WinnerImageID uuid.UUID `json:"winner_image_id" db:"winner_image_id"`
	WinnerName    string    `json:"winner_name" db:"winner_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	// URL картинки победителя, подтягивается join-ом при чтении.
	WinnerImageURL *string `json:"winner_image_url,omitempty" db:"-"`
}
