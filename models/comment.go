package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — анонимный комментарий к турниру. WinnerName/WinnerImageURL — это
// снапшот победителя на момент написания комментария, он не обновляется при
// появлении новых результатов. Оба поля nil, если результата ещё не было.
type Comment struct {
	ID             uuid.UUID `json:"id" db:"id"`
	TournamentID   uuid.UUID `json:"tournament_id" db:"tournament_id"`
	Nickname       string    `json:"nickname" db:"nickname"`
	Content        string    `json:"content" db:"content"`
	WinnerName     *string   `json:"winner_name" db:"winner_name"`
	WinnerImageURL *string   `json:"winner_image_url" db:"winner_image_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
