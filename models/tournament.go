package models

import (
	"time"

	"github.com/google/uuid"
)

// Tournament представляет один "월드컵" (worldcup) — тематическую сетку из
// картинок-кандидатов. Наружу отдаётся только ShortID, внутренний uuid служит
// ключом для внешних ссылок.
type Tournament struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ShortID     int64     `json:"short_id" db:"short_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Заполняется только в списке для главной страницы.
	Thumbnails []string `json:"thumbnails,omitempty" db:"-"`
}
