package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/mkcho/worldcup-backend/repositories"
)

// ShortIDResolver переводит публичный короткий id из URL во внутренний uuid.
// Ошибки хранилища намеренно сливаются с not found: пространство коротких id
// публично, различать эти случаи клиенту незачем, а детали внутренних сбоев
// наружу не утекают (они остаются в логе).
type ShortIDResolver struct {
	tournaments repositories.TournamentRepository
	logger      *slog.Logger
}

func NewShortIDResolver(tournaments repositories.TournamentRepository, logger *slog.Logger) *ShortIDResolver {
	return &ShortIDResolver{tournaments: tournaments, logger: logger}
}

// parseShortID — для call sites после успешного Resolve, когда строка уже
// гарантированно числовая (имя комнаты live-ленты).
func parseShortID(shortID string) int64 {
	n, _ := strconv.ParseInt(shortID, 10, 64)
	return n
}

func (r *ShortIDResolver) Resolve(ctx context.Context, shortID string) (uuid.UUID, error) {
	parsed, err := strconv.ParseInt(shortID, 10, 64)
	if err != nil {
		return uuid.Nil, ErrInvalidWorldcupID
	}

	id, err := r.tournaments.GetIDByShortID(ctx, parsed)
	if err != nil {
		if !errors.Is(err, repositories.ErrTournamentNotFound) {
			r.logger.Error("short id lookup failed", slog.Int64("short_id", parsed), slog.Any("error", err))
		}
		return uuid.Nil, ErrWorldcupNotFound
	}
	return id, nil
}
