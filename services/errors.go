package services

import (
	"errors"
	"fmt"
)

// Общие ошибки сервисного слоя. Хендлеры мапят их в HTTP-статусы через
// errors.Is, поэтому конкретные ошибки валидации оборачивают ErrValidationFailed.
var (
	// Идентификаторы
	ErrInvalidWorldcupID = errors.New("invalid worldcup id")
	ErrWorldcupNotFound  = errors.New("worldcup not found")
	ErrResultNotFound    = errors.New("result not found")

	// Валидация
	ErrValidationFailed = errors.New("validation failed")

	ErrTitleRequired         = fmt.Errorf("%w: title is required", ErrValidationFailed)
	ErrNotEnoughImages       = fmt.Errorf("%w: a worldcup needs at least 32 images", ErrValidationFailed)
	ErrImageEntryIncomplete  = fmt.Errorf("%w: every image needs both path and name", ErrValidationFailed)
	ErrWinnerRequired        = fmt.Errorf("%w: winner image id and name are required", ErrValidationFailed)
	ErrWinnerNotInTournament = fmt.Errorf("%w: winner image does not belong to this worldcup", ErrValidationFailed)
	ErrContentRequired       = fmt.Errorf("%w: comment content is required", ErrValidationFailed)
	ErrContentTooLong        = fmt.Errorf("%w: comment content is too long", ErrValidationFailed)
	ErrNicknameTooLong       = fmt.Errorf("%w: nickname is too long", ErrValidationFailed)

	// Admission control
	ErrRateLimited = errors.New("too many requests, try again later")

	// Админский вход
	ErrUnauthorized   = errors.New("authentication failed")
	ErrForbidden      = errors.New("not an admin")
	ErrInvalidSession = errors.New("invalid session")
)
