package service

import (
	"errors"
	"fmt"
)

// Ошибки валидации (400)
var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidPhone    = fmt.Errorf("%w: phone must be in format +7XXXXXXXXXX", ErrValidation)
	ErrNotOperatingDay = fmt.Errorf("%w: exhibition does not operate on this day", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: status must be one of confirmed, completed, cancelled, no_show", ErrValidation)
)

// Ошибки отсутствия ресурса (404)
var (
	ErrNotFound           = errors.New("not found")
	ErrExhibitionNotFound = fmt.Errorf("exhibition %w", ErrNotFound)
	ErrBookingNotFound    = fmt.Errorf("booking %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrNotCancellable     = fmt.Errorf("booking %w or cannot be cancelled", ErrNotFound)
)

// Ошибки конкурентного доступа (409)
var (
	ErrConflict = errors.New("conflict")
	ErrSlotFull = fmt.Errorf("%w: time slot is fully booked", ErrConflict)
)
