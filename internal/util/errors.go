package util

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy. Services wrap these with %w; controllers translate them to
// HTTP status codes via HandleError.
var (
	// ErrValidation covers malformed input: bad grades, unknown option keys,
	// invalid snapshot payloads. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers unknown exams, questions and cards.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is a lost optimistic-lock race on an SrsCard update. The
	// session engine retries it once before surfacing.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrUnsupportedFormat aborts a snapshot import before any write.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
	// ErrStorageUnavailable is transient; callers may retry with backoff.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TranslateStorageError normalizes gorm and context errors into the taxonomy
// at the repository boundary. A nil error passes through.
func TranslateStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrStorageUnavailable
	default:
		return err
	}
}
