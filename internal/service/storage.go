package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"gorm.io/gorm"
)

const defaultStorageTimeout = 5 * time.Second

// storage bounds every repository call of an operation by one deadline.
type storage struct {
	timeout time.Duration
}

func newStorage(timeout time.Duration) storage {
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	return storage{timeout: timeout}
}

func (s storage) context(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// translateStorageError maps gorm and driver failures onto the domain error
// kinds. Errors that already carry a kind pass through untouched.
func translateStorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrStorageUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: %w", domain.ErrConflict, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
	}
}
