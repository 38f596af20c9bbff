package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

const defaultStoreTimeout = 2 * time.Second

// storeContext bounds a single store call.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// storeFailure wraps an unexpected store error, including deadline expiry, as a server error.
func storeFailure(op string, err error) error {
	return apperrors.NewInternalError(fmt.Errorf("%s: %w", op, err))
}
