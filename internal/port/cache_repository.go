package port

import (
	"context"

	"github.com/nicezozad/railbook/internal/core/domain"
)

type CacheRepository interface {
	// ClaimRequest claims an idempotency key, returns false if already claimed
	ClaimRequest(ctx context.Context, requestID string) (bool, error)

	// GetAvailability reads the mirrored seat availability; found is false on
	// a cache miss
	GetAvailability(ctx context.Context, serviceID int64, carType domain.CarType) (available int, found bool, err error)

	// SetAvailability refreshes the mirror after a successful reservation
	SetAvailability(ctx context.Context, serviceID int64, carType domain.CarType, available int) error
}
