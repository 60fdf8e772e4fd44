package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nicezozad/railbook/internal/core/domain"
)

const (
	availabilityKeyPrefix = "avail:"
	bookingKeyPrefix      = "booking:req:"
	bookingKeyTTL         = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ClaimRequest(ctx context.Context, requestID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, bookingKeyPrefix+requestID, 1, bookingKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func availabilityKey(serviceID int64, carType domain.CarType) string {
	return fmt.Sprintf("%s%d:%s", availabilityKeyPrefix, serviceID, carType)
}

func (r *RedisAdapter) GetAvailability(ctx context.Context, serviceID int64, carType domain.CarType) (int, bool, error) {
	available, err := r.client.Get(ctx, availabilityKey(serviceID, carType)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return available, true, nil
}

func (r *RedisAdapter) SetAvailability(ctx context.Context, serviceID int64, carType domain.CarType, available int) error {
	return r.client.Set(ctx, availabilityKey(serviceID, carType), available, 0).Err()
}
