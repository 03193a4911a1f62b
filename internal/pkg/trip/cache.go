package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
)

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache holds the transient per-owner state the screens read back: the last
// pricing estimate and the saved-trip list. Owner is a user id or, for
// signed-out callers, a device id.
type Cache struct {
	redis RedisClient
}

func NewCache(redis RedisClient) *Cache {
	return &Cache{
		redis: redis,
	}
}

func (c *Cache) EstimateKey(owner string) string {
	return fmt.Sprintf("trip:estimate:%s", owner)
}

func (c *Cache) ListKey(owner string) string {
	return fmt.Sprintf("trip:list:%s", owner)
}

func (c *Cache) SetEstimate(ctx context.Context,
	owner string,
	estimate dto.EstimateResponse,
	expiration time.Duration,
) error {
	data, err := json.Marshal(estimate)
	if err != nil {
		return fmt.Errorf("failed to marshal estimate: %w", err)
	}

	if err := c.redis.Set(ctx, c.EstimateKey(owner), data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set estimate: %w", err)
	}

	return nil
}

func (c *Cache) GetEstimate(ctx context.Context, owner string) (dto.EstimateResponse, error) {
	data, err := c.redis.Get(ctx, c.EstimateKey(owner)).Bytes()
	if err != nil {
		return dto.EstimateResponse{}, err
	}

	var estimate dto.EstimateResponse
	if err := json.Unmarshal(data, &estimate); err != nil {
		return dto.EstimateResponse{}, err
	}

	return estimate, nil
}

func (c *Cache) SetTripList(ctx context.Context,
	owner string,
	trips []dto.SavedTrip,
	expiration time.Duration,
) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return fmt.Errorf("failed to marshal trip list: %w", err)
	}

	if err := c.redis.Set(ctx, c.ListKey(owner), data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set trip list: %w", err)
	}

	return nil
}

func (c *Cache) GetTripList(ctx context.Context, owner string) ([]dto.SavedTrip, error) {
	data, err := c.redis.Get(ctx, c.ListKey(owner)).Bytes()
	if err != nil {
		return nil, err
	}

	var trips []dto.SavedTrip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, err
	}

	return trips, nil
}

// RemoveTrip splices one trip out of the cached list. This is the local half of
// the optimistic delete: it happens before, and regardless of, the remote call.
// A missing list is not an error; there is nothing to splice.
func (c *Cache) RemoveTrip(ctx context.Context,
	owner, tripID string,
	expiration time.Duration,
) error {
	trips, err := c.GetTripList(ctx, owner)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to get trip list: %w", err)
	}

	remaining := make([]dto.SavedTrip, 0, len(trips))

	for _, trip := range trips {
		if trip.ID == tripID {
			continue
		}

		remaining = append(remaining, trip)
	}

	return c.SetTripList(ctx, owner, remaining, expiration)
}

// PrependTrip puts a freshly saved trip at the head of the cached list so the
// next load shows it without waiting for a refetch.
func (c *Cache) PrependTrip(ctx context.Context,
	owner string,
	trip dto.SavedTrip,
	expiration time.Duration,
) error {
	trips, err := c.GetTripList(ctx, owner)
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to get trip list: %w", err)
	}

	return c.SetTripList(ctx, owner, append([]dto.SavedTrip{trip}, trips...), expiration)
}

func (c *Cache) InvalidateList(ctx context.Context, owner string) error {
	return c.redis.Del(ctx, c.ListKey(owner)).Err()
}
