package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/exception"
)

// config for pricing provider
type ProviderConfig struct {
	BaseURL      string
	Timeout      time.Duration
	RateLimitRPS int
	Limiter      *redis_rate.Limiter
}

type Provider interface {
	Name() string
	Price(ctx context.Context, req dto.TripRequest) (dto.CostBreakdown, error)
}

var ErrProviderRateLimitExceeded = exception.ApplicationError{
	StatusCode: http.StatusTooManyRequests,
	Message:    "provider rate limit exceeded",
}

var ErrAllProvidersFailed = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "trip pricing is unavailable",
}

// Result reports which provider produced the breakdown and how many were tried.
type Result struct {
	Breakdown dto.CostBreakdown
	Provider  string
	Attempts  int
}

// Chain tries each provider in priority order, sequentially, one attempt per
// provider. First success wins; the fallback runs only when the path before it
// failed. The two backends are operationally independent, which is the whole
// point of keeping both paths.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Price(ctx context.Context, req dto.TripRequest) (Result, error) {
	var errs []error

	for i, provider := range c.providers {
		breakdown, err := provider.Price(ctx, req)
		if err != nil {
			slog.WarnContext(ctx, "pricing provider failed",
				slog.String("provider", provider.Name()),
				slog.String("error", err.Error()))

			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))

			continue
		}

		return Result{
			Breakdown: breakdown,
			Provider:  provider.Name(),
			Attempts:  i + 1,
		}, nil
	}

	return Result{Attempts: len(c.providers)}, exception.ApplicationError{
		StatusCode: ErrAllProvidersFailed.StatusCode,
		Message:    ErrAllProvidersFailed.Message,
		Cause:      errors.Join(errs...),
	}
}

// AllowRequest consumes one rate-limit token for the provider, shared across
// instances through Redis.
func AllowRequest(ctx context.Context, limiter *redis_rate.Limiter, name string, rps int) error {
	if limiter == nil || rps <= 0 {
		return nil
	}

	res, err := limiter.Allow(ctx, fmt.Sprintf("limit:%s", name), redis_rate.PerSecond(rps))
	if err != nil {
		return fmt.Errorf("failed to rate limit: %w", err)
	}

	if res.Allowed == 0 {
		return ErrProviderRateLimitExceeded
	}

	return nil
}
