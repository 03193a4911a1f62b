package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
)

type EstimateCacher interface {
	SetEstimate(ctx context.Context, owner string, estimate dto.EstimateResponse, expiration time.Duration) error
	GetEstimate(ctx context.Context, owner string) (dto.EstimateResponse, error)
}

type Pricer interface {
	Price(ctx context.Context, req dto.TripRequest) (pricing.Result, error)
}

type PlannerService struct {
	Pricer             Pricer
	Cache              EstimateCacher
	EstimateExpiration time.Duration
}

func NewPlannerService(pricer Pricer, cache EstimateCacher, estimateExpiration time.Duration) *PlannerService {
	return &PlannerService{
		Pricer:             pricer,
		Cache:              cache,
		EstimateExpiration: estimateExpiration,
	}
}

// EstimateTripCost prices a validated request through the provider chain and
// keeps the result as the caller's last estimate. The request reaching this
// point has already passed validation, so every rejection here comes from the
// pricing paths themselves.
func (s *PlannerService) EstimateTripCost(ctx context.Context, req dto.TripRequest) (dto.EstimateResponse, error) {
	startTime := time.Now()

	result, err := s.Pricer.Price(ctx, req)
	if err != nil {
		return dto.EstimateResponse{}, fmt.Errorf("pricing chain: %w", err)
	}

	response := dto.EstimateResponse{
		Request:   req,
		Breakdown: result.Breakdown,
		Metadata: dto.EstimateMetadata{
			Provider:       result.Provider,
			ProvidersTried: result.Attempts,
			EstimateTimeMs: int(time.Since(startTime).Milliseconds()),
		},
	}

	owner := session.Owner(ctx)
	if owner != "" {
		if err := s.Cache.SetEstimate(ctx, owner, response, s.EstimateExpiration); err != nil {
			// the estimate is still good; the caller just loses /estimate/last
			slog.WarnContext(ctx, "failed to cache estimate",
				slog.String("owner", owner),
				slog.String("error", err.Error()))
		}
	}

	return response, nil
}

// LastEstimate returns the caller's most recent estimate until it expires or is
// superseded.
func (s *PlannerService) LastEstimate(ctx context.Context) (dto.EstimateResponse, error) {
	owner := session.Owner(ctx)
	if owner == "" {
		return dto.EstimateResponse{}, ErrNoEstimate
	}

	estimate, err := s.Cache.GetEstimate(ctx, owner)
	if err != nil {
		return dto.EstimateResponse{}, ErrNoEstimate
	}

	return estimate, nil
}
