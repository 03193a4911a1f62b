package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
)

type PlannerService interface {
	EstimateTripCost(ctx context.Context, req dto.TripRequest) (dto.EstimateResponse, error)
	LastEstimate(ctx context.Context) (dto.EstimateResponse, error)
}

type TripsService interface {
	ListTrips(ctx context.Context) (dto.TripListResponse, error)
	SaveTrip(ctx context.Context, req dto.SaveTripRequest) (dto.SavedTripView, error)
	DeleteTrip(ctx context.Context, tripID string) error
}

type AirportService interface {
	SearchAirports(ctx context.Context, query string) (dto.AirportSearchResponse, error)
	SearchHistory(ctx context.Context) (dto.SearchHistoryResponse, error)
}

type Endpoints struct {
	Planner PlannerEndpoint
	Trips   TripsEndpoint
	Airport AirportEndpoint
}

type PlannerEndpoint struct {
	EstimateTripCost endpoint.Endpoint
	LastEstimate     endpoint.Endpoint
}

type TripsEndpoint struct {
	ListTrips  endpoint.Endpoint
	SaveTrip   endpoint.Endpoint
	DeleteTrip endpoint.Endpoint
}

type AirportEndpoint struct {
	SearchAirports endpoint.Endpoint
	SearchHistory  endpoint.Endpoint
}

func MakePlannerEndpoint(service PlannerService) PlannerEndpoint {
	return PlannerEndpoint{
		EstimateTripCost: makeEstimateTripCostEndpoint(service),
		LastEstimate:     makeLastEstimateEndpoint(service),
	}
}

func MakeTripsEndpoint(service TripsService) TripsEndpoint {
	return TripsEndpoint{
		ListTrips:  makeListTripsEndpoint(service),
		SaveTrip:   makeSaveTripEndpoint(service),
		DeleteTrip: makeDeleteTripEndpoint(service),
	}
}

func MakeAirportEndpoint(service AirportService) AirportEndpoint {
	return AirportEndpoint{
		SearchAirports: makeSearchAirportsEndpoint(service),
		SearchHistory:  makeSearchHistoryEndpoint(service),
	}
}

func makeEstimateTripCostEndpoint(service PlannerService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.TripRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		estimate, err := service.EstimateTripCost(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("planner service: %w", err)
		}

		return estimate, nil
	}
}

func makeLastEstimateEndpoint(service PlannerService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		estimate, err := service.LastEstimate(ctx)
		if err != nil {
			return nil, fmt.Errorf("planner service: %w", err)
		}

		return estimate, nil
	}
}

func makeListTripsEndpoint(service TripsService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		trips, err := service.ListTrips(ctx)
		if err != nil {
			return nil, fmt.Errorf("trips service: %w", err)
		}

		return trips, nil
	}
}

func makeSaveTripEndpoint(service TripsService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SaveTripRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		trip, err := service.SaveTrip(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("trips service: %w", err)
		}

		return trip, nil
	}
}

func makeDeleteTripEndpoint(service TripsService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.DeleteTripRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		if err := service.DeleteTrip(ctx, request.ID); err != nil {
			return nil, fmt.Errorf("trips service: %w", err)
		}

		return nil, nil
	}
}

func makeSearchAirportsEndpoint(service AirportService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.AirportSearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		candidates, err := service.SearchAirports(ctx, request.Query)
		if err != nil {
			return nil, fmt.Errorf("airport service: %w", err)
		}

		return candidates, nil
	}
}

func makeSearchHistoryEndpoint(service AirportService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		history, err := service.SearchHistory(ctx)
		if err != nil {
			return nil, fmt.Errorf("airport service: %w", err)
		}

		return history, nil
	}
}
