package edgefn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
)

const ProviderName = "DynamicPricing"

// FunctionInvoker is satisfied by the backend client.
type FunctionInvoker interface {
	InvokeFunction(ctx context.Context, accessToken, name string, payload interface{}) (json.RawMessage, error)
}

// Provider is the fallback pricing path: the get-dynamic-pricing serverless
// function on the managed backend. Its response is an opaque trip plan that is
// kept verbatim so a later save persists exactly what the backend produced.
type Provider struct {
	FunctionName string
	Timeout      time.Duration
	Limiter      *redis_rate.Limiter
	RateLimitRPS int
	Invoker      FunctionInvoker
}

func NewProvider(invoker FunctionInvoker, functionName string, config pricing.ProviderConfig) *Provider {
	return &Provider{
		FunctionName: functionName,
		Timeout:      config.Timeout,
		Limiter:      config.Limiter,
		RateLimitRPS: config.RateLimitRPS,
		Invoker:      invoker,
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Price(ctx context.Context, req dto.TripRequest) (dto.CostBreakdown, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if err := pricing.AllowRequest(ctx, p.Limiter, ProviderName, p.RateLimitRPS); err != nil {
		return dto.CostBreakdown{}, err
	}

	var accessToken string
	if s, ok := session.FromContext(ctx); ok {
		accessToken = s.AccessToken
	}

	raw, err := p.Invoker.InvokeFunction(ctx, accessToken, p.FunctionName, requestToPayload(req))
	if err != nil {
		return dto.CostBreakdown{}, fmt.Errorf("failed to invoke %s: %w", p.FunctionName, err)
	}

	var response tripPlanResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return dto.CostBreakdown{}, fmt.Errorf("failed to unmarshal %s response: %w", p.FunctionName, err)
	}

	return p.planToDTO(response, raw, req), nil
}

func (p *Provider) planToDTO(response tripPlanResponse, raw json.RawMessage, req dto.TripRequest) dto.CostBreakdown {
	breakdown := dto.CostBreakdown{
		Flights:       response.CostBreakdown.Flights,
		Accommodation: response.CostBreakdown.Accommodation,
		Transport:     response.CostBreakdown.Transport,
		Food:          response.CostBreakdown.Food,
		Activities:    response.CostBreakdown.Activities,
		Total:         response.TotalCost,
		Currency:      response.Currency,
		Nights:        response.Nights,
		Days:          response.Days,
		Plan:          raw,
	}

	if breakdown.Total == 0 {
		breakdown.Total = breakdown.Flights + breakdown.Accommodation +
			breakdown.Transport + breakdown.Food + breakdown.Activities
	}

	if breakdown.Currency == "" {
		breakdown.Currency = "USD"
	}

	if breakdown.Nights == 0 {
		breakdown.Nights = req.Nights()
	}

	if breakdown.Days == 0 {
		breakdown.Days = breakdown.Nights + 1
	}

	return breakdown
}

func requestToPayload(req dto.TripRequest) tripPlanRequest {
	payload := tripPlanRequest{
		DestinationCity:  destinationCity(req),
		DepartureDate:    req.StartDate,
		ReturnDate:       req.EndDate,
		FlightClass:      req.CabinClass,
		IncludeCarRental: req.Inclusions.CarRental,
		IncludeHotel:     req.Inclusions.Hotel,
	}

	if payload.FlightClass == "" {
		payload.FlightClass = "economy"
	}

	if req.Party != nil {
		payload.Passengers = passengers{
			Adults:   req.Party.Adults,
			Children: req.Party.Children,
			Infants:  req.Party.Infants,
		}
	} else {
		payload.Passengers = passengers{Adults: req.Travelers}
	}

	if req.DepartureAirport != nil {
		payload.DepartureCity = req.DepartureAirport.CityName
		payload.DepartureLocation = &location{
			IATACode:    req.DepartureAirport.IATACode,
			CityName:    req.DepartureAirport.CityName,
			CountryCode: req.DepartureAirport.CountryCode,
		}
	}

	if req.DestinationAirport != nil {
		payload.DestinationLocation = &location{
			IATACode:    req.DestinationAirport.IATACode,
			CityName:    req.DestinationAirport.CityName,
			CountryCode: req.DestinationAirport.CountryCode,
		}
	}

	return payload
}

func destinationCity(req dto.TripRequest) string {
	if req.DestinationAirport != nil && req.DestinationAirport.CityName != "" {
		return req.DestinationAirport.CityName
	}

	return req.Destination
}
