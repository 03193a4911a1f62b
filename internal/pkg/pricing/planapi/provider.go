package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing"
)

const ProviderName = "PlanAPI"

// Provider is the primary pricing path: the shared website API's /plan endpoint.
type Provider struct {
	BaseURL      string
	Timeout      time.Duration
	Limiter      *redis_rate.Limiter
	RateLimitRPS int
	HTTPClient   *http.Client
}

func NewProvider(config pricing.ProviderConfig) *Provider {
	return &Provider{
		BaseURL:      config.BaseURL,
		Timeout:      config.Timeout,
		Limiter:      config.Limiter,
		RateLimitRPS: config.RateLimitRPS,
		HTTPClient:   &http.Client{},
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

// Price posts the trip parameters to the /plan endpoint. Any non-2xx response or
// parse error is a hard failure for this path; the chain decides what happens
// next.
func (p *Provider) Price(ctx context.Context, req dto.TripRequest) (dto.CostBreakdown, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if err := pricing.AllowRequest(ctx, p.Limiter, ProviderName, p.RateLimitRPS); err != nil {
		return dto.CostBreakdown{}, err
	}

	payload := planRequest{
		Destination: destinationText(req),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return dto.CostBreakdown{}, fmt.Errorf("failed to marshal plan request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/plan", bytes.NewReader(body))
	if err != nil {
		return dto.CostBreakdown{}, fmt.Errorf("failed to build plan request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return dto.CostBreakdown{}, fmt.Errorf("failed to call plan endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return dto.CostBreakdown{}, fmt.Errorf("plan endpoint returned status %d", resp.StatusCode)
	}

	var response planResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return dto.CostBreakdown{}, fmt.Errorf("failed to decode plan response: %w", err)
	}

	return p.breakdownToDTO(response, req), nil
}

func (p *Provider) breakdownToDTO(response planResponse, req dto.TripRequest) dto.CostBreakdown {
	breakdown := dto.CostBreakdown{
		Flights:       response.Flights,
		Accommodation: response.Accommodation,
		Transport:     response.Transport,
		Food:          response.Food,
		Activities:    response.Activities,
		Total:         response.Total,
		Currency:      response.Currency,
		Nights:        response.Nights,
		Days:          response.Days,
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

func destinationText(req dto.TripRequest) string {
	if req.DestinationAirport != nil && req.DestinationAirport.CityName != "" {
		return req.DestinationAirport.CityName
	}

	return req.Destination
}
