package edgefn

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
)

type fakeInvoker struct {
	gotToken   string
	gotName    string
	gotPayload tripPlanRequest
	response   json.RawMessage
	err        error
}

func (f *fakeInvoker) InvokeFunction(_ context.Context, accessToken, name string, payload interface{}) (json.RawMessage, error) {
	f.gotToken = accessToken
	f.gotName = name
	f.gotPayload = payload.(tripPlanRequest)

	return f.response, f.err
}

func TestProvider_Price(t *testing.T) {
	request := dto.TripRequest{
		Destination: "Tokyo",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
		Travelers:   2,
		Inclusions:  dto.Inclusions{Hotel: true},
	}

	planBody := json.RawMessage(`{
		"destination": "Tokyo",
		"costBreakdown": {"flights": 1200, "accommodation": 900, "transport": 120, "food": 280, "activities": 200},
		"totalCost": 2700,
		"currency": "USD",
		"nights": 7,
		"days": 8,
		"itinerary": [{"day": 1, "activities": ["arrival"]}]
	}`)

	t.Run("success_keeps_plan_verbatim", func(t *testing.T) {
		invoker := &fakeInvoker{response: planBody}
		provider := NewProvider(invoker, "get-dynamic-pricing", pricing.ProviderConfig{})

		breakdown, err := provider.Price(context.Background(), request)
		if err != nil {
			t.Fatalf("Price() error = %v", err)
		}

		if invoker.gotName != "get-dynamic-pricing" {
			t.Fatalf("function name = %q, want get-dynamic-pricing", invoker.gotName)
		}

		want := dto.CostBreakdown{
			Flights:       1200,
			Accommodation: 900,
			Transport:     120,
			Food:          280,
			Activities:    200,
			Total:         2700,
			Currency:      "USD",
			Nights:        7,
			Days:          8,
			Plan:          planBody,
		}
		if diff := cmp.Diff(want, breakdown); diff != "" {
			t.Fatalf("Price() breakdown mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("payload_carries_trip_parameters", func(t *testing.T) {
		invoker := &fakeInvoker{response: planBody}
		provider := NewProvider(invoker, "get-dynamic-pricing", pricing.ProviderConfig{})

		fullRequest := request
		fullRequest.CabinClass = "business"
		fullRequest.Party = &dto.Party{Adults: 2, Children: 1}
		fullRequest.DepartureAirport = &dto.Location{IATACode: "JFK", CityName: "New York", CountryCode: "US"}
		fullRequest.DestinationAirport = &dto.Location{IATACode: "HND", CityName: "Tokyo", CountryCode: "JP"}

		if _, err := provider.Price(context.Background(), fullRequest); err != nil {
			t.Fatalf("Price() error = %v", err)
		}

		want := tripPlanRequest{
			DepartureCity:       "New York",
			DestinationCity:     "Tokyo",
			DepartureLocation:   &location{IATACode: "JFK", CityName: "New York", CountryCode: "US"},
			DestinationLocation: &location{IATACode: "HND", CityName: "Tokyo", CountryCode: "JP"},
			DepartureDate:       "2024-06-15",
			ReturnDate:          "2024-06-22",
			Passengers:          passengers{Adults: 2, Children: 1},
			FlightClass:         "business",
			IncludeHotel:        true,
		}
		if diff := cmp.Diff(want, invoker.gotPayload); diff != "" {
			t.Fatalf("payload mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("passengers_default_to_traveler_count", func(t *testing.T) {
		invoker := &fakeInvoker{response: planBody}
		provider := NewProvider(invoker, "get-dynamic-pricing", pricing.ProviderConfig{})

		if _, err := provider.Price(context.Background(), request); err != nil {
			t.Fatalf("Price() error = %v", err)
		}

		if invoker.gotPayload.Passengers.Adults != 2 {
			t.Fatalf("adults = %d, want 2", invoker.gotPayload.Passengers.Adults)
		}

		if invoker.gotPayload.FlightClass != "economy" {
			t.Fatalf("flight class = %q, want economy", invoker.gotPayload.FlightClass)
		}
	})

	t.Run("session_token_is_forwarded", func(t *testing.T) {
		invoker := &fakeInvoker{response: planBody}
		provider := NewProvider(invoker, "get-dynamic-pricing", pricing.ProviderConfig{})

		ctx := session.WithSession(context.Background(), session.Session{
			User:        session.User{ID: "user-1"},
			AccessToken: "jwt-token",
		})

		if _, err := provider.Price(ctx, request); err != nil {
			t.Fatalf("Price() error = %v", err)
		}

		if invoker.gotToken != "jwt-token" {
			t.Fatalf("access token = %q, want jwt-token", invoker.gotToken)
		}
	})

	t.Run("total_summed_when_missing", func(t *testing.T) {
		invoker := &fakeInvoker{response: json.RawMessage(`{
			"costBreakdown": {"flights": 100, "accommodation": 200, "transport": 30, "food": 40, "activities": 50}
		}`)}
		provider := NewProvider(invoker, "get-dynamic-pricing", pricing.ProviderConfig{})

		breakdown, err := provider.Price(context.Background(), request)
		if err != nil {
			t.Fatalf("Price() error = %v", err)
		}

		if breakdown.Total != 420 {
			t.Fatalf("Total = %v, want 420", breakdown.Total)
		}

		if breakdown.Currency != "USD" || breakdown.Nights != 7 || breakdown.Days != 8 {
			t.Fatalf("defaults not applied: %+v", breakdown)
		}
	})

	t.Run("invocation_failure", func(t *testing.T) {
		invoker := &fakeInvoker{err: errors.New("function returned status 500")}
		provider := NewProvider(invoker, "get-dynamic-pricing", pricing.ProviderConfig{})

		if _, err := provider.Price(context.Background(), request); err == nil {
			t.Fatal("Price() expected error, got nil")
		}
	})
}
