//go:build unit

package dto

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTripRequest_Validate(t *testing.T) {
	// Initialize validator for tests
	_ = InitValidator()

	validateRequest := func(req TripRequest, wantErr bool, wantMsg string) func(t *testing.T) {
		return func(t *testing.T) {
			err := req.Validate()
			if (err != nil) != wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, wantErr)
			}

			if wantErr && err != nil {
				if diff := cmp.Diff(wantMsg, err.Error()); diff != "" {
					t.Fatalf("Validate() error message mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	validRequest := TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
		Travelers:   2,
	}

	t.Run("valid_request", validateRequest(validRequest, false, ""))

	t.Run("missing_destination", validateRequest(TripRequest{
		StartDate: "2024-06-15",
		EndDate:   "2024-06-22",
		Travelers: 2,
	}, true, "Missing Info"))

	t.Run("whitespace_destination", validateRequest(TripRequest{
		Destination: "   ",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
		Travelers:   2,
	}, true, "Missing Info"))

	t.Run("airport_selection_satisfies_destination", validateRequest(TripRequest{
		DestinationAirport: &Location{IATACode: "CDG", CityName: "Paris", CountryCode: "FR"},
		StartDate:          "2024-06-15",
		EndDate:            "2024-06-22",
		Travelers:          2,
	}, false, ""))

	t.Run("missing_start_date", validateRequest(TripRequest{
		Destination: "Paris",
		EndDate:     "2024-06-22",
		Travelers:   2,
	}, true, "Missing Dates"))

	t.Run("missing_end_date", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		Travelers:   2,
	}, true, "Missing Dates"))

	t.Run("end_equals_start", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-15",
		Travelers:   2,
	}, true, "Invalid Dates"))

	t.Run("end_before_start", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-22",
		EndDate:     "2024-06-15",
		Travelers:   2,
	}, true, "Invalid Dates"))

	t.Run("unparseable_date", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "June 15",
		EndDate:     "2024-06-22",
		Travelers:   2,
	}, true, "Invalid Dates"))

	t.Run("zero_travelers", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
	}, true, "Invalid Travelers"))

	t.Run("party_without_adult", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
		Travelers:   2,
		Party:       &Party{Adults: 0, Children: 2},
	}, true, "Invalid Travelers"))

	t.Run("missing_info_wins_over_missing_dates", validateRequest(TripRequest{
		Travelers: 2,
	}, true, "Missing Info"))

	t.Run("invalid_cabin_class", validateRequest(TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
		Travelers:   2,
		CabinClass:  "premium",
	}, true, "cabin_class must be one of [economy business first]"))
}

func TestNightsBetween(t *testing.T) {
	nightsRequest := func(startDate, endDate string, want int) func(t *testing.T) {
		return func(t *testing.T) {
			got := NightsBetween(startDate, endDate)
			if got != want {
				t.Fatalf("NightsBetween(%s, %s) = %d, want %d", startDate, endDate, got, want)
			}
		}
	}

	t.Run("one_week", nightsRequest("2024-06-15", "2024-06-22", 7))
	t.Run("single_night", nightsRequest("2024-06-15", "2024-06-16", 1))
	t.Run("unparseable_start", nightsRequest("June 15", "2024-06-22", 0))
	t.Run("unparseable_end", nightsRequest("2024-06-15", "", 0))
}

func TestSaveTripRequest_Validate(t *testing.T) {
	_ = InitValidator()

	validateRequest := func(req SaveTripRequest, wantErr bool, wantMsg string) func(t *testing.T) {
		return func(t *testing.T) {
			err := req.Validate()
			if (err != nil) != wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, wantErr)
			}

			if wantErr && err != nil {
				if diff := cmp.Diff(wantMsg, err.Error()); diff != "" {
					t.Fatalf("Validate() error message mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	request := TripRequest{
		Destination: "Paris",
		StartDate:   "2024-06-15",
		EndDate:     "2024-06-22",
		Travelers:   2,
	}

	t.Run("valid_save", validateRequest(SaveTripRequest{
		Request:   request,
		Breakdown: CostBreakdown{Total: 2450, Currency: "USD"},
	}, false, ""))

	t.Run("invalid_underlying_request", validateRequest(SaveTripRequest{
		Breakdown: CostBreakdown{Total: 2450},
	}, true, "Missing Info"))

	t.Run("negative_total", validateRequest(SaveTripRequest{
		Request:   request,
		Breakdown: CostBreakdown{Total: -1},
	}, true, "total must not be negative"))
}
