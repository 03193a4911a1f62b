package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bestravelplan/trip-planning-service/internal/pkg/exception"
)

// DateLayout is the wire format for all trip dates.
const DateLayout = "2006-01-02"

// Field-level validation failures surfaced before any network call is made.
var (
	ErrMissingInfo = exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    "Missing Info",
	}
	ErrMissingDates = exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    "Missing Dates",
	}
	ErrInvalidDates = exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid Dates",
	}
	ErrInvalidTravelers = exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid Travelers",
	}
)

// Location is a structured airport selection from the typeahead. When present it
// replaces the free-text destination for the richer pricing path.
type Location struct {
	IATACode    string `json:"iata_code"`
	CityName    string `json:"city_name"`
	CountryCode string `json:"country_code"`
}

type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children" validate:"gte=0"`
	Infants  int `json:"infants" validate:"gte=0"`
}

type Inclusions struct {
	Hotel     bool `json:"hotel"`
	CarRental bool `json:"car_rental"`
}

// TripRequest is the normalized set of trip parameters submitted for pricing.
type TripRequest struct {
	Destination        string     `json:"destination"`
	DepartureAirport   *Location  `json:"departure_airport,omitempty"`
	DestinationAirport *Location  `json:"destination_airport,omitempty"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	Travelers          int        `json:"travelers"`
	CabinClass         string     `json:"cabin_class,omitempty" validate:"omitempty,oneof=economy business first"`
	Party              *Party     `json:"party,omitempty"`
	Inclusions         Inclusions `json:"inclusions"`
}

func (t *TripRequest) Bind(r *http.Request) error {
	return t.Validate()
}

// Validate runs the field checks in submission order. The first failure wins so
// the caller always gets a single, specific message.
func (t *TripRequest) Validate() error {
	t.Destination = strings.TrimSpace(t.Destination)

	if t.Destination == "" && t.DestinationAirport == nil {
		return ErrMissingInfo
	}

	if t.StartDate == "" || t.EndDate == "" {
		return ErrMissingDates
	}

	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return ErrInvalidDates
	}

	end, err := time.Parse(DateLayout, t.EndDate)
	if err != nil {
		return ErrInvalidDates
	}

	if !end.After(start) {
		return ErrInvalidDates
	}

	if t.Travelers < 1 {
		return ErrInvalidTravelers
	}

	if t.Party != nil && t.Party.Adults < 1 {
		return ErrInvalidTravelers
	}

	if err := ValidateSingleError(t); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// Nights derives the whole-day span of a validated request.
func (t *TripRequest) Nights() int {
	return NightsBetween(t.StartDate, t.EndDate)
}

// NightsBetween returns the number of whole days from start to end, zero when
// either date does not parse.
func NightsBetween(startDate, endDate string) int {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return 0
	}

	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return 0
	}

	return int(end.Sub(start).Hours() / 24)
}

// CostBreakdown is the structured estimate returned by a pricing provider. The
// total comes from the provider and is not re-verified against the components.
// Plan carries the fallback provider's full response verbatim for persistence.
type CostBreakdown struct {
	Flights       float64         `json:"flights"`
	Accommodation float64         `json:"accommodation"`
	Transport     float64         `json:"transport"`
	Food          float64         `json:"food"`
	Activities    float64         `json:"activities"`
	Total         float64         `json:"total"`
	Currency      string          `json:"currency"`
	Nights        int             `json:"nights"`
	Days          int             `json:"days"`
	Plan          json.RawMessage `json:"plan,omitempty"`
}

type EstimateMetadata struct {
	Provider       string `json:"provider"`
	ProvidersTried int    `json:"providers_tried"`
	EstimateTimeMs int    `json:"estimate_time_ms"`
}

// EstimateResponse is the response struct for the trip estimate endpoint.
type EstimateResponse struct {
	Request   TripRequest      `json:"request"`
	Breakdown CostBreakdown    `json:"breakdown"`
	Metadata  EstimateMetadata `json:"metadata"`
}

// SavedTrip mirrors one row of the saved_trips table on the managed backend.
type SavedTrip struct {
	ID            string          `json:"id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	Destination   string          `json:"destination"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Travelers     int             `json:"travelers"`
	TotalCost     float64         `json:"total_cost"`
	CostBreakdown json.RawMessage `json:"cost_breakdown,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
}

// SaveTripRequest pairs the originating request with the estimate being saved.
type SaveTripRequest struct {
	Request   TripRequest   `json:"request"`
	Breakdown CostBreakdown `json:"breakdown"`
}

func (s *SaveTripRequest) Bind(r *http.Request) error {
	return s.Validate()
}

func (s *SaveTripRequest) Validate() error {
	if err := s.Request.Validate(); err != nil {
		return err
	}

	if s.Breakdown.Total < 0 {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    "total must not be negative",
		}
	}

	return nil
}

type DeleteTripRequest struct {
	ID string `json:"id"`
}

// SavedTripView decorates a stored trip with the derived fields the list screen
// shows: night count and a formatted total.
type SavedTripView struct {
	SavedTrip
	Nights         int    `json:"nights"`
	TotalFormatted string `json:"total_formatted"`
}

type TripListResponse struct {
	SignedIn bool            `json:"signed_in"`
	Count    int             `json:"count"`
	Trips    []SavedTripView `json:"trips"`
}
