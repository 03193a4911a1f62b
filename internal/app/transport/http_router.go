package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/bestravelplan/trip-planning-service/internal/app/config"
	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/app/endpoints"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/exception"
	httptransport "github.com/bestravelplan/trip-planning-service/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
	resolve httptransport.UserResolver,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.DeviceID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			httptransport.Authenticate(resolve),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/trips/estimate", httptransport.MakeHandlerFunc(
			endpts.Planner.EstimateTripCost,
			httptransport.DecodeRequest[dto.TripRequest],
			httptransport.ResponseWithBody,
		))

		router.Get("/trips/estimate/last", httptransport.MakeHandlerFunc(
			endpts.Planner.LastEstimate,
			httptransport.NopRequest,
			httptransport.ResponseWithBody,
		))

		router.Get("/trips", httptransport.MakeHandlerFunc(
			endpts.Trips.ListTrips,
			httptransport.NopRequest,
			httptransport.ResponseWithBody,
		))

		router.Post("/trips", httptransport.MakeHandlerFunc(
			endpts.Trips.SaveTrip,
			httptransport.DecodeRequest[dto.SaveTripRequest],
			httptransport.CreatedResponseWithBody,
		))

		router.Delete("/trips/{tripID}", httptransport.MakeHandlerFunc(
			endpts.Trips.DeleteTrip,
			decodeDeleteTripRequest,
			httptransport.NoContentResponse,
		))

		router.Get("/airports/search", httptransport.MakeHandlerFunc(
			endpts.Airport.SearchAirports,
			decodeAirportSearchRequest,
			httptransport.ResponseWithBody,
		))

		router.Get("/search-history", httptransport.MakeHandlerFunc(
			endpts.Airport.SearchHistory,
			httptransport.NopRequest,
			httptransport.ResponseWithBody,
		))
	})

	return router
}

func decodeDeleteTripRequest(_ context.Context, req *http.Request) (interface{}, error) {
	tripID := chi.URLParam(req, "tripID")
	if tripID == "" {
		return nil, exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    "missing trip id",
		}
	}

	return &dto.DeleteTripRequest{ID: tripID}, nil
}

func decodeAirportSearchRequest(_ context.Context, req *http.Request) (interface{}, error) {
	return &dto.AirportSearchRequest{Query: req.URL.Query().Get("q")}, nil
}
