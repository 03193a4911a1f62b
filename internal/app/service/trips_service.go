package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/utils"
)

type TripStore interface {
	ListSavedTrips(ctx context.Context, accessToken, userID string) ([]dto.SavedTrip, error)
	InsertSavedTrip(ctx context.Context, accessToken string, trip dto.SavedTrip) (dto.SavedTrip, error)
	DeleteSavedTrip(ctx context.Context, accessToken, id string) error
}

type ListCacher interface {
	GetTripList(ctx context.Context, owner string) ([]dto.SavedTrip, error)
	SetTripList(ctx context.Context, owner string, trips []dto.SavedTrip, expiration time.Duration) error
	RemoveTrip(ctx context.Context, owner, tripID string, expiration time.Duration) error
	PrependTrip(ctx context.Context, owner string, trip dto.SavedTrip, expiration time.Duration) error
}

type TripsService struct {
	Store          TripStore
	Cache          ListCacher
	ListExpiration time.Duration
}

func NewTripsService(store TripStore, cache ListCacher, listExpiration time.Duration) *TripsService {
	return &TripsService{
		Store:          store,
		Cache:          cache,
		ListExpiration: listExpiration,
	}
}

// ListTrips returns the session user's saved trips, newest first. A signed-out
// caller gets the signed-out state, never an error. The remote list is
// authoritative; the cache mirrors it so the optimistic operations have
// something local to mutate, and serves as fallback when the backend is
// unreachable.
func (s *TripsService) ListTrips(ctx context.Context) (dto.TripListResponse, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return dto.TripListResponse{
			SignedIn: false,
			Trips:    []dto.SavedTripView{},
		}, nil
	}

	trips, err := s.Store.ListSavedTrips(ctx, sess.AccessToken, sess.User.ID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load trips from backend, trying cache",
			slog.String("error", err.Error()))

		trips, err = s.Cache.GetTripList(ctx, sess.User.ID)
		if err != nil {
			return dto.TripListResponse{}, fmt.Errorf("failed to load saved trips: %w", err)
		}
	} else if err := s.Cache.SetTripList(ctx, sess.User.ID, trips, s.ListExpiration); err != nil {
		slog.WarnContext(ctx, "failed to cache trip list", slog.String("error", err.Error()))
	}

	views := make([]dto.SavedTripView, len(trips))
	for i, trip := range trips {
		views[i] = tripToView(trip)
	}

	return dto.TripListResponse{
		SignedIn: true,
		Count:    len(views),
		Trips:    views,
	}, nil
}

// SaveTrip inserts one record attributed to the session user. The persisted
// total is the breakdown's total, untouched.
func (s *TripsService) SaveTrip(ctx context.Context, req dto.SaveTripRequest) (dto.SavedTripView, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return dto.SavedTripView{}, ErrAuthRequired
	}

	snapshot, err := json.Marshal(req.Breakdown)
	if err != nil {
		return dto.SavedTripView{}, fmt.Errorf("failed to marshal cost breakdown: %w", err)
	}

	trip := dto.SavedTrip{
		UserID:        sess.User.ID,
		Destination:   destinationText(req.Request),
		StartDate:     req.Request.StartDate,
		EndDate:       req.Request.EndDate,
		Travelers:     req.Request.Travelers,
		TotalCost:     req.Breakdown.Total,
		CostBreakdown: snapshot,
	}

	inserted, err := s.Store.InsertSavedTrip(ctx, sess.AccessToken, trip)
	if err != nil {
		return dto.SavedTripView{}, fmt.Errorf("failed to save trip: %w", err)
	}

	if err := s.Cache.PrependTrip(ctx, sess.User.ID, inserted, s.ListExpiration); err != nil {
		slog.WarnContext(ctx, "failed to cache saved trip", slog.String("error", err.Error()))
	}

	return tripToView(inserted), nil
}

// DeleteTrip removes the trip from the local list immediately, then issues the
// remote delete. A remote failure is logged and the optimistic removal stands;
// the next full load resolves the divergence toward the backend.
func (s *TripsService) DeleteTrip(ctx context.Context, tripID string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return ErrAuthRequired
	}

	if err := s.Cache.RemoveTrip(ctx, sess.User.ID, tripID, s.ListExpiration); err != nil {
		slog.WarnContext(ctx, "failed to splice cached trip list",
			slog.String("trip_id", tripID),
			slog.String("error", err.Error()))
	}

	if err := s.Store.DeleteSavedTrip(ctx, sess.AccessToken, tripID); err != nil {
		slog.WarnContext(ctx, "remote delete failed, keeping optimistic removal",
			slog.String("trip_id", tripID),
			slog.String("error", err.Error()))
	}

	return nil
}

func tripToView(trip dto.SavedTrip) dto.SavedTripView {
	return dto.SavedTripView{
		SavedTrip:      trip,
		Nights:         dto.NightsBetween(trip.StartDate, trip.EndDate),
		TotalFormatted: utils.FormatUSD(trip.TotalCost),
	}
}

func destinationText(req dto.TripRequest) string {
	if req.DestinationAirport != nil && req.DestinationAirport.CityName != "" {
		return req.DestinationAirport.CityName
	}

	return req.Destination
}
