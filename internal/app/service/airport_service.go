package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/airport"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
)

const (
	// queries shorter than this never touch the backend
	minQueryLength = 2
	// fetch more than the display cap so ranking has something to reorder
	fetchLimit   = 50
	historyLimit = 20
)

type AirportDirectory interface {
	SearchAirports(ctx context.Context, query string, limit int) ([]dto.AirportCandidate, error)
	InsertSearchHistory(ctx context.Context, accessToken string, entry dto.SearchHistoryEntry) error
	ListSearchHistory(ctx context.Context, accessToken, userID string, limit int) ([]dto.SearchHistoryEntry, error)
}

type AirportService struct {
	Directory AirportDirectory
}

func NewAirportService(directory AirportDirectory) *AirportService {
	return &AirportService{
		Directory: directory,
	}
}

// SearchAirports returns ranked candidates for a partial query: major airports
// first, capped for the typeahead dropdown. Signed-in searches are recorded to
// the user's history, best effort.
func (s *AirportService) SearchAirports(ctx context.Context, query string) (dto.AirportSearchResponse, error) {
	query = strings.TrimSpace(query)

	if len([]rune(query)) < minQueryLength {
		return dto.AirportSearchResponse{
			Query:      query,
			Candidates: []dto.AirportCandidate{},
		}, nil
	}

	candidates, err := s.Directory.SearchAirports(ctx, query, fetchLimit)
	if err != nil {
		return dto.AirportSearchResponse{}, fmt.Errorf("failed to search airports: %w", err)
	}

	ranked := airport.RankCandidates(candidates, airport.MaxResults)

	if sess, ok := session.FromContext(ctx); ok {
		entry := dto.SearchHistoryEntry{
			UserID:      sess.User.ID,
			Destination: query,
		}

		if err := s.Directory.InsertSearchHistory(ctx, sess.AccessToken, entry); err != nil {
			slog.WarnContext(ctx, "failed to record search history",
				slog.String("query", query),
				slog.String("error", err.Error()))
		}
	}

	return dto.AirportSearchResponse{
		Query:      query,
		Count:      len(ranked),
		Candidates: ranked,
	}, nil
}

// SearchHistory lists the session user's recent searches, newest first. Like the
// trip list, a signed-out caller gets an empty result rather than an error.
func (s *AirportService) SearchHistory(ctx context.Context) (dto.SearchHistoryResponse, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return dto.SearchHistoryResponse{
			Entries: []dto.SearchHistoryEntry{},
		}, nil
	}

	entries, err := s.Directory.ListSearchHistory(ctx, sess.AccessToken, sess.User.ID, historyLimit)
	if err != nil {
		return dto.SearchHistoryResponse{}, fmt.Errorf("failed to list search history: %w", err)
	}

	return dto.SearchHistoryResponse{
		Count:   len(entries),
		Entries: entries,
	}, nil
}
