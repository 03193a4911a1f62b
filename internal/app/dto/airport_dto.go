package dto

import "time"

// AirportCandidate is immutable reference data from the airports table, queried
// by the typeahead and never mutated by this service.
type AirportCandidate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Code       string `json:"code"`
	IsMajor    bool   `json:"is_major"`
	Popularity int    `json:"popularity"`
}

// AirportSearchRequest carries the typeahead's partial query.
type AirportSearchRequest struct {
	Query string `json:"q"`
}

type AirportSearchResponse struct {
	Query      string             `json:"query"`
	Count      int                `json:"count"`
	Candidates []AirportCandidate `json:"candidates"`
}

// SearchHistoryEntry mirrors one row of the search_history table.
type SearchHistoryEntry struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type SearchHistoryResponse struct {
	Count   int                  `json:"count"`
	Entries []SearchHistoryEntry `json:"entries"`
}
