package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
)

// Client talks to the managed backend over HTTPS: auth user lookup, PostgREST
// table access and serverless function invocation. Every call is scoped by the
// anon key plus, where present, the caller's access token so row-level security
// applies on the backend side.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AuthUser is the subset of the identity provider's user object this service
// needs.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GetUser resolves the access token to its user. An invalid or expired token is
// an error; callers translate that to the signed-out state.
func (c *Client) GetUser(ctx context.Context, accessToken string) (AuthUser, error) {
	var user AuthUser

	err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user, nil)
	if err != nil {
		return AuthUser{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// InvokeFunction calls a named serverless function and returns its raw response
// body so callers can persist it verbatim.
func (c *Client) InvokeFunction(ctx context.Context,
	accessToken, name string, payload interface{},
) (json.RawMessage, error) {
	var raw json.RawMessage

	path := "/functions/v1/" + url.PathEscape(name)

	if err := c.do(ctx, http.MethodPost, path, accessToken, payload, &raw, nil); err != nil {
		return nil, fmt.Errorf("invoke function %s: %w", name, err)
	}

	return raw, nil
}

// ListSavedTrips returns the user's trips, newest first.
func (c *Client) ListSavedTrips(ctx context.Context, accessToken, userID string) ([]dto.SavedTrip, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("user_id", "eq."+userID)
	params.Set("order", "created_at.desc")

	var trips []dto.SavedTrip

	err := c.do(ctx, http.MethodGet, "/rest/v1/saved_trips?"+params.Encode(), accessToken, nil, &trips, nil)
	if err != nil {
		return nil, fmt.Errorf("list saved trips: %w", err)
	}

	return trips, nil
}

// InsertSavedTrip stores one trip and returns the persisted record with the
// server-assigned id and creation time.
func (c *Client) InsertSavedTrip(ctx context.Context, accessToken string, trip dto.SavedTrip) (dto.SavedTrip, error) {
	var inserted []dto.SavedTrip

	headers := map[string]string{"Prefer": "return=representation"}

	err := c.do(ctx, http.MethodPost, "/rest/v1/saved_trips", accessToken, trip, &inserted, headers)
	if err != nil {
		return dto.SavedTrip{}, fmt.Errorf("insert saved trip: %w", err)
	}

	if len(inserted) == 0 {
		return dto.SavedTrip{}, fmt.Errorf("insert saved trip: empty representation")
	}

	return inserted[0], nil
}

func (c *Client) DeleteSavedTrip(ctx context.Context, accessToken, id string) error {
	params := url.Values{}
	params.Set("id", "eq."+id)

	err := c.do(ctx, http.MethodDelete, "/rest/v1/saved_trips?"+params.Encode(), accessToken, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("delete saved trip: %w", err)
	}

	return nil
}

// SearchAirports matches the query against airport name, city and code.
func (c *Client) SearchAirports(ctx context.Context, query string, limit int) ([]dto.AirportCandidate, error) {
	pattern := "*" + sanitizeQuery(query) + "*"

	params := url.Values{}
	params.Set("select", "*")
	params.Set("or", fmt.Sprintf("(name.ilike.%s,city.ilike.%s,code.ilike.%s)", pattern, pattern, pattern))
	params.Set("limit", strconv.Itoa(limit))

	var candidates []dto.AirportCandidate

	err := c.do(ctx, http.MethodGet, "/rest/v1/airports?"+params.Encode(), "", nil, &candidates, nil)
	if err != nil {
		return nil, fmt.Errorf("search airports: %w", err)
	}

	return candidates, nil
}

func (c *Client) InsertSearchHistory(ctx context.Context, accessToken string, entry dto.SearchHistoryEntry) error {
	headers := map[string]string{"Prefer": "return=minimal"}

	err := c.do(ctx, http.MethodPost, "/rest/v1/search_history", accessToken, entry, nil, headers)
	if err != nil {
		return fmt.Errorf("insert search history: %w", err)
	}

	return nil
}

func (c *Client) ListSearchHistory(ctx context.Context,
	accessToken, userID string, limit int,
) ([]dto.SearchHistoryEntry, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("user_id", "eq."+userID)
	params.Set("order", "created_at.desc")
	params.Set("limit", strconv.Itoa(limit))

	var entries []dto.SearchHistoryEntry

	err := c.do(ctx, http.MethodGet, "/rest/v1/search_history?"+params.Encode(), accessToken, nil, &entries, nil)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}

	return entries, nil
}

// do performs one request against the backend. A missing access token falls back
// to the anon key, which is how signed-out reads of public tables work.
func (c *Client) do(ctx context.Context,
	method, path, accessToken string,
	payload, out interface{},
	headers map[string]string,
) error {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	token := accessToken
	if token == "" {
		token = c.anonKey
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

// sanitizeQuery strips the characters PostgREST treats as filter syntax.
func sanitizeQuery(query string) string {
	return strings.NewReplacer(",", " ", "(", " ", ")", " ", ".", " ").Replace(query)
}
