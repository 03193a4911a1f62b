package typeahead

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
)

const (
	DefaultInterval       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultMaxResults     = 8
)

// SearchFunc performs the actual candidate lookup for a query.
type SearchFunc func(ctx context.Context, query string) ([]dto.AirportCandidate, error)

type Option func(*Searcher)

func WithInterval(interval time.Duration) Option {
	return func(s *Searcher) { s.interval = interval }
}

func WithMinQueryLength(length int) Option {
	return func(s *Searcher) { s.minQueryLength = length }
}

func WithMaxResults(limit int) Option {
	return func(s *Searcher) { s.maxResults = limit }
}

// WithOnResults registers a callback invoked whenever the visible result set
// changes. The callback runs off the caller's goroutine once the debounce
// window fires.
func WithOnResults(callback func(query string, results []dto.AirportCandidate)) Option {
	return func(s *Searcher) { s.onResults = callback }
}

// Searcher turns a stream of keystrokes into at most one lookup per quiet
// period. Each new keystroke cancels the pending (not yet fired) timer, and a
// sequence number makes sure a slow response for an old query can never
// overwrite the results of a newer one: last write wins on the visible set.
//
// An already-dispatched lookup is not cancelled; its response is simply
// discarded when it comes back superseded.
type Searcher struct {
	mu             sync.Mutex
	search         SearchFunc
	interval       time.Duration
	minQueryLength int
	maxResults     int
	onResults      func(query string, results []dto.AirportCandidate)

	timer    *time.Timer
	seq      uint64
	results  []dto.AirportCandidate
	selected *dto.AirportCandidate
}

func NewSearcher(search SearchFunc, opts ...Option) *Searcher {
	s := &Searcher{
		search:         search,
		interval:       DefaultInterval,
		minQueryLength: DefaultMinQueryLength,
		maxResults:     DefaultMaxResults,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Input records one keystroke. Queries below the minimum length never dispatch
// a lookup and clear the visible results immediately.
func (s *Searcher) Input(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.seq++
	seq := s.seq

	if len([]rune(query)) < s.minQueryLength {
		s.results = nil
		notify := s.onResults
		s.mu.Unlock()

		if notify != nil {
			notify(query, nil)
		}

		return
	}

	s.timer = time.AfterFunc(s.interval, func() {
		s.dispatch(ctx, query, seq)
	})

	s.mu.Unlock()
}

func (s *Searcher) dispatch(ctx context.Context, query string, seq uint64) {
	results, err := s.search(ctx, query)

	s.mu.Lock()

	// a newer keystroke arrived while this lookup was in flight
	if seq != s.seq {
		s.mu.Unlock()

		return
	}

	if err != nil {
		s.mu.Unlock()
		slog.WarnContext(ctx, "typeahead search failed",
			slog.String("query", query),
			slog.String("error", err.Error()))

		return
	}

	if s.maxResults > 0 && len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	s.results = results
	notify := s.onResults
	s.mu.Unlock()

	if notify != nil {
		notify(query, results)
	}
}

// Results returns the current visible result set.
func (s *Searcher) Results() []dto.AirportCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.results
}

// Select replaces the free-text query with a structured selection and drops any
// pending lookup.
func (s *Searcher) Select(candidate dto.AirportCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.seq++
	s.selected = &candidate
	s.results = nil
}

// ClearSelection returns the field to free-text mode.
func (s *Searcher) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
}

func (s *Searcher) Selection() (dto.AirportCandidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return dto.AirportCandidate{}, false
	}

	return *s.selected, true
}

// Stop cancels any pending lookup. In-flight responses are still discarded by
// the sequence guard.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.seq++
}
