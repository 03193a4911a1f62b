package typeahead

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
)

const testInterval = 30 * time.Millisecond

// settle waits long enough for a pending debounce window to fire and the
// dispatched lookup to complete.
func settle() {
	time.Sleep(5 * testInterval)
}

type recordingSearch struct {
	mu      sync.Mutex
	queries []string
	results map[string][]dto.AirportCandidate
}

func (r *recordingSearch) search(_ context.Context, query string) ([]dto.AirportCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries = append(r.queries, query)

	return r.results[query], nil
}

func (r *recordingSearch) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.queries...)
}

func TestSearcher_DebouncesBursts(t *testing.T) {
	recorder := &recordingSearch{results: map[string][]dto.AirportCandidate{
		"lond": {{Code: "LHR", Name: "Heathrow"}},
	}}
	searcher := NewSearcher(recorder.search, WithInterval(testInterval))
	defer searcher.Stop()

	ctx := context.Background()

	// a fast typing burst, each keystroke well inside the debounce window
	searcher.Input(ctx, "lo")
	searcher.Input(ctx, "lon")
	searcher.Input(ctx, "lond")

	settle()

	if diff := cmp.Diff([]string{"lond"}, recorder.calls()); diff != "" {
		t.Fatalf("lookup calls mismatch (-want +got):\n%s", diff)
	}

	want := []dto.AirportCandidate{{Code: "LHR", Name: "Heathrow"}}
	if diff := cmp.Diff(want, searcher.Results()); diff != "" {
		t.Fatalf("Results() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearcher_PauseFlushesEachQuery(t *testing.T) {
	recorder := &recordingSearch{results: map[string][]dto.AirportCandidate{}}
	searcher := NewSearcher(recorder.search, WithInterval(testInterval))
	defer searcher.Stop()

	ctx := context.Background()

	searcher.Input(ctx, "par")
	settle()
	searcher.Input(ctx, "paris")
	settle()

	if diff := cmp.Diff([]string{"par", "paris"}, recorder.calls()); diff != "" {
		t.Fatalf("lookup calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSearcher_ShortQueryClearsWithoutLookup(t *testing.T) {
	recorder := &recordingSearch{results: map[string][]dto.AirportCandidate{
		"rome": {{Code: "FCO"}},
	}}

	var (
		notifyMu   sync.Mutex
		notifyLast []dto.AirportCandidate
		notified   bool
	)

	searcher := NewSearcher(recorder.search,
		WithInterval(testInterval),
		WithOnResults(func(_ string, results []dto.AirportCandidate) {
			notifyMu.Lock()
			defer notifyMu.Unlock()

			notifyLast = results
			notified = true
		}),
	)
	defer searcher.Stop()

	ctx := context.Background()

	searcher.Input(ctx, "rome")
	settle()

	if len(searcher.Results()) != 1 {
		t.Fatalf("Results() = %v, want one candidate", searcher.Results())
	}

	searcher.Input(ctx, "r")

	if got := searcher.Results(); got != nil {
		t.Fatalf("Results() after short query = %v, want nil", got)
	}

	notifyMu.Lock()
	if !notified || notifyLast != nil {
		notifyMu.Unlock()
		t.Fatalf("short query should notify with empty results, got notified=%v results=%v", notified, notifyLast)
	}
	notifyMu.Unlock()

	settle()

	if diff := cmp.Diff([]string{"rome"}, recorder.calls()); diff != "" {
		t.Fatalf("lookup calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSearcher_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})

	var mu sync.Mutex

	queries := []string{}

	search := func(_ context.Context, query string) ([]dto.AirportCandidate, error) {
		mu.Lock()
		queries = append(queries, query)
		mu.Unlock()

		if query == "old" {
			// simulate a slow backend for the first query
			<-release

			return []dto.AirportCandidate{{Code: "OLD"}}, nil
		}

		return []dto.AirportCandidate{{Code: "NEW"}}, nil
	}

	searcher := NewSearcher(search, WithInterval(testInterval))
	defer searcher.Stop()

	ctx := context.Background()

	searcher.Input(ctx, "old")
	settle()

	searcher.Input(ctx, "new")
	settle()

	// the slow response lands last but must not overwrite the newer results
	close(release)
	settle()

	want := []dto.AirportCandidate{{Code: "NEW"}}
	if diff := cmp.Diff(want, searcher.Results()); diff != "" {
		t.Fatalf("Results() mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	defer mu.Unlock()

	if diff := cmp.Diff([]string{"old", "new"}, queries); diff != "" {
		t.Fatalf("lookup calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSearcher_CapsResults(t *testing.T) {
	candidates := make([]dto.AirportCandidate, 12)
	for i := range candidates {
		candidates[i] = dto.AirportCandidate{Code: string(rune('A' + i))}
	}

	search := func(_ context.Context, _ string) ([]dto.AirportCandidate, error) {
		return candidates, nil
	}

	searcher := NewSearcher(search, WithInterval(testInterval))
	defer searcher.Stop()

	searcher.Input(context.Background(), "london")
	settle()

	if got := len(searcher.Results()); got != DefaultMaxResults {
		t.Fatalf("len(Results()) = %d, want %d", got, DefaultMaxResults)
	}
}

func TestSearcher_Select(t *testing.T) {
	recorder := &recordingSearch{results: map[string][]dto.AirportCandidate{}}
	searcher := NewSearcher(recorder.search, WithInterval(testInterval))
	defer searcher.Stop()

	ctx := context.Background()

	searcher.Input(ctx, "tokyo")
	searcher.Select(dto.AirportCandidate{Code: "HND", Name: "Haneda"})
	settle()

	// selecting cancels the pending lookup
	if calls := recorder.calls(); len(calls) != 0 {
		t.Fatalf("lookup calls = %v, want none", calls)
	}

	selected, ok := searcher.Selection()
	if !ok || selected.Code != "HND" {
		t.Fatalf("Selection() = (%+v, %v), want HND", selected, ok)
	}

	searcher.ClearSelection()

	if _, ok := searcher.Selection(); ok {
		t.Fatal("Selection() after clear should report no selection")
	}
}
