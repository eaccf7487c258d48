package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

const discoveryBody = `{"_embedded":{"events":[
	{"name":"Jazz Night","url":"https://tickets.test/1",
	 "_embedded":{"venues":[{"name":"Lucerna"}]},
	 "dates":{"start":{"localDate":"2025-11-12"}}},
	{"name":"Art Fair","url":"https://tickets.test/2",
	 "_embedded":{"venues":[]},
	 "dates":{"start":{"localDate":"2025-11-20"}}}
]}}`

func eventsParams() map[string]any {
	return map[string]any{
		"city":  "Prague",
		"start": time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
		"end":   time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestEventsCitySearch(t *testing.T) {
	t.Parallel()

	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query())
		_, _ = w.Write([]byte(discoveryBody))
	}))
	defer srv.Close()

	p := NewEventsProvider(EventsConfig{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second, Size: 10})

	payload, found, err := p.Invoke(context.Background(), eventsParams())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !found {
		t.Fatal("expected events")
	}

	events, ok := payload.([]Event)
	if !ok {
		t.Fatalf("payload type = %T", payload)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d", len(events))
	}
	if events[0].Title != "Jazz Night" || events[0].Where != "Lucerna" {
		t.Fatalf("event 0 = %+v", events[0])
	}
	// missing venue falls back to the city
	if events[1].Where != "Prague" {
		t.Fatalf("event 1 where = %q", events[1].Where)
	}

	if len(requests) != 1 {
		t.Fatalf("requests = %d", len(requests))
	}
	q := requests[0]
	if q.Get("city") != "Prague" || q.Get("countryCode") != "CZ" {
		t.Fatalf("query = %v", q)
	}
	if q.Get("sort") != "date,asc" || q.Get("size") != "10" {
		t.Fatalf("query = %v", q)
	}
	if q.Get("startDateTime") != "2025-11-01T00:00:00Z" {
		t.Fatalf("startDateTime = %q", q.Get("startDateTime"))
	}
}

func TestEventsKeywordFallback(t *testing.T) {
	t.Parallel()

	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query())
		if r.URL.Query().Get("city") != "" {
			_, _ = w.Write([]byte(`{"_embedded":{"events":[]}}`))
			return
		}
		_, _ = w.Write([]byte(discoveryBody))
	}))
	defer srv.Close()

	p := NewEventsProvider(EventsConfig{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second})

	payload, found, err := p.Invoke(context.Background(), eventsParams())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !found {
		t.Fatal("expected events from fallback")
	}
	if len(payload.([]Event)) != 2 {
		t.Fatalf("events = %d", len(payload.([]Event)))
	}

	if len(requests) != 2 {
		t.Fatalf("requests = %d", len(requests))
	}
	if requests[1].Get("keyword") != "Prague" || requests[1].Get("city") != "" {
		t.Fatalf("fallback query = %v", requests[1])
	}
}

func TestEventsNoResultsIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewEventsProvider(EventsConfig{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second})

	_, found, err := p.Invoke(context.Background(), eventsParams())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if found {
		t.Fatal("expected empty result")
	}
}

func TestEventsUnavailableWithoutKey(t *testing.T) {
	t.Parallel()

	p := NewEventsProvider(EventsConfig{})
	if p.Available() {
		t.Fatal("provider must be unavailable without an api key")
	}
	var _ contractx.ToolProvider = p
}

func TestEventsBadInputsAreEmpty(t *testing.T) {
	t.Parallel()

	p := NewEventsProvider(EventsConfig{APIKey: "k", BaseURL: "http://unused.test"})
	if _, found, err := p.Invoke(context.Background(), map[string]any{"city": " "}); err != nil || found {
		t.Fatalf("found=%v err=%v", found, err)
	}
}
