package state

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type restCall struct {
	auth    string
	command []any
}

func newUpstashTestServer(t *testing.T, results map[string]string, calls *[]restCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var command []any
		if err := json.Unmarshal(raw, &command); err != nil {
			t.Fatalf("decode command: %v", err)
		}
		if calls != nil {
			*calls = append(*calls, restCall{auth: r.Header.Get("Authorization"), command: command})
		}

		verb, _ := command[0].(string)
		switch verb {
		case "GET":
			key, _ := command[1].(string)
			payload, ok := results[key]
			if !ok {
				_, _ = w.Write([]byte(`{"result":null}`))
				return
			}
			body, _ := json.Marshal(map[string]string{"result": payload})
			_, _ = w.Write(body)
		case "SET":
			key, _ := command[1].(string)
			value, _ := command[2].(string)
			results[key] = value
			_, _ = w.Write([]byte(`{"result":"OK"}`))
		case "DEL":
			key, _ := command[1].(string)
			delete(results, key)
			_, _ = w.Write([]byte(`{"result":1}`))
		default:
			_, _ = w.Write([]byte(`{"error":"unknown command"}`))
		}
	}))
}

func TestUpstashStoreRoundTrip(t *testing.T) {
	t.Parallel()

	results := map[string]string{}
	var calls []restCall
	srv := newUpstashTestServer(t, results, &calls)
	defer srv.Close()

	store, err := NewUpstashRedisStore(UpstashRedisConfig{
		URL:     srv.URL,
		Token:   "test-token",
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	cc := NewConversationContext("s1", testNow)
	cc = cc.Merge(Entities{
		DestinationRegion: "prague",
		DurationDays:      4,
		BudgetTotal:       &Money{Amount: 800, Currency: "USD"},
	}, Decision{Kind: DecisionAdd}, testNow)
	cc.AdvanceTurn("new_request", testNow)

	if err := store.Save(context.Background(), cc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DestinationRegion != "prague" || loaded.DurationDays != 4 || loaded.TurnCount != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.BudgetTotal == nil || loaded.BudgetTotal.Amount != 800 {
		t.Fatalf("loaded budget = %+v", loaded.BudgetTotal)
	}

	if len(calls) == 0 || calls[0].auth != "Bearer test-token" {
		t.Fatalf("missing bearer auth, calls = %+v", calls)
	}

	setCall := calls[0]
	if verb, _ := setCall.command[0].(string); verb != "SET" {
		t.Fatalf("first command = %v", setCall.command)
	}
	if key, _ := setCall.command[1].(string); key != defaultStoreKeyPrefix+"s1" {
		t.Fatalf("key = %q", key)
	}
	if len(setCall.command) != 5 {
		t.Fatalf("expected SET with EX, got %v", setCall.command)
	}
}

func TestUpstashStoreLoadMissing(t *testing.T) {
	t.Parallel()

	srv := newUpstashTestServer(t, map[string]string{}, nil)
	defer srv.Close()

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	_, err = store.Load(context.Background(), "nope")
	if !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound, got %v", err)
	}
}

func TestUpstashStoreServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Load(context.Background(), "s1"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestUpstashStoreInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "", Token: "tok"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.test", Token: ""}); err == nil {
		t.Fatal("expected error for empty token")
	}

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.test", Token: "tok"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	if _, err := store.Load(context.Background(), "  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilContext) {
		t.Fatalf("expected ErrNilContext, got %v", err)
	}
}

func TestTTLSeconds(t *testing.T) {
	t.Parallel()

	if got := ttlSeconds(24 * time.Hour); got != 86400 {
		t.Fatalf("ttlSeconds(24h) = %d", got)
	}
	if got := ttlSeconds(1500 * time.Millisecond); got != 2 {
		t.Fatalf("ttlSeconds(1.5s) = %d", got)
	}
	if got := ttlSeconds(0); got != 1 {
		t.Fatalf("ttlSeconds(0) = %d", got)
	}
}
