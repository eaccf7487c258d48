package state

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client), srv
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, srv := newTestRedisStore(t)

	cc := NewConversationContext("s1", testNow)
	cc = cc.Merge(Entities{
		DestinationRegion: "greece",
		DurationDays:      5,
		Preferences:       []string{"beaches"},
	}, Decision{Kind: DecisionAdd}, testNow)
	cc.AdvanceTurn("new_request", testNow)

	if err := store.Save(context.Background(), cc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DestinationRegion != "greece" || loaded.DurationDays != 5 || loaded.TurnCount != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if len(loaded.Preferences) != 1 || loaded.Preferences[0] != "beaches" {
		t.Fatalf("preferences = %v", loaded.Preferences)
	}

	if ttl := srv.TTL(defaultStoreKeyPrefix + "s1"); ttl != defaultStoreTTL {
		t.Fatalf("ttl = %v", ttl)
	}
}

func TestRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)

	_, err := store.Load(context.Background(), "missing")
	if !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound, got %v", err)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)

	cc := NewConversationContext("s1", testNow)
	if err := store.Save(context.Background(), cc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(context.Background(), "s1"); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound after delete, got %v", err)
	}
}

func TestRedisStoreInvalidSession(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)

	if _, err := store.Load(context.Background(), " "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if err := store.Delete(context.Background(), ""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
