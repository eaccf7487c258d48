package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the direct go-redis store.
type RedisConfig struct {
	URL          string `envconfig:"URL" split_words:"true" required:"true"`
	ReadTimeout  int    `envconfig:"READ_TIMEOUT" split_words:"true" default:"3"`
	WriteTimeout int    `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"3"`
	DialTimeout  int    `envconfig:"DIAL_TIMEOUT" split_words:"true" default:"5"`
}

// RedisStore persists ConversationContext through a plain Redis connection.
// It shares key layout and TTL behavior with UpstashRedisStore so the two are
// interchangeable behind Store.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(cfg.DialTimeout) * time.Second

	client := redis.NewClient(opts)
	if cmd := client.Ping(context.Background()); cmd.Err() != nil {
		return nil, fmt.Errorf("ping redis: %w", cmd.Err())
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests and by
// callers that manage the connection themselves.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: defaultStoreKeyPrefix,
		ttl:       defaultStoreTTL,
	}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*ConversationContext, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	raw, err := s.client.Get(ctx, s.keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrContextNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var cc ConversationContext
	if err := json.Unmarshal([]byte(raw), &cc); err != nil {
		return nil, fmt.Errorf("unmarshal conversation context: %w", err)
	}
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid context loaded from store: %w", err)
	}
	return &cc, nil
}

func (s *RedisStore) Save(ctx context.Context, cc *ConversationContext) error {
	if cc == nil {
		return ErrNilContext
	}
	if strings.TrimSpace(cc.SessionID) == "" {
		return ErrInvalidSession
	}
	if cc.UpdatedAt.IsZero() {
		cc.UpdatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(cc)
	if err != nil {
		return fmt.Errorf("marshal conversation context: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+cc.SessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
