// Package memory persists per-session conversation history so follow-up
// requests can be interpreted with prior context by the summarization layer.
package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Store interface {
	Append(ctx context.Context, sessionID string, msg Message) error
	History(ctx context.Context, sessionID string) ([]Message, error)
	Clear(ctx context.Context, sessionID string) error
	Close() error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: "localhost:6379",
		TTL:  24 * time.Hour,
	}
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultRedisConfig().TTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID + ":history"
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := sessionKey(sessionID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	items, err := s.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(items))
	for _, item := range items {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NoOpStore disables session persistence.
type NoOpStore struct{}

func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

func (s *NoOpStore) Append(ctx context.Context, sessionID string, msg Message) error {
	return nil
}

func (s *NoOpStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	return nil, nil
}

func (s *NoOpStore) Clear(ctx context.Context, sessionID string) error {
	return nil
}

func (s *NoOpStore) Close() error {
	return nil
}
