package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wordquest/core"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string        `json:"addr"`
	Password     string        `json:"password,omitempty"`
	DB           int           `json:"db"`
	Key          string        `json:"key"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		Key:          "wordquest:state",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store keeps the GameState snapshot as a JSON blob under a single key.
// Useful when the game runs behind a shared backend rather than a local
// install.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a Redis-backed store and verifies the connection.
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Store{client: client, key: keyOrDefault(config.Key)}, nil
}

// NewWithClient creates a Store using an existing client (useful for testing).
func NewWithClient(client *redis.Client, key string) *Store {
	return &Store{client: client, key: keyOrDefault(key)}
}

func keyOrDefault(key string) string {
	if key == "" {
		return DefaultConfig().Key
	}
	return key
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Load(ctx context.Context) (core.GameState, bool, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.GameState{}, false, nil
		}
		return core.GameState{}, false, fmt.Errorf("failed to load state: %w", err)
	}
	var state core.GameState
	if err := json.Unmarshal(b, &state); err != nil {
		return core.GameState{}, false, fmt.Errorf("failed to decode state: %w", err)
	}
	return state, true, nil
}

func (s *Store) Save(ctx context.Context, state core.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
