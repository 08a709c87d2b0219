package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps seats under seat:<ROOM> with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects and pings like the rate limiter used to.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis addr is empty")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func seatKey(roomID string) string {
	return "seat:" + NormalizeRoom(roomID)
}

func (s *RedisStore) LoadName(ctx context.Context, roomID string) (string, error) {
	name, err := s.rdb.Get(ctx, seatKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSeat
	}
	if err != nil {
		return "", fmt.Errorf("load seat: %w", err)
	}
	return name, nil
}

func (s *RedisStore) SaveName(ctx context.Context, roomID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty player name")
	}
	if err := s.rdb.Set(ctx, seatKey(roomID), name, s.ttl).Err(); err != nil {
		return fmt.Errorf("save seat: %w", err)
	}
	return nil
}

func (s *RedisStore) Forget(ctx context.Context, roomID string) error {
	return s.rdb.Del(ctx, seatKey(roomID)).Err()
}

// Ping is used by the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
