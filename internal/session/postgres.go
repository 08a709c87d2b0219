package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ludo_client/internal/repository"
)

// PostgresStore keeps seats in the seats table.
type PostgresStore struct {
	repo *repository.SeatRepository
	ttl  time.Duration
}

func NewPostgresStore(repo *repository.SeatRepository, ttl time.Duration) *PostgresStore {
	return &PostgresStore{repo: repo, ttl: ttl}
}

func (s *PostgresStore) LoadName(ctx context.Context, roomID string) (string, error) {
	rec, err := s.repo.Get(ctx, NormalizeRoom(roomID))
	if errors.Is(err, repository.ErrSeatNotFound) {
		return "", ErrNoSeat
	}
	if err != nil {
		return "", fmt.Errorf("load seat: %w", err)
	}
	return rec.Name, nil
}

func (s *PostgresStore) SaveName(ctx context.Context, roomID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty player name")
	}
	if err := s.repo.Upsert(ctx, NormalizeRoom(roomID), name, s.ttl); err != nil {
		return fmt.Errorf("save seat: %w", err)
	}
	return nil
}

func (s *PostgresStore) Forget(ctx context.Context, roomID string) error {
	return s.repo.Delete(ctx, NormalizeRoom(roomID))
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Purge drops expired seats. Redis expires keys itself.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpired(ctx)
}
