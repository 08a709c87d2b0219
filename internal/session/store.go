package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNoSeat - nothing is remembered for the room (or it expired).
var ErrNoSeat = errors.New("no seat for room")

// Seat is the durable half of a player's identity. The transport connection
// id is not part of it: that one changes on every connect.
type Seat struct {
	RoomID string
	Name   string
}

// Store remembers which name the local player used in a room, so a reload
// can rejoin the same seat without asking again.
type Store interface {
	LoadName(ctx context.Context, roomID string) (string, error)
	SaveName(ctx context.Context, roomID, name string) error
	Forget(ctx context.Context, roomID string) error
}

// NormalizeRoom is the key form used by every backend.
func NormalizeRoom(roomID string) string {
	return strings.ToUpper(strings.TrimSpace(roomID))
}

// MemoryStore keeps seats for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	seats map[string]memorySeat
}

type memorySeat struct {
	name    string
	expires time.Time
}

// NewMemoryStore - ttl 0 means records never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		seats: make(map[string]memorySeat),
	}
}

func (s *MemoryStore) LoadName(_ context.Context, roomID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := NormalizeRoom(roomID)
	seat, ok := s.seats[key]
	if !ok {
		return "", ErrNoSeat
	}
	if !seat.expires.IsZero() && !s.now().Before(seat.expires) {
		delete(s.seats, key)
		return "", ErrNoSeat
	}
	return seat.name, nil
}

func (s *MemoryStore) SaveName(_ context.Context, roomID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty player name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seat := memorySeat{name: name}
	if s.ttl > 0 {
		seat.expires = s.now().Add(s.ttl)
	}
	s.seats[NormalizeRoom(roomID)] = seat
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seats, NormalizeRoom(roomID))
	return nil
}
