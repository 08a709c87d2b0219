package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSeatNotFound = errors.New("seat not found")

type SeatRecord struct {
	RoomID    string
	Name      string
	UpdatedAt time.Time
	ExpiresAt *time.Time
}

type SeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) *SeatRepository {
	return &SeatRepository{db: db}
}

// Upsert replaces the seat of roomID. ttl 0 stores a record that never expires.
func (r *SeatRepository) Upsert(ctx context.Context, roomID, name string, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expires = &t
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO seats (room_id, name, updated_at, expires_at)
		 VALUES ($1, $2, now(), $3)
		 ON CONFLICT (room_id) DO UPDATE
		 SET name = EXCLUDED.name, updated_at = now(), expires_at = EXCLUDED.expires_at`,
		roomID, name, expires,
	)
	return err
}

// Get ignores expired rows.
func (r *SeatRepository) Get(ctx context.Context, roomID string) (*SeatRecord, error) {
	var s SeatRecord
	err := r.db.QueryRow(ctx,
		`SELECT room_id, name, updated_at, expires_at
		 FROM seats
		 WHERE room_id = $1 AND (expires_at IS NULL OR expires_at > now())`,
		roomID,
	).Scan(&s.RoomID, &s.Name, &s.UpdatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeatRepository) Delete(ctx context.Context, roomID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM seats WHERE room_id = $1`, roomID)
	return err
}

// PurgeExpired removes stale rows and reports how many went.
func (r *SeatRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM seats WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SeatRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
