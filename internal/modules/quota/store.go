package quota

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles generation_quota persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Use atomically checks the monthly allowance and deducts one credit.
// The counter is reset to allowance when last_reset_month is behind the month of now.
// Returns ErrInsufficientCredits when 0 rows are updated (allowance exhausted or user absent).
func (s *Store) Use(ctx context.Context, uid string, allowance int, now time.Time) error {
	month := now.Format(monthKey)

	tag, err := s.db.Exec(ctx, `
		UPDATE generation_quota SET
			credits_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE credits_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR credits_remaining > 0)
	`, month, allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

// Refund returns one credit to uid for the month of now, never above allowance.
// A row already reset into a later month is left alone.
func (s *Store) Refund(ctx context.Context, uid string, allowance int, now time.Time) error {
	_, err := s.db.Exec(ctx, `
		UPDATE generation_quota SET credits_remaining = LEAST(credits_remaining + 1, $2)
		WHERE uid = $1 AND last_reset_month = $3
	`, uid, allowance, now.Format(monthKey))
	return err
}

// EnsureUser inserts a generation_quota row for uid with the full allowance.
// An existing row is left untouched.
func (s *Store) EnsureUser(ctx context.Context, uid string, allowance int, now time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO generation_quota (uid, credits_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, allowance, now.Format(monthKey))
	return err
}

// Remaining reports the credits left for uid in the month of now.
// Users without a row, or whose row predates this month, have the full allowance.
func (s *Store) Remaining(ctx context.Context, uid string, allowance int, now time.Time) (int, error) {
	var remaining int
	err := s.db.QueryRow(ctx, `
		SELECT CASE WHEN last_reset_month != $2 THEN $3 ELSE credits_remaining END
		FROM generation_quota WHERE uid = $1
	`, uid, now.Format(monthKey), allowance).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return allowance, nil
		}
		return 0, err
	}
	return remaining, nil
}
