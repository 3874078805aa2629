package quota

import (
	"context"
	"time"
)

// Service orchestrates monthly generation-credit logic.
type Service struct {
	store     *Store
	allowance int
	now       func() time.Time
}

// NewService creates a Service backed by the given Store.
// A non-positive allowance falls back to DefaultMonthlyCredits.
func NewService(store *Store, allowance int) *Service {
	if allowance <= 0 {
		allowance = DefaultMonthlyCredits
	}
	return &Service{store: store, allowance: allowance, now: time.Now}
}

// Use deducts one credit from the user's monthly allowance.
// If the user row does not exist yet it is initialised and the credit is immediately consumed.
// Returns ErrInsufficientCredits when the allowance for the current month is exhausted.
func (s *Service) Use(ctx context.Context, uid string) error {
	now := s.now()
	err := s.store.Use(ctx, uid, s.allowance, now)
	if err != ErrInsufficientCredits {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid, s.allowance, now); initErr != nil {
		return initErr
	}
	return s.store.Use(ctx, uid, s.allowance, now)
}

// Refund gives back a credit consumed by a generation that produced no trip.
func (s *Service) Refund(ctx context.Context, uid string) error {
	return s.store.Refund(ctx, uid, s.allowance, s.now())
}

// Remaining reports how many generations uid has left this month.
func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid, s.allowance, s.now())
}
