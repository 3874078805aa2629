package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

type Service struct {
	store UserStore
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store UserStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, log: logger.With("module", "user"), now: time.Now}
}

// Sync returns the stored user for p.AccountID, creating it on first sign-in.
// The returned bool reports whether the user was created.
func (s *Service) Sync(ctx context.Context, p Profile) (User, bool, error) {
	if strings.TrimSpace(p.AccountID) == "" {
		return User{}, false, ErrInvalidProfile
	}
	u, err := s.store.FindByAccount(ctx, p.AccountID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}

	u = User{
		AccountID: p.AccountID,
		Email:     p.Email,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		JoinedAt:  s.now().UTC(),
		Status:    StatusUser,
	}
	switch err := s.store.Create(ctx, u); {
	case errors.Is(err, ErrExists):
		// Lost a race with a concurrent first sign-in.
		existing, err := s.store.FindByAccount(ctx, p.AccountID)
		return existing, false, err
	case err != nil:
		return User{}, false, err
	}
	s.log.InfoContext(ctx, "user created", "user_id", u.AccountID)
	return u, true, nil
}

func (s *Service) Get(ctx context.Context, accountID string) (User, error) {
	return s.store.FindByAccount(ctx, accountID)
}

// List returns a page of users and the total user count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, int64, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// CountJoined counts users who joined in [from, to).
func (s *Service) CountJoined(ctx context.Context, from, to time.Time) (int64, error) {
	return s.store.CountJoinedBetween(ctx, from, to)
}
