// README: User store backed by the Firestore "users" collection, keyed by account id.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tourvisto/internal/infra"
)

const usersCollection = "users"

var ErrExists = errors.New("user already exists")

type UserStore interface {
	FindByAccount(ctx context.Context, accountID string) (User, error)
	Create(ctx context.Context, u User) error
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int64, error)
	CountJoinedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) FindByAccount(ctx context.Context, accountID string) (User, error) {
	it := s.client.Collection(usersCollection).
		Where("accountId", "==", accountID).
		Select("name", "email", "imageUrl", "joinedAt", "accountId", "status").
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user %s: %w", accountID, err)
	}
	var u User
	if err := snap.DataTo(&u); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", accountID, err)
	}
	return u, nil
}

// Create writes u under its account id. A second create for the same
// account fails with ErrExists.
func (s *Store) Create(ctx context.Context, u User) error {
	ref := s.client.Collection(usersCollection).Doc(u.AccountID)
	if ref == nil {
		return ErrInvalidProfile
	}
	_, err := ref.Create(ctx, u)
	if status.Code(err) == codes.AlreadyExists {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.AccountID, err)
	}
	return nil
}

// List returns users, most recently joined first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]User, error) {
	snaps, err := s.client.Collection(usersCollection).
		OrderBy("joinedAt", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]User, 0, len(snaps))
	for _, snap := range snaps {
		var u User
		if err := snap.DataTo(&u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return infra.CountQuery(ctx, s.client.Collection(usersCollection).Query)
}

func (s *Store) CountJoinedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	q := s.client.Collection(usersCollection).
		Where("joinedAt", ">=", from).
		Where("joinedAt", "<", to)
	return infra.CountQuery(ctx, q)
}
