package user

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore store tests")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "tourvisto-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	snaps, err := client.Collection(usersCollection).Documents(ctx).GetAll()
	require.NoError(t, err)
	for _, s := range snaps {
		_, err := s.Ref.Delete(ctx)
		require.NoError(t, err)
	}
	return NewStore(client)
}

func TestStoreCreateFind(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	u := User{
		AccountID: "acc_1",
		Email:     "ada@example.com",
		Name:      "Ada",
		JoinedAt:  time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Status:    StatusUser,
	}

	require.NoError(t, store.Create(ctx, u))
	assert.ErrorIs(t, store.Create(ctx, u), ErrExists)

	got, err := store.FindByAccount(ctx, "acc_1")
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.True(t, u.JoinedAt.Equal(got.JoinedAt))

	_, err = store.FindByAccount(ctx, "acc_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	n, err := store.CountJoinedBetween(ctx,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}
