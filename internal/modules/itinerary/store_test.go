package itinerary

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore connects to the Firestore emulator and clears the trips collection.
// Skips when FIRESTORE_EMULATOR_HOST is not set.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore store tests")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "tourvisto-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	snaps, err := client.Collection(tripsCollection).Documents(ctx).GetAll()
	require.NoError(t, err)
	for _, s := range snaps {
		_, err := s.Ref.Delete(ctx)
		require.NoError(t, err)
	}
	return NewStore(client)
}

func TestStoreCreateGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	id, err := store.Create(ctx, Record{
		TripDetail: japanBlock,
		UserID:     "user123",
		CreatedAt:  created,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, japanBlock, rec.TripDetail)
	assert.Equal(t, []string{}, rec.ImageURLs)
	assert.Equal(t, "user123", rec.UserID)
	assert.True(t, created.Equal(rec.CreatedAt))
}

func TestStoreGetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListAndCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := store.Create(ctx, Record{
			TripDetail: "{}",
			ImageURLs:  []string{"https://img/" + string(rune('a'+i))},
			UserID:     "u",
			CreatedAt:  base.Add(time.Duration(i) * 48 * time.Hour),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	page, err := store.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	// Sep 28 and Sep 30 fall before October; Oct 2 and Oct 4 inside it.
	n, err := store.CountCreatedBetween(ctx,
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
