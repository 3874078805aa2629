// README: Trip store backed by the Firestore "trips" collection.
package itinerary

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tourvisto/internal/infra"
)

const tripsCollection = "trips"

// TripStore is the persistence contract the Service depends on.
type TripStore interface {
	Create(ctx context.Context, rec Record) (string, error)
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, limit, offset int) ([]Record, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// tripDoc mirrors a document in the trips collection.
type tripDoc struct {
	TripDetail string    `firestore:"tripDetail"`
	ImageURLs  []string  `firestore:"imageUrls"`
	UserID     string    `firestore:"userId"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Create writes rec under a store-generated id and returns that id.
func (s *Store) Create(ctx context.Context, rec Record) (string, error) {
	ref := s.client.Collection(tripsCollection).NewDoc()
	images := rec.ImageURLs
	if images == nil {
		images = []string{}
	}
	_, err := ref.Create(ctx, tripDoc{
		TripDetail: rec.TripDetail,
		ImageURLs:  images,
		UserID:     rec.UserID,
		CreatedAt:  rec.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("create trip document: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	ref := s.client.Collection(tripsCollection).Doc(id)
	if ref == nil {
		return Record{}, ErrNotFound
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get trip %s: %w", id, err)
	}
	return toRecord(snap)
}

// List returns trips newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Record, error) {
	snaps, err := s.client.Collection(tripsCollection).
		OrderBy("createdAt", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	out := make([]Record, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := toRecord(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return infra.CountQuery(ctx, s.client.Collection(tripsCollection).Query)
}

// CountCreatedBetween counts trips with from <= createdAt < to.
func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	q := s.client.Collection(tripsCollection).
		Where("createdAt", ">=", from).
		Where("createdAt", "<", to)
	return infra.CountQuery(ctx, q)
}

func toRecord(snap *firestore.DocumentSnapshot) (Record, error) {
	var d tripDoc
	if err := snap.DataTo(&d); err != nil {
		return Record{}, fmt.Errorf("decode trip %s: %w", snap.Ref.ID, err)
	}
	return Record{
		ID:         snap.Ref.ID,
		TripDetail: d.TripDetail,
		ImageURLs:  d.ImageURLs,
		UserID:     d.UserID,
		CreatedAt:  d.CreatedAt,
	}, nil
}
