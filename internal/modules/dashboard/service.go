package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// UserCounter is satisfied by user.Service.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
	CountJoined(ctx context.Context, from, to time.Time) (int64, error)
}

// TripCounter is satisfied by itinerary.Service.
type TripCounter interface {
	Count(ctx context.Context) (int64, error)
	CountCreated(ctx context.Context, from, to time.Time) (int64, error)
}

type Counts struct {
	Total     int64 `json:"total"`
	ThisMonth int64 `json:"currentMonth"`
	LastMonth int64 `json:"lastMonth"`
	Trend     Trend `json:"trend"`
}

type Stats struct {
	Users Counts `json:"users"`
	Trips Counts `json:"trips"`
}

type Service struct {
	users UserCounter
	trips TripCounter
}

func NewService(users UserCounter, trips TripCounter) *Service {
	return &Service{users: users, trips: trips}
}

// Stats gathers totals and month-over-month counts for the calendar month of now (UTC).
func (s *Service) Stats(ctx context.Context, now time.Time) (Stats, error) {
	thisStart, nextStart, lastStart := monthBounds(now)

	var st Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Users.Total, err = s.users.Count(gctx)
		return wrap("count users", err)
	})
	g.Go(func() (err error) {
		st.Users.ThisMonth, err = s.users.CountJoined(gctx, thisStart, nextStart)
		return wrap("count users this month", err)
	})
	g.Go(func() (err error) {
		st.Users.LastMonth, err = s.users.CountJoined(gctx, lastStart, thisStart)
		return wrap("count users last month", err)
	})
	g.Go(func() (err error) {
		st.Trips.Total, err = s.trips.Count(gctx)
		return wrap("count trips", err)
	})
	g.Go(func() (err error) {
		st.Trips.ThisMonth, err = s.trips.CountCreated(gctx, thisStart, nextStart)
		return wrap("count trips this month", err)
	})
	g.Go(func() (err error) {
		st.Trips.LastMonth, err = s.trips.CountCreated(gctx, lastStart, thisStart)
		return wrap("count trips last month", err)
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st.Users.Trend = CalculateTrend(st.Users.ThisMonth, st.Users.LastMonth)
	st.Trips.Trend = CalculateTrend(st.Trips.ThisMonth, st.Trips.LastMonth)
	return st, nil
}

// monthBounds returns the first instants of the current, next and previous months.
func monthBounds(now time.Time) (this, next, last time.Time) {
	now = now.UTC()
	this = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return this, this.AddDate(0, 1, 0), this.AddDate(0, -1, 0)
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
