// README: Itinerary service runs the generation pipeline and serves stored trips.
package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tourvisto/internal/config"
	"tourvisto/internal/modules/quota"
	"tourvisto/internal/types"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Generator returns the raw model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PhotoSearcher returns representative image URLs. It never fails; a failed
// search yields an empty slice.
type PhotoSearcher interface {
	Search(ctx context.Context, destination, interests, travelStyle string) []string
}

// Geocoder resolves a free-form place name to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, query string) (types.Point, error)
}

// Quota consumes one generation credit for a user and gives it back when the
// generation produced no trip.
type Quota interface {
	Use(ctx context.Context, uid string) error
	Refund(ctx context.Context, uid string) error
}

// Deps wires the pipeline collaborators. Geocoder and Quota are optional.
type Deps struct {
	Generator Generator
	Photos    PhotoSearcher
	Geocoder  Geocoder
	Quota     Quota
	Store     TripStore
	Logger    *slog.Logger
}

type Service struct {
	generator Generator
	photos    PhotoSearcher
	geocoder  Geocoder
	quota     Quota
	store     TripStore
	log       *slog.Logger
	cfg       config.PipelineConfig
	now       func() time.Time
}

func NewService(deps Deps, cfg config.PipelineConfig) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: deps.Generator,
		photos:    deps.Photos,
		geocoder:  deps.Geocoder,
		quota:     deps.Quota,
		store:     deps.Store,
		log:       logger.With("module", "itinerary"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate turns req into a persisted trip and returns its id.
//
// The model call and the photo search run concurrently and are joined before
// anything is written. Photos are optional: a failed search persists the trip
// with no images. Generation, extraction and persistence failures abort the
// flow and are reported as ErrGenerationFailed, ErrExtractionMiss and
// ErrPersistenceFailed; the underlying cause is only logged. A credit taken
// for an attempt that stored nothing is refunded.
func (s *Service) Generate(ctx context.Context, req TripRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if err := s.useCredit(ctx, req); err != nil {
		return "", err
	}
	id, err := s.run(ctx, req)
	if err != nil {
		s.refundCredit(ctx, req)
		return "", err
	}
	return id, nil
}

func (s *Service) run(ctx context.Context, req TripRequest) (string, error) {
	var (
		block  string
		parsed any
		images []string
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, v, err := s.generate(gctx, req)
		if err != nil {
			return err
		}
		block, parsed = b, v
		return nil
	})
	g.Go(func() error {
		images = s.searchPhotos(gctx, req)
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}
	generationDuration.Observe(time.Since(start).Seconds())

	detail, err := s.tripDetail(ctx, req, block, parsed)
	if err != nil {
		s.fail(ctx, stagePersistence, req, err)
		return "", ErrPersistenceFailed
	}
	return s.persist(ctx, req, Record{
		TripDetail: detail,
		ImageURLs:  images,
		UserID:     req.UserID,
		CreatedAt:  s.now().UTC(),
	})
}

func (s *Service) useCredit(ctx context.Context, req TripRequest) error {
	if s.quota == nil {
		return nil
	}
	ctx, cancel := withTimeout(ctx, s.cfg.QuotaTimeout)
	defer cancel()

	err := s.quota.Use(ctx, req.UserID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, quota.ErrInsufficientCredits):
		return ErrQuotaExceeded
	default:
		s.fail(ctx, stageQuota, req, err)
		return fmt.Errorf("quota check: %w", err)
	}
}

// refundCredit runs detached from ctx so a disconnected caller still gets the credit back.
func (s *Service) refundCredit(ctx context.Context, req TripRequest) {
	if s.quota == nil {
		return
	}
	ctx, cancel := withTimeout(context.WithoutCancel(ctx), s.cfg.QuotaTimeout)
	defer cancel()

	if err := s.quota.Refund(ctx, req.UserID); err != nil {
		stageFailures.WithLabelValues(stageRefund).Inc()
		s.log.WarnContext(ctx, "credit refund failed", "user_id", req.UserID, "error", err)
	}
}

// generate returns the fence interior of the model's reply and its parsed value.
// Any valid JSON in the fence is accepted.
func (s *Service) generate(ctx context.Context, req TripRequest) (string, any, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	raw, err := s.generator.Generate(ctx, BuildPrompt(req))
	if err != nil {
		s.fail(ctx, stageGeneration, req, err)
		return "", nil, ErrGenerationFailed
	}
	block, parsed, ok := extractBlock(raw)
	if !ok {
		s.fail(ctx, stageExtraction, req, fmt.Errorf("no parsable json fence in %d bytes of output", len(raw)))
		return "", nil, ErrExtractionMiss
	}
	return block, parsed, nil
}

// tripDetail serializes the itinerary for storage. The fence interior is kept
// as emitted, compacted, unless geocoding patched its coordinates.
func (s *Service) tripDetail(ctx context.Context, req TripRequest, block string, parsed any) (string, error) {
	if s.refineLocation(ctx, req, parsed) {
		b, err := json.Marshal(parsed)
		return string(b), err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(block)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) searchPhotos(ctx context.Context, req TripRequest) []string {
	if s.photos == nil {
		return []string{}
	}
	ctx, cancel := withTimeout(ctx, s.cfg.PhotoTimeout)
	defer cancel()

	images := s.photos.Search(ctx, req.Country, req.Interests, req.TravelStyle)
	if images == nil {
		return []string{}
	}
	return images
}

// refineLocation replaces the model's coordinates in parsed with geocoded
// ones and reports whether it did.
func (s *Service) refineLocation(ctx context.Context, req TripRequest, parsed any) bool {
	if s.geocoder == nil {
		return false
	}
	loc, query, ok := tripLocation(parsed)
	if !ok {
		return false
	}
	ctx, cancel := withTimeout(ctx, s.cfg.GeocodeTimeout)
	defer cancel()

	pt, err := s.geocoder.Locate(ctx, query)
	if err != nil {
		stageFailures.WithLabelValues(stageGeocode).Inc()
		s.log.WarnContext(ctx, "geocode failed, keeping model coordinates",
			"query", query, "user_id", req.UserID, "error", err)
		return false
	}
	loc["coordinates"] = []float64{pt.Lat, pt.Lng}
	return true
}

func (s *Service) persist(ctx context.Context, req TripRequest, rec Record) (string, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	id, err := s.store.Create(ctx, rec)
	if err != nil {
		s.fail(ctx, stagePersistence, req, err)
		return "", ErrPersistenceFailed
	}
	tripsCreated.Inc()
	s.log.InfoContext(ctx, "trip created",
		"trip_id", id, "user_id", req.UserID, "country", req.Country, "images", len(rec.ImageURLs))
	return id, nil
}

func (s *Service) fail(ctx context.Context, stage string, req TripRequest, err error) {
	stageFailures.WithLabelValues(stage).Inc()
	s.log.ErrorContext(ctx, "trip generation failed",
		"stage", stage, "user_id", req.UserID, "country", req.Country, "error", err)
}

// Get returns one stored trip.
func (s *Service) Get(ctx context.Context, id string) (TripView, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return TripView{}, err
	}
	return rec.View(), nil
}

// List returns a page of trips, newest first, and the total number of trips.
func (s *Service) List(ctx context.Context, limit, offset int) ([]TripView, int64, error) {
	limit, offset = clampPage(limit, offset)
	recs, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	views := make([]TripView, 0, len(recs))
	for _, r := range recs {
		views = append(views, r.View())
	}
	return views, total, nil
}

// CountCreated counts trips created in [from, to).
func (s *Service) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	return s.store.CountCreatedBetween(ctx, from, to)
}

// Count returns the total number of stored trips.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// withTimeout treats a non-positive d as "no extra bound".
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
