package itinerary

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	stageQuota       = "quota"
	stageGeneration  = "generation"
	stageExtraction  = "extraction"
	stageGeocode     = "geocode"
	stagePersistence = "persistence"
	stageRefund      = "refund"
)

var (
	stageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourvisto_itinerary_stage_failures_total",
		Help: "Trip generation failures by pipeline stage",
	}, []string{"stage"})
	tripsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourvisto_itinerary_trips_created_total",
		Help: "The total number of persisted generated trips",
	})
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tourvisto_itinerary_generation_seconds",
		Help:    "Time spent in the model call plus photo search",
		Buckets: []float64{1, 2, 5, 10, 20, 40, 60},
	})
)
