// README: API gateway; holds module services and builds the HTTP handler.
package http

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"tourvisto/internal/infra"
	"tourvisto/internal/modules/dashboard"
	"tourvisto/internal/modules/itinerary"
	"tourvisto/internal/modules/quota"
	"tourvisto/internal/modules/user"
)

// ServerDeps wires the modules behind the API. Quota and Redis are optional:
// Quota exposes remaining credits at /api/users/me/quota and Redis enables
// Idempotency-Key handling on trip creation. IdempotencyLock bounds how long
// an in-flight create holds its key.
type ServerDeps struct {
	Itinerary       *itinerary.Service
	Users           *user.Service
	Dashboard       *dashboard.Service
	Quota           *quota.Service
	Verifier        infra.TokenVerifier
	Redis           *redis.Client
	CORSOrigins     []string
	IdempotencyLock time.Duration
	Logger          *slog.Logger
}

type Server struct {
	itinerary       *itinerary.Service
	users           *user.Service
	dashboard       *dashboard.Service
	quota           *quota.Service
	verifier        infra.TokenVerifier
	redis           *redis.Client
	corsOrigins     []string
	idempotencyLock time.Duration
	log             *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lock := deps.IdempotencyLock
	if lock <= 0 {
		lock = 2 * time.Minute
	}
	return &Server{
		itinerary:       deps.Itinerary,
		users:           deps.Users,
		dashboard:       deps.Dashboard,
		quota:           deps.Quota,
		verifier:        deps.Verifier,
		redis:           deps.Redis,
		corsOrigins:     deps.CORSOrigins,
		idempotencyLock: lock,
		log:             logger,
	}
}
