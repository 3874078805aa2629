// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourvisto/internal/http/handlers"
	"tourvisto/internal/http/middleware"
)

// Routes returns the gin engine wrapped in CORS.
func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(s.log), middleware.Recovery(s.log))

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(s.verifier))

	tripHandler := handlers.NewTripHandler(s.itinerary)
	api.POST("/create-trip", middleware.Idempotency(s.redis, s.idempotencyLock, s.log), tripHandler.Create)
	api.GET("/trips", tripHandler.List)
	api.GET("/trips/:id", tripHandler.Get)

	userHandler := handlers.NewUserHandler(s.users)
	api.POST("/users/me", userHandler.SyncMe)
	api.GET("/users/me", userHandler.GetMe)
	if s.quota != nil {
		api.GET("/users/me/quota", handlers.NewQuotaHandler(s.quota).GetMine)
	}

	admin := api.Group("", middleware.RequireRole(middleware.RoleAdmin))
	admin.GET("/users", userHandler.List)

	dashboardHandler := handlers.NewDashboardHandler(s.dashboard, s.log)
	admin.GET("/dashboard/stats", dashboardHandler.Stats)

	return corsHandler(s.corsOrigins)(r)
}
