// README: HTTP helper utilities shared by the router.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"tourvisto/internal/http/middleware"
)

func health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// corsHandler applies CORS headers for the configured frontend origins.
func corsHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.HeaderIdempotencyKey, middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID, middleware.HeaderIdempotencyHit},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
