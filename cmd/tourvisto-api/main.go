// README: Entry point; loads config, wires services, starts HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tourvisto/internal/ai"
	"tourvisto/internal/config"
	httptransport "tourvisto/internal/http"
	"tourvisto/internal/infra"
	"tourvisto/internal/maps"
	"tourvisto/internal/modules/dashboard"
	"tourvisto/internal/modules/itinerary"
	"tourvisto/internal/modules/quota"
	"tourvisto/internal/modules/user"
	"tourvisto/internal/photos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return err
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		return err
	}
	fs, err := infra.NewFirestore(ctx, app)
	if err != nil {
		return err
	}
	defer fs.Close()

	gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		return err
	}
	defer gemini.Close()

	deps := itinerary.Deps{
		Generator: gemini,
		Photos:    photos.NewUnsplashClient(cfg.Unsplash.BaseURL, cfg.Unsplash.AccessKey, cfg.Pipeline.MaxImages, logger),
		Store:     itinerary.NewStore(fs),
		Logger:    logger,
	}

	var quotaSvc *quota.Service
	if cfg.DB.DSN != "" {
		if err := infra.Migrate(ctx, cfg.DB.DSN); err != nil {
			return err
		}
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		quotaSvc = quota.NewService(quota.NewStore(pool), cfg.Quota.MonthlyCredits)
		deps.Quota = quotaSvc
		logger.Info("generation quota enabled", "monthly_credits", cfg.Quota.MonthlyCredits)
	} else {
		logger.Warn("TOURVISTO_DB_DSN not set; generation quota disabled")
	}

	if cfg.Maps.APIKey != "" {
		geocoder, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		deps.Geocoder = geocoder
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer rdb.Close()
	} else {
		logger.Warn("TOURVISTO_REDIS_ADDR not set; Idempotency-Key is ignored")
	}

	tripSvc := itinerary.NewService(deps, cfg.Pipeline)
	userSvc := user.NewService(user.NewStore(fs), logger)

	lock := cfg.Pipeline.GenerationTimeout + cfg.Pipeline.StoreTimeout + cfg.Pipeline.GeocodeTimeout
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Itinerary:       tripSvc,
		Users:           userSvc,
		Dashboard:       dashboard.NewService(userSvc, tripSvc),
		Quota:           quotaSvc,
		Verifier:        verifier,
		Redis:           rdb,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		IdempotencyLock: lock,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      lock + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
