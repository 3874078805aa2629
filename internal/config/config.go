// README: Config loader with env defaults for HTTP, Firebase, Postgres, Redis, and the external AI/photo services.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PipelineConfig bounds each external call made while generating a trip.
type PipelineConfig struct {
	GenerationTimeout time.Duration
	PhotoTimeout      time.Duration
	GeocodeTimeout    time.Duration
	StoreTimeout      time.Duration
	QuotaTimeout      time.Duration
	MaxImages         int
}

type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	Log struct {
		Level string
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	AI struct {
		GeminiKey string
		Model     string
	}
	Unsplash struct {
		AccessKey string
		BaseURL   string
	}
	Maps struct {
		APIKey string
	}
	Quota struct {
		MonthlyCredits int
	}
	Pipeline PipelineConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
// Returns an error listing every required variable that is unset.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("TOURVISTO_HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitCSV(envOrDefault("CORS_ORIGINS", "http://localhost:5173"))
	cfg.Log.Level = envOrDefault("LOG_LEVEL", "info")

	cfg.Firebase.ProjectID = os.Getenv("TOURVISTO_FIREBASE_PROJECT_ID")
	cfg.Firebase.CredentialsFile = os.Getenv("TOURVISTO_FIREBASE_CREDENTIALS")

	// Optional backends: an empty value disables the dependent feature.
	cfg.DB.DSN = os.Getenv("TOURVISTO_DB_DSN")
	cfg.Redis.Addr = os.Getenv("TOURVISTO_REDIS_ADDR")
	cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")

	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.AI.Model = envOrDefault("TOURVISTO_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.Unsplash.AccessKey = os.Getenv("UNSPLASH_ACCESS_KEY")
	cfg.Unsplash.BaseURL = envOrDefault("TOURVISTO_UNSPLASH_URL", "https://api.unsplash.com")

	cfg.Quota.MonthlyCredits = envOrDefaultInt("TOURVISTO_MONTHLY_CREDITS", 20)

	cfg.Pipeline.GenerationTimeout = envOrDefaultDuration("TOURVISTO_GENERATION_TIMEOUT", 60*time.Second)
	cfg.Pipeline.PhotoTimeout = envOrDefaultDuration("TOURVISTO_PHOTO_TIMEOUT", 10*time.Second)
	cfg.Pipeline.GeocodeTimeout = envOrDefaultDuration("TOURVISTO_GEOCODE_TIMEOUT", 5*time.Second)
	cfg.Pipeline.StoreTimeout = envOrDefaultDuration("TOURVISTO_STORE_TIMEOUT", 10*time.Second)
	cfg.Pipeline.QuotaTimeout = envOrDefaultDuration("TOURVISTO_QUOTA_TIMEOUT", 5*time.Second)
	cfg.Pipeline.MaxImages = envOrDefaultInt("TOURVISTO_MAX_IMAGES", 3)

	var missing []string
	for key, v := range map[string]string{
		"GEMINI_API_KEY":                cfg.AI.GeminiKey,
		"UNSPLASH_ACCESS_KEY":           cfg.Unsplash.AccessKey,
		"TOURVISTO_FIREBASE_PROJECT_ID": cfg.Firebase.ProjectID,
	} {
		if v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
