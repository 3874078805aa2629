// README: Unsplash search client returning destination photo URLs for generated trips.
package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.unsplash.com"
	DefaultMaxImages = 3
)

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
	Errors []string `json:"errors,omitempty"`
}

// UnsplashClient searches photos by destination and interests.
type UnsplashClient struct {
	baseURL   string
	accessKey string
	maxImages int
	http      *http.Client
	log       *slog.Logger
}

func NewUnsplashClient(baseURL, accessKey string, maxImages int, logger *slog.Logger) *UnsplashClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnsplashClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		maxImages: maxImages,
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       logger.With("module", "photos"),
	}
}

// Search returns up to maxImages photo URLs re-encoded as webp.
// Any failure is logged and yields an empty slice.
func (c *UnsplashClient) Search(ctx context.Context, destination, interests, travelStyle string) []string {
	urls, err := c.search(ctx, destination+" "+interests+" "+travelStyle)
	if err != nil {
		c.log.WarnContext(ctx, "photo search failed", "destination", destination, "error", err)
		return []string{}
	}
	return urls
}

func (c *UnsplashClient) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("client_id", c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build request: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unsplash: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unsplash: status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("unsplash: unmarshal response: %w", err)
	}
	if len(sr.Errors) > 0 {
		return nil, fmt.Errorf("unsplash: api error: %s", strings.Join(sr.Errors, "; "))
	}

	// Only the leading maxImages results are considered; a blank one is dropped, not replaced.
	top := sr.Results[:min(len(sr.Results), c.maxImages)]
	out := make([]string, 0, len(top))
	for _, r := range top {
		if r.URLs.Regular == "" {
			continue
		}
		out = append(out, toWebP(r.URLs.Regular))
	}
	return out, nil
}

// toWebP swaps the first fm=jpg parameter for fm=webp.
func toWebP(u string) string {
	return strings.Replace(u, "fm=jpg", "fm=webp", 1)
}
