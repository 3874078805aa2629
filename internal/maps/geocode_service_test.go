package maps

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *GeocodeService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc, err := NewGeocodeService("AIzaTestKey", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return svc
}

func TestLocate(t *testing.T) {
	var gotAddress string
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [{
				"formatted_address": "Tokyo, Japan",
				"geometry": {"location": {"lat": 35.6764, "lng": 139.65}}
			}]
		}`)
	})

	pt, err := svc.Locate(context.Background(), "Tokyo, Japan")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo, Japan", gotAddress)
	assert.InDelta(t, 35.6764, pt.Lat, 1e-9)
	assert.InDelta(t, 139.65, pt.Lng, 1e-9)
}

func TestLocate_NoMatch(t *testing.T) {
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})

	_, err := svc.Locate(context.Background(), "Atlantis")
	assert.Error(t, err)
}

func TestLocate_Denied(t *testing.T) {
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)
	})

	_, err := svc.Locate(context.Background(), "Tokyo")
	assert.Error(t, err)
}
