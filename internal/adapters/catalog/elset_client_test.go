package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/adapters/catalog"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/infrastructure/config"
)

func newTestClient(t *testing.T, serverURL string, clock shared.Clock) *catalog.ElsetClient {
	t.Helper()
	cfg := &config.CatalogConfig{
		BaseURL:  serverURL,
		Username: "udl-user",
		Password: "udl-pass",
		Timeout:  5 * time.Second,
		CacheTTL: time.Hour,
		RateLimit: config.RateConfig{
			Requests: 100,
			Burst:    100,
		},
	}
	return catalog.NewElsetClient(cfg, clock, nil)
}

func TestCurrentElsetSendsBasicAuthAndParsesResponse(t *testing.T) {
	var gotPath, gotSatNo string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSatNo = r.URL.Query().Get("satNo")
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "udl-user", user)
		assert.Equal(t, "udl-pass", pass)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"satNo": 40258,
				"epoch": "2026-03-01T00:00:00Z",
				"line1": "1 40258U 14052A   26060.00000000  .00000000  00000-0  00000-0 0  9990",
				"line2": "2 40258   0.0200 100.0000 0000500 180.0000 180.0000  1.00270000 41000",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	elset, err := client.CurrentElset(context.Background(), 40258)

	require.NoError(t, err)
	require.NotNil(t, elset)
	assert.Equal(t, "/elset/current", gotPath)
	assert.Equal(t, "40258", gotSatNo)
	assert.Equal(t, 40258, elset.SatNo)
	assert.Contains(t, elset.Line1, "40258U")
}

func TestFetchCachesWithinTTL(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"satNo": 40258}})
	}))
	defer server.Close()

	clock := shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	client := newTestClient(t, server.URL, clock)

	_, err := client.CurrentElset(context.Background(), 40258)
	require.NoError(t, err)
	_, err = client.CurrentElset(context.Background(), 40258)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	clock.Advance(2 * time.Hour)

	_, err = client.CurrentElset(context.Background(), 40258)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestHistoricalElsetsCachePerDay(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/elset/history", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"satNo": 40258}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, shared.NewManualClock(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))

	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	_, err := client.HistoricalElsets(context.Background(), 40258, day1)
	require.NoError(t, err)
	_, err = client.HistoricalElsets(context.Background(), 40258, day1)
	require.NoError(t, err)
	_, err = client.HistoricalElsets(context.Background(), 40258, day2)
	require.NoError(t, err)

	assert.Equal(t, 2, hits)
}

func TestTransientFailureReturnsNilNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	elset, err := client.CurrentElset(context.Background(), 40258)

	require.NoError(t, err)
	assert.Nil(t, elset)
}

func TestCancelledContextSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CurrentElset(ctx, 40258)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	clock := shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	cb := catalog.NewCircuitBreaker(3, time.Minute, clock)
	boom := errors.New("catalog down")

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(func() error { return boom }), boom)
	}
	assert.Equal(t, catalog.CircuitOpen, cb.GetState())

	// While open, calls are rejected without running the function.
	ran := false
	err := cb.Call(func() error { ran = true; return nil })
	assert.ErrorIs(t, err, catalog.ErrCircuitOpen)
	assert.False(t, ran)
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	clock := shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	cb := catalog.NewCircuitBreaker(1, time.Minute, clock)

	require.Error(t, cb.Call(func() error { return errors.New("down") }))
	require.Equal(t, catalog.CircuitOpen, cb.GetState())

	clock.Advance(2 * time.Minute)

	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, catalog.CircuitClosed, cb.GetState())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := shared.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	cb := catalog.NewCircuitBreaker(1, time.Minute, clock)

	require.Error(t, cb.Call(func() error { return errors.New("down") }))
	clock.Advance(2 * time.Minute)
	require.Error(t, cb.Call(func() error { return errors.New("still down") }))

	assert.Equal(t, catalog.CircuitOpen, cb.GetState())
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := catalog.NewCircuitBreaker(1, time.Minute, nil)

	require.Error(t, cb.Call(func() error { return errors.New("down") }))
	require.Equal(t, catalog.CircuitOpen, cb.GetState())

	cb.Reset()

	assert.Equal(t, catalog.CircuitClosed, cb.GetState())
}
