package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/infrastructure/config"
)

// Elset is one two-line element set from the catalog.
type Elset struct {
	SatNo     int       `json:"satNo"`
	Epoch     time.Time `json:"epoch"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2"`
	Source    string    `json:"source,omitempty"`
	IDOnOrbit string    `json:"idOnOrbit,omitempty"`
}

type cacheEntry struct {
	elsets    []*Elset
	fetchedAt time.Time
}

// ElsetClient fetches element sets from a Unified Data Library compatible
// endpoint. Results are cached per (satNo, date) for the configured TTL;
// transient failures return nil so callers keep propagating on the prior
// element set.
type ElsetClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *CircuitBreaker
	cacheTTL   time.Duration
	clock      shared.Clock
	log        *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewElsetClient creates the catalog client from config. A nil clock uses
// the real clock.
func NewElsetClient(cfg *config.CatalogConfig, clock shared.Clock, log *zap.Logger) *ElsetClient {
	if clock == nil {
		clock = shared.NewWallClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ElsetClient{
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		breaker:    NewCircuitBreaker(5, 60*time.Second, clock),
		cacheTTL:   cfg.CacheTTL,
		clock:      clock,
		log:        log,
		cache:      make(map[string]cacheEntry),
	}
}

// CurrentElset returns the freshest element set for a catalog number, or
// nil when the catalog is unreachable or has nothing.
func (c *ElsetClient) CurrentElset(ctx context.Context, satNo int) (*Elset, error) {
	elsets, err := c.fetch(ctx, "/elset/current", url.Values{"satNo": {fmt.Sprint(satNo)}}, satNo, "current")
	if err != nil || len(elsets) == 0 {
		return nil, err
	}
	return elsets[0], nil
}

// HistoricalElsets returns element sets with epochs on the given UTC day,
// or nil when unavailable.
func (c *ElsetClient) HistoricalElsets(ctx context.Context, satNo int, day time.Time) ([]*Elset, error) {
	dateKey := day.UTC().Format("2006-01-02")
	params := url.Values{
		"satNo": {fmt.Sprint(satNo)},
		"epoch": {dateKey},
	}
	return c.fetch(ctx, "/elset/history", params, satNo, dateKey)
}

// fetch runs one rate-limited, breaker-protected catalog request with the
// TTL cache in front. All failures are soft: the caller gets nil and the
// simulation keeps using whatever elements it already has.
func (c *ElsetClient) fetch(ctx context.Context, path string, params url.Values, satNo int, dateKey string) ([]*Elset, error) {
	key := fmt.Sprintf("%d:%s:%s", satNo, path, dateKey)

	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && c.clock.Now().Sub(entry.fetchedAt) < c.cacheTTL {
		c.mu.Unlock()
		return entry.elsets, nil
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var elsets []*Elset
	err := c.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.username, c.password)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&elsets)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn("elset fetch failed, keeping prior data",
			zap.Int("satNo", satNo), zap.String("path", path), zap.Error(err))
		return nil, nil
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{elsets: elsets, fetchedAt: c.clock.Now()}
	c.mu.Unlock()

	return elsets, nil
}
