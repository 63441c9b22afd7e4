// Package geocode resolves destination locations to coordinates for map
// display. Presentation-layer only: a geocoding failure omits coordinates
// and never affects search results.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Coordinates is a geocoded point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client is a Nominatim geocoding client. Requests are rate-limited to
// 1/s per the Nominatim usage policy, and results are cached in-process:
// the catalog is small and place names never change mid-run.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger

	mu    sync.Mutex
	cache map[string]*Coordinates // nil value = known failure, don't retry
}

// New creates a Nominatim client.
func New(baseURL, userAgent string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		logger:    logger,
		cache:     make(map[string]*Coordinates),
	}
}

// Lookup geocodes a free-form place string. Returns (nil, false) on any
// failure; callers render the result without a map pin.
func (c *Client) Lookup(ctx context.Context, place string) (*Coordinates, bool) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, false
	}

	c.mu.Lock()
	cached, ok := c.cache[place]
	c.mu.Unlock()
	if ok {
		return cached, cached != nil
	}

	coords := c.fetch(ctx, place)

	c.mu.Lock()
	c.cache[place] = coords
	c.mu.Unlock()

	return coords, coords != nil
}

func (c *Client) fetch(ctx context.Context, place string) *Coordinates {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("geocode request failed", zap.String("place", place), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("geocode non-200", zap.String("place", place), zap.Int("status", resp.StatusCode))
		return nil
	}

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil || len(hits) == 0 {
		c.logger.Debug("geocode empty response", zap.String("place", place), zap.Error(err))
		return nil
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil
	}

	return &Coordinates{Latitude: lat, Longitude: lon}
}
