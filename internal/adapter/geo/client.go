package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

const cacheKey = "geo:regions"

// Client fetches per-region per-capita emission metrics from an external
// dataset endpoint. Responses are cached; entries with missing coordinates
// or non-finite values are dropped before they reach the map layer.
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	cache    ports.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

type regionPayload struct {
	Region         string  `json:"region"`
	PerCapitaCo2Kg float64 `json:"per_capita_co2_kg"`
	PerCapitaCh4Kg float64 `json:"per_capita_ch4_kg"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

func NewClient(endpoint string, cache ports.Cache, cacheTTL time.Duration, log *zap.Logger) ports.GeoService {
	if cacheTTL <= 0 {
		cacheTTL = 6 * time.Hour
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "geo-dataset",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		breaker:  cb,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (c *Client) RegionEmissions(ctx context.Context) ([]domain.RegionEmission, error) {
	if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var regions []domain.RegionEmission
		if err := json.Unmarshal([]byte(cached), &regions); err == nil {
			return regions, nil
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	regions := result.([]domain.RegionEmission)

	if data, err := json.Marshal(regions); err == nil {
		if err := c.cache.Set(ctx, cacheKey, string(data), c.cacheTTL); err != nil {
			c.log.Warn("Failed to cache geo dataset", zap.Error(err))
		}
	}
	return regions, nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.RegionEmission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo dataset returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}

	var payload []regionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode geo dataset: %w", err)
	}

	regions := make([]domain.RegionEmission, 0, len(payload))
	dropped := 0
	for _, p := range payload {
		if !validRegion(p) {
			dropped++
			continue
		}
		regions = append(regions, domain.RegionEmission{
			Region:         p.Region,
			PerCapitaCo2Kg: p.PerCapitaCo2Kg,
			PerCapitaCh4Kg: p.PerCapitaCh4Kg,
			Latitude:       p.Latitude,
			Longitude:      p.Longitude,
		})
	}
	if dropped > 0 {
		c.log.Debug("Dropped invalid geo entries", zap.Int("count", dropped))
	}
	return regions, nil
}

func validRegion(p regionPayload) bool {
	if p.Region == "" {
		return false
	}
	for _, v := range []float64{p.PerCapitaCo2Kg, p.PerCapitaCh4Kg, p.Latitude, p.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if p.Latitude == 0 && p.Longitude == 0 {
		return false
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return false
	}
	if p.PerCapitaCo2Kg < 0 || p.PerCapitaCh4Kg < 0 {
		return false
	}
	return true
}
