package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	cacheKeyPrefix = "geocode:"
	cacheTTL       = 24 * time.Hour
	maxResults     = 5
)

type Result struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
}

// nominatimResult is the wire shape of a Nominatim-style search hit.
// Coordinates arrive as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Client resolves free-text addresses to coordinates. Lookups are
// best-effort: callers are expected to proceed without coordinates when
// Search returns an error or no results.
type Client struct {
	httpClient *resty.Client
	cache      *redis.Client
	log        *logrus.Entry
}

func NewClient(baseURL string, cache *redis.Client, log *logrus.Entry) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "clinic-service/1.0")

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		log:        log,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" {
		return nil, nil
	}

	if cached, ok := c.fromCache(ctx, query); ok {
		return cached, nil
	}

	var raw []nominatimResult
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  strconv.Itoa(maxResults),
		}).
		SetResult(&raw).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocode request failed: status %d", resp.StatusCode())
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		results = append(results, Result{
			DisplayName: r.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
		})
	}

	c.toCache(ctx, query, results)

	return results, nil
}

func (c *Client) fromCache(ctx context.Context, query string) ([]Result, bool) {
	if c.cache == nil {
		return nil, false
	}

	data, err := c.cache.Get(ctx, cacheKeyPrefix+query).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debugf("geocode cache read failed: %v", err)
		}
		return nil, false
	}

	var results []Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		return nil, false
	}
	return results, true
}

func (c *Client) toCache(ctx context.Context, query string, results []Result) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKeyPrefix+query, data, cacheTTL).Err(); err != nil {
		c.log.Debugf("geocode cache write failed: %v", err)
	}
}
