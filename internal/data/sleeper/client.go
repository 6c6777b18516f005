// Package sleeper fetches league data from the Sleeper fantasy API and
// assembles immutable snapshots for the ranking engines. The API is
// read-only and unauthenticated; the client rate-limits itself, trips a
// circuit breaker on sustained failures and caches responses in Redis.
package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Sleeper API root.
const DefaultBaseURL = "https://api.sleeper.app/v1"

// ErrNotFound marks a 404 from the API, distinct from transport failures.
var ErrNotFound = errors.New("resource not found")

// Cache is the response cache surface. Get returns redis.Nil-compatible
// misses as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache backs the response cache with Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache wraps a Redis client as a response cache.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// FetchRecorder counts upstream fetches by endpoint and outcome.
type FetchRecorder interface {
	RecordFetch(endpoint, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordFetch(string, string) {}

// Config parameterizes the client.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Cache          Cache
	CacheTTL       time.Duration
	Fetches        FetchRecorder
}

// Client is the rate-limited, circuit-broken Sleeper API client.
type Client struct {
	http     *http.Client
	baseURL  string
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	cache    Cache
	cacheTTL time.Duration
	fetches  FetchRecorder
}

// NewClient builds a client, filling unset config fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.Cache == nil {
		cfg.Cache = NoopCache{}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.Fetches == nil {
		cfg.Fetches = noopRecorder{}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sleeper",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		baseURL:  cfg.BaseURL,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		breaker:  breaker,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		fetches:  cfg.Fetches,
	}
}

// getJSON fetches a path and decodes it into out, consulting the cache
// first. A 404 surfaces ErrNotFound and never trips the breaker. Every
// request is counted against the endpoint label as cache_hit, success or
// error.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out interface{}) error {
	key := "sleeper:" + path
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cache read failed, fetching from API")
	} else if ok {
		c.fetches.RecordFetch(endpoint, "cache_hit")
		return json.Unmarshal(data, out)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, path)
	})
	if err != nil {
		c.fetches.RecordFetch(endpoint, "error")
		return err
	}
	c.fetches.RecordFetch(endpoint, "success")
	data := body.([]byte)

	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cache write failed")
	}
	return json.Unmarshal(data, out)
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sleeper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sleeper returned status %d for %s", resp.StatusCode, path)
	}
	return io.ReadAll(resp.Body)
}

// League fetches league metadata.
func (c *Client) League(ctx context.Context, leagueID string) (*League, error) {
	var out League
	if err := c.getJSON(ctx, "league", "/league/"+leagueID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rosters fetches all rosters in a league.
func (c *Client) Rosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var out []Roster
	if err := c.getJSON(ctx, "rosters", "/league/"+leagueID+"/rosters", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users fetches the league members.
func (c *Client) Users(ctx context.Context, leagueID string) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "users", "/league/"+leagueID+"/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Matchups fetches one week's head-to-head pairings.
func (c *Client) Matchups(ctx context.Context, leagueID string, week int) ([]Matchup, error) {
	var out []Matchup
	if err := c.getJSON(ctx, "matchups", fmt.Sprintf("/league/%s/matchups/%d", leagueID, week), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Players fetches the full NFL player directory keyed by player ID.
func (c *Client) Players(ctx context.Context) (map[string]Player, error) {
	var out map[string]Player
	if err := c.getJSON(ctx, "players", "/players/nfl", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SeasonStats fetches season stat lines keyed by player ID.
func (c *Client) SeasonStats(ctx context.Context, season int) (map[string]SeasonStats, error) {
	var out map[string]SeasonStats
	if err := c.getJSON(ctx, "stats", fmt.Sprintf("/stats/nfl/regular/%d", season), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Drafts fetches the league's draft references.
func (c *Client) Drafts(ctx context.Context, leagueID string) ([]Draft, error) {
	var out []Draft
	if err := c.getJSON(ctx, "drafts", "/league/"+leagueID+"/drafts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DraftPicks fetches every selection in a draft.
func (c *Client) DraftPicks(ctx context.Context, draftID string) ([]DraftPick, error) {
	var out []DraftPick
	if err := c.getJSON(ctx, "draft_picks", "/draft/"+draftID+"/picks", &out); err != nil {
		return nil, err
	}
	return out, nil
}
