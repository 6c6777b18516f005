package sleeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func testClient(t *testing.T, handler http.Handler, cache Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:        srv.URL,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		Cache:          cache,
	})
}

func TestClient_League(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/league/123", r.URL.Path)
		w.Write([]byte(`{"league_id":"123","name":"Test League","season":"2024"}`))
	}), NoopCache{})

	league, err := client.League(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Test League", league.Name)
	assert.Equal(t, "2024", league.Season)
}

func TestClient_NotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), NoopCache{})

	_, err := client.League(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_CachesResponses(t *testing.T) {
	calls := 0
	cache := newMemoryCache()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"roster_id":1,"owner_id":"u1","players":["p1"],"starters":["p1"]}]`))
	}), cache)

	ctx := context.Background()
	first, err := client.Rosters(ctx, "123")
	require.NoError(t, err)
	second, err := client.Rosters(ctx, "123")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second fetch must be served from cache")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
}

func TestClient_CircuitBreakerOpensOnSustainedFailures(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), NoopCache{})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := client.League(ctx, "123")
		require.Error(t, err)
	}
	// The breaker is open now; the request never reaches the server.
	_, err := client.League(ctx, "123")
	assert.ErrorContains(t, err, "circuit breaker is open")
}

type recordedFetch struct {
	endpoint string
	outcome  string
}

type fetchLog struct {
	mu     sync.Mutex
	events []recordedFetch
}

func (l *fetchLog) RecordFetch(endpoint, outcome string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, recordedFetch{endpoint, outcome})
}

func TestClient_RecordsFetchOutcomes(t *testing.T) {
	fails := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"league_id":"123","name":"Test League"}`))
	}))
	t.Cleanup(srv.Close)

	fetches := &fetchLog{}
	client := NewClient(Config{
		BaseURL:        srv.URL,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		Cache:          newMemoryCache(),
		Fetches:        fetches,
	})

	ctx := context.Background()
	_, err := client.League(ctx, "123")
	require.NoError(t, err)
	_, err = client.League(ctx, "123")
	require.NoError(t, err)

	fails = true
	_, err = client.Users(ctx, "123")
	require.Error(t, err)

	assert.Equal(t, []recordedFetch{
		{"league", "success"},
		{"league", "cache_hit"},
		{"users", "error"},
	}, fetches.events)
}

func TestClient_SeasonStatsExtractsKnownKeys(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/nfl/regular/2024", r.URL.Path)
		w.Write([]byte(`{"p1":{"gp":10,"pts_ppr":187.5,"rush_td":6,"rush_yd":812,"unknown_key":3}}`))
	}), NoopCache{})

	stats, err := client.SeasonStats(context.Background(), 2024)
	require.NoError(t, err)
	st := stats["p1"]
	assert.Equal(t, 10, st.GamesPlayed)
	assert.InDelta(t, 187.5, st.FantasyPoints, 1e-9)
	assert.Equal(t, 6, st.RushingTDs)
	assert.Equal(t, 812, st.RushingYards)
}

func TestRedisCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db)
	ctx := context.Background()

	mock.ExpectGet("sleeper:/league/1").RedisNil()
	_, ok, err := cache.Get(ctx, "sleeper:/league/1")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`{"league_id":"1"}`)
	mock.ExpectSet("sleeper:/league/1", payload, time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "sleeper:/league/1", payload, time.Minute))

	mock.ExpectGet("sleeper:/league/1").SetVal(string(payload))
	data, ok, err := cache.Get(ctx, "sleeper:/league/1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, data)

	assert.NoError(t, mock.ExpectationsWereMet())
}
