package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `[
	{"display_name": "Rua das Flores 12, Porto, Portugal", "lat": "41.14340", "lon": "-8.61512"},
	{"display_name": "Rua das Flores, Lisboa, Portugal", "lat": "38.70775", "lon": "-9.14540"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, withCache bool) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var cache *redis.Client
	if withCache {
		mr := miniredis.RunT(t)
		cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}

	log := logrus.NewEntry(logrus.New())
	return NewClient(server.URL, cache, log), server
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Rua das Flores 12, Porto", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}, false)

	results, err := client.Search(context.Background(), "Rua das Flores 12, Porto")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 41.14340, results[0].Latitude)
	assert.Equal(t, -8.61512, results[0].Longitude)
}

func TestSearch_EmptyQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty query")
	}, false)

	results, err := client.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearch_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, false)

	_, err := client.Search(context.Background(), "somewhere")
	assert.Error(t, err)
}

func TestSearch_SkipsUnparsableCoordinates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name": "bad", "lat": "not-a-number", "lon": "1.0"}]`))
	}, false)

	results, err := client.Search(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_CacheHit(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}, true)

	first, err := client.Search(context.Background(), "Rua das Flores 12, Porto")
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := client.Search(context.Background(), "Rua das Flores 12, Porto")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
