package statsapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name string
	data map[string]int
}

func (f fakeProvider) Name() string         { return f.name }
func (f fakeProvider) Stats() interface{}   { return f.data }

func TestHealthzReturnsHealthy(t *testing.T) {
	s := NewServer("127.0.0.1:0", "v0.0.0-test", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
}

func TestStatsAggregatesRegisteredProviders(t *testing.T) {
	s := NewServer("127.0.0.1:0", "v0.0.0-test", nil)
	s.Register(fakeProvider{name: "storage", data: map[string]int{"segments": 3}})
	s.Register(fakeProvider{name: "fanout", data: map[string]int{"published": 42}})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	components := body["components"].(map[string]interface{})
	require.Contains(t, components, "storage")
	require.Contains(t, components, "fanout")
	require.Equal(t, "v0.0.0-test", body["version"])
}

func TestStatsWithNoProvidersStillSucceeds(t *testing.T) {
	s := NewServer("127.0.0.1:0", "v0", nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
