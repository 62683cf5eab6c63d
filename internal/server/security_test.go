package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSecuredServer(t *testing.T, sec SecurityConfig) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(Config{Parallelism: 2, Security: sec}, newTestLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func sortRequest(t *testing.T, method, url, origin, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url+"/v1/sort", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDefaultSecurityConfig(t *testing.T) {
	t.Parallel()
	c := DefaultSecurityConfig()

	assert.True(t, c.EnableCORS)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, c.AllowedMethods)
	assert.Equal(t, 10_000_000, c.MaxElements)
	assert.Equal(t, int64(512<<20), c.MaxBodyBytes)
}

func TestSortEndpoint_SecurityHeaders(t *testing.T) {
	t.Parallel()
	_, ts := newSecuredServer(t, DefaultSecurityConfig())

	tests := []struct {
		name string
		body string
		code int
	}{
		{"sorted", `{"values":[3,1,2]}`, http.StatusOK},
		{"rejected", `{"values":[1],"partitions":-2}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sortRequest(t, http.MethodPost, ts.URL, "", tt.body)
			require.Equal(t, tt.code, resp.StatusCode)

			h := resp.Header
			assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
			assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
			assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
			assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", h.Get("Content-Security-Policy"))
		})
	}
}

func TestSortEndpoint_Preflight(t *testing.T) {
	t.Parallel()
	s, ts := newSecuredServer(t, DefaultSecurityConfig())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/sort", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", resp.Header.Get("Access-Control-Max-Age"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	// The preflight is answered before the sort handler and its metrics.
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/v1/sort", "204")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.activeRequests))
}

func TestSortEndpoint_OriginAllowlist(t *testing.T) {
	t.Parallel()
	_, ts := newSecuredServer(t, SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"https://bench.example"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		MaxElements:    100,
		MaxBodyBytes:   1 << 20,
	})

	tests := []struct {
		name, origin, wantAllow string
	}{
		{"listed origin is echoed", "https://bench.example", "https://bench.example"},
		{"other origin gets no grant", "https://evil.example", ""},
		{"same-origin request", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sortRequest(t, http.MethodPost, ts.URL, tt.origin, `{"values":[2,1]}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantAllow, resp.Header.Get("Access-Control-Allow-Origin"))
			if tt.wantAllow != "" {
				assert.Equal(t, "POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
			}

			var out SortResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, []float64{1, 2}, out.Values)
		})
	}
}

func TestSortEndpoint_CORSDisabled(t *testing.T) {
	t.Parallel()
	sec := DefaultSecurityConfig()
	sec.EnableCORS = false
	_, ts := newSecuredServer(t, sec)

	resp := sortRequest(t, http.MethodPost, ts.URL, "https://bench.example", `{"values":[1]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestSortEndpoint_RequestLimits(t *testing.T) {
	t.Parallel()
	_, ts := newSecuredServer(t, SecurityConfig{
		AllowedMethods: []string{"POST"},
		MaxElements:    3,
		MaxBodyBytes:   64,
	})

	tests := []struct {
		name    string
		body    string
		code    int
		wantErr string
	}{
		{"at element limit", `{"values":[3,2,1]}`, http.StatusOK, ""},
		{"over element limit", `{"values":[4,3,2,1]}`, http.StatusBadRequest, "too many values: 4 (max 3)"},
		{"over body limit", `{"values":[` + strings.Repeat("1,", 40) + `1]}`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sortRequest(t, http.MethodPost, ts.URL, "", tt.body)
			require.Equal(t, tt.code, resp.StatusCode)
			if tt.wantErr == "" {
				return
			}
			var out ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Contains(t, out.Error, tt.wantErr)
			assert.Nil(t, out.Partition)
		})
	}
}
