package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/parsort/internal/logging"
	"github.com/agbru/parsort/internal/sorting"
)

func newTestLogger() logging.Logger {
	return logging.NewZerologAdapter(zerolog.Nop())
}

func scrape(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetrics_RegistriesAreIndependent(t *testing.T) {
	t.Parallel()
	a, b := NewMetrics(), NewMetrics()

	a.RecordRequest("/v1/sort", http.StatusOK)
	a.RecordRequest("/v1/sort", http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.requestsTotal.WithLabelValues("/v1/sort", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.requestsTotal.WithLabelValues("/v1/sort", "200")))
}

func TestMetrics_CountRequestsAndSorts(t *testing.T) {
	t.Parallel()
	failFourth := sorting.WithWorkerHook(func(_ context.Context, p sorting.Partition) error {
		if p.Index == 3 {
			return errors.New("injected")
		}
		return nil
	})
	s := NewServer(Config{Parallelism: 4}, newTestLogger(), failFourth)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	ok := postSort(t, ts.URL, `{"values":[4,3,2,1],"partitions":2}`)
	require.Equal(t, http.StatusOK, ok.StatusCode)
	failed := postSort(t, ts.URL, `{"values":[8,7,6,5,4,3,2,1],"partitions":4}`)
	require.Equal(t, http.StatusInternalServerError, failed.StatusCode)
	bad := postSort(t, ts.URL, `{"values":[1],"partitions":-1}`)
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/v1/sort", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/v1/sort", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/v1/sort", "400")))

	body := scrape(t, ts.URL)
	for _, want := range []string{
		`parsort_sorts_total{outcome="success"} 1`,
		`parsort_sorts_total{outcome="failure"} 1`,
		`parsort_worker_faults_total{kind="worker fault"} 1`,
		// The rejected request never reaches a coordinator.
		"parsort_partitions_total 6",
		"parsort_merge_rounds_count 1",
		"parsort_sort_duration_seconds_count 2",
	} {
		assert.Contains(t, body, want)
	}
}

func TestMetrics_ActiveRequestsWhileSorting(t *testing.T) {
	t.Parallel()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	hold := sorting.WithWorkerHook(func(_ context.Context, _ sorting.Partition) error {
		once.Do(func() { close(entered) })
		<-release
		return nil
	})
	s := NewServer(Config{Parallelism: 2}, newTestLogger(), hold)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	done := make(chan int, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/v1/sort", "application/json", strings.NewReader(`{"values":[3,1,2]}`))
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	<-entered
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.activeRequests))
	close(release)
	require.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.activeRequests))
}

func TestHandleMetrics_ScrapeCountsItself(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	body := scrape(t, ts.URL)
	assert.Contains(t, body, "parsort_active_requests 1")
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "parsort_partitions_total 0")
}

func TestHandleMetrics_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req, err := http.NewRequest(method, ts.URL+"/metrics", http.NoBody)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
	}
}
