package orchestration

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/progress"
	"github.com/agbru/parsort/internal/sorting"
	"github.com/agbru/parsort/internal/sorting/mocks"
)

// mockPresenter records presenter calls and maps errors like the CLI does.
type mockPresenter struct {
	tables    int
	presented []BenchmarkResult
}

func (m *mockPresenter) PresentComparisonTable([]BenchmarkResult, io.Writer) { m.tables++ }
func (m *mockPresenter) PresentResult(result BenchmarkResult, _ PresentationOptions, _ io.Writer) {
	m.presented = append(m.presented, result)
}
func (m *mockPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	return apperrors.ExitCodeFor(err)
}

// recordingReporter collects every progress update.
type recordingReporter struct {
	mu      sync.Mutex
	updates []progress.ProgressUpdate
}

func (r *recordingReporter) DisplayProgress(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for u := range ch {
		r.mu.Lock()
		r.updates = append(r.updates, u)
		r.mu.Unlock()
	}
}

func TestGenerateInput(t *testing.T) {
	t.Parallel()
	a := GenerateInput(10_000, 42)
	b := GenerateInput(10_000, 42)
	c := GenerateInput(10_000, 43)

	require.Len(t, a, 10_000)
	assert.Equal(t, a, b, "same seed must give the same input")
	assert.NotEqual(t, a, c, "different seeds should give different inputs")
	for _, v := range a {
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, float64(InputRange))
		require.Equal(t, float64(int(v)), v, "values must be integral")
	}
	assert.Empty(t, GenerateInput(0, 1))
}

func TestExecuteBenchmarks_RealAlgorithms(t *testing.T) {
	t.Parallel()
	registry := sorting.NewDefaultRegistry(sorting.WithParallelism(4))
	algos := GetAlgorithmsToRun("all", registry)
	require.Len(t, algos, 3)

	reporter := &recordingReporter{}
	results := ExecuteBenchmarks(context.Background(), algos, []int{1_000, 5_000}, 7, reporter, io.Discard)

	require.Len(t, results, 6)
	for i, res := range results {
		require.NoError(t, res.Err, "result %d (%s)", i, res.Algorithm)
		assert.True(t, slices.IsSorted(res.Output))
	}
	assert.Equal(t, 1_000, results[0].Size)
	assert.Equal(t, 5_000, results[5].Size)
	assert.Equal(t, []string{"builtin", "mergesort", "parallel"},
		[]string{results[0].Algorithm, results[1].Algorithm, results[2].Algorithm})

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	require.Len(t, reporter.updates, 6)
	last := reporter.updates[len(reporter.updates)-1]
	assert.Equal(t, 2, last.Index)
	assert.InDelta(t, 1.0, last.Value, 1e-9)

	presenter := &mockPresenter{}
	code := AnalyzeBenchmarkResults(results, PresentationOptions{}, presenter, presenter, io.Discard)
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Equal(t, 1, presenter.tables)
	assert.Len(t, presenter.presented, 2, "one fastest result per size")
}

func TestExecuteBenchmarks_WithMockAlgorithm(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := GenerateInput(8, 3)
	sorted := slices.Clone(input)
	slices.Sort(sorted)

	algo := mocks.NewMockAlgorithm(ctrl)
	algo.EXPECT().Name().Return("mock").AnyTimes()
	algo.EXPECT().Sort(gomock.Any(), input).Return(sorted, nil).Times(1)

	results := ExecuteBenchmarks(context.Background(), []sorting.Algorithm{algo}, []int{8}, 3, NullProgressReporter{}, io.Discard)
	require.Len(t, results, 1)
	assert.Equal(t, "mock", results[0].Algorithm)
	assert.Equal(t, sorted, results[0].Output)
	assert.NoError(t, results[0].Err)
}

func TestExecuteBenchmarks_CanceledSkipsRemaining(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())

	first := mocks.NewMockAlgorithm(ctrl)
	first.EXPECT().Name().Return("first").AnyTimes()
	first.EXPECT().Sort(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []float64) ([]float64, error) {
		cancel()
		return []float64{}, nil
	}).Times(1)

	second := mocks.NewMockAlgorithm(ctrl)
	second.EXPECT().Name().Return("second").AnyTimes()

	results := ExecuteBenchmarks(ctx, []sorting.Algorithm{first, second}, []int{0, 10}, 1, NullProgressReporter{}, io.Discard)
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	for _, res := range results[1:] {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}

	presenter := &mockPresenter{}
	code := AnalyzeBenchmarkResults(results, PresentationOptions{}, presenter, presenter, io.Discard)
	assert.Equal(t, apperrors.ExitErrorCanceled, code)
}

func TestAnalyzeBenchmarkResults(t *testing.T) {
	t.Parallel()
	sorted := []float64{1, 2, 3}
	tests := []struct {
		name           string
		results        []BenchmarkResult
		expectedStatus int
	}{
		{
			name: "All success",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Output: sorted, Duration: time.Millisecond},
				{Algorithm: "B", Size: 3, Output: sorted, Duration: 2 * time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Mismatch",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Output: sorted},
				{Algorithm: "B", Size: 3, Output: []float64{1, 2, 4}},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "Unordered output",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Output: []float64{3, 1, 2}},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Err: errors.New("fail")},
				{Algorithm: "B", Size: 3, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "All timed out",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Err: context.DeadlineExceeded},
			},
			expectedStatus: apperrors.ExitErrorTimeout,
		},
		{
			name: "Mixed success/failure",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Output: sorted},
				{Algorithm: "B", Size: 3, Err: apperrors.NewWorkerFault(1, errors.New("fail"))},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Sizes compared independently",
			results: []BenchmarkResult{
				{Algorithm: "A", Size: 3, Output: sorted},
				{Algorithm: "A", Size: 2, Output: []float64{5, 6}},
				{Algorithm: "B", Size: 3, Output: sorted},
				{Algorithm: "B", Size: 2, Output: []float64{5, 6}},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &mockPresenter{}
			status := AnalyzeBenchmarkResults(tt.results, PresentationOptions{}, presenter, presenter, io.Discard)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestAnalyzeBenchmarkResults_PresentsFastest(t *testing.T) {
	t.Parallel()
	sorted := []float64{1, 2}
	presenter := &mockPresenter{}
	results := []BenchmarkResult{
		{Algorithm: "slow", Size: 2, Output: sorted, Duration: time.Second},
		{Algorithm: "fast", Size: 2, Output: sorted, Duration: time.Millisecond},
	}
	require.Equal(t, apperrors.ExitSuccess, AnalyzeBenchmarkResults(results, PresentationOptions{}, presenter, presenter, io.Discard))
	require.Len(t, presenter.presented, 1)
	assert.Equal(t, "fast", presenter.presented[0].Algorithm)

	quiet := &mockPresenter{}
	AnalyzeBenchmarkResults(results, PresentationOptions{Quiet: true}, quiet, quiet, io.Discard)
	assert.Empty(t, quiet.presented)
}

func TestGetAlgorithmsToRun(t *testing.T) {
	t.Parallel()
	registry := sorting.NewDefaultRegistry()

	assert.Len(t, GetAlgorithmsToRun("all", registry), 3)
	single := GetAlgorithmsToRun("parallel", registry)
	require.Len(t, single, 1)
	assert.Equal(t, "parallel", single[0].Name())
	assert.Nil(t, GetAlgorithmsToRun("bogosort", registry))
}
