package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/sorting"
)

// Outcome label values of parsort_sorts_total.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
	OutcomeInvalid  = "invalid"
)

// SortMetrics records coordinator activity as Prometheus metrics. It
// implements sorting.Observer.
type SortMetrics struct {
	sorts        *prometheus.CounterVec
	partitions   prometheus.Counter
	workerFaults *prometheus.CounterVec
	duration     prometheus.Histogram
	mergeRounds  prometheus.Histogram
	workerTime   prometheus.Histogram
}

var _ sorting.Observer = (*SortMetrics)(nil)

// NewSortMetrics creates the sort metrics and registers them with reg.
func NewSortMetrics(reg prometheus.Registerer) *SortMetrics {
	m := &SortMetrics{
		sorts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parsort_sorts_total",
			Help: "Total number of sort calls by outcome",
		}, []string{"outcome"}),
		partitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parsort_partitions_total",
			Help: "Total number of partitions dispatched to workers",
		}),
		workerFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parsort_worker_faults_total",
			Help: "Total number of failed workers by fault kind",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parsort_sort_duration_seconds",
			Help:    "Duration of sort calls",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		mergeRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parsort_merge_rounds",
			Help:    "Number of pairwise merge rounds per successful sort",
			Buckets: prometheus.LinearBuckets(0, 1, 9),
		}),
		workerTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parsort_worker_duration_seconds",
			Help:    "Time each worker spent on its partition",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	reg.MustRegister(m.sorts, m.partitions, m.workerFaults, m.duration, m.mergeRounds, m.workerTime)
	return m
}

// OnStateChange implements sorting.Observer.
func (m *SortMetrics) OnStateChange(sorting.State, sorting.State) {}

// OnPartitionsPlanned implements sorting.Observer.
func (m *SortMetrics) OnPartitionsPlanned(partitions, _ int) {
	m.partitions.Add(float64(partitions))
}

// OnWorkerDone implements sorting.Observer.
func (m *SortMetrics) OnWorkerDone(_ sorting.Partition, elapsed time.Duration, err error) {
	m.workerTime.Observe(elapsed.Seconds())
	var partErr *apperrors.PartitionError
	if errors.As(err, &partErr) {
		m.workerFaults.WithLabelValues(partErr.Kind.String()).Inc()
	}
}

// OnSortDone implements sorting.Observer.
func (m *SortMetrics) OnSortDone(_, mergeRounds int, elapsed time.Duration, err error) {
	m.duration.Observe(elapsed.Seconds())
	m.sorts.WithLabelValues(Outcome(err)).Inc()
	if err == nil {
		m.mergeRounds.Observe(float64(mergeRounds))
	}
}

// Outcome classifies a sort error into a parsort_sorts_total label.
func Outcome(err error) string {
	var validationErr apperrors.ValidationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.IsContextError(err):
		return OutcomeCanceled
	case errors.As(err, &validationErr):
		return OutcomeInvalid
	default:
		return OutcomeFailure
	}
}
