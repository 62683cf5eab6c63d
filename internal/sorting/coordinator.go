package sorting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/parsort/internal/errors"
)

const tracerName = "github.com/agbru/parsort/internal/sorting"

// ErrResultLost marks a worker whose result never reached the coordinator.
// A WorkerHook error wrapping it is reported as a CommunicationFault rather
// than a WorkerFault.
var ErrResultLost = errors.New("worker result lost")

// WorkerHook runs inside a worker after it has received its partition and
// before it sorts. A non-nil error aborts that worker.
type WorkerHook func(ctx context.Context, p Partition) error

// Option configures a Coordinator.
type Option func(*config)

type config struct {
	parallelism int
	partitions  int
	pivot       PivotStrategy
	logger      zerolog.Logger
	observer    Observer
	hook        WorkerHook
	tracer      trace.Tracer
}

// WithParallelism sets the available parallelism used to plan partitions and
// to bound the number of concurrently running workers. Values below 1 select
// runtime.GOMAXPROCS(0).
func WithParallelism(p int) Option {
	return func(c *config) { c.parallelism = p }
}

// WithPartitions forces the partition count instead of deriving it from the
// input length. Values below 1 restore the automatic plan.
func WithPartitions(count int) Option {
	return func(c *config) { c.partitions = count }
}

// WithPivot selects the local sorter's pivot strategy.
func WithPivot(s PivotStrategy) Option {
	return func(c *config) { c.pivot = s }
}

// WithLogger sets the logger for coordinator events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithObserver registers an observer for lifecycle events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithWorkerHook installs a hook run by every worker before it sorts.
func WithWorkerHook(h WorkerHook) Option {
	return func(c *config) { c.hook = h }
}

// WithTracerProvider sets the OpenTelemetry provider used for spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// Coordinator runs parallel sorts. A Coordinator holds only configuration;
// every call to Sort owns its partitions, workers and results, so one
// Coordinator may serve concurrent callers.
type Coordinator[T Number] struct {
	cfg config
}

// New creates a Coordinator for element type T.
func New[T Number](opts ...Option) *Coordinator[T] {
	cfg := config{
		logger:   zerolog.Nop(),
		observer: NopObserver{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = runtime.GOMAXPROCS(0)
	}
	return &Coordinator[T]{cfg: cfg}
}

// Parallelism returns the effective parallelism of the coordinator.
func (c *Coordinator[T]) Parallelism() int { return c.cfg.parallelism }

// Plan returns the partitions the coordinator would use for n elements.
func (c *Coordinator[T]) Plan(n int) []Partition {
	if c.cfg.partitions > 0 {
		return SplitEven(n, c.cfg.partitions)
	}
	return PlanPartitions(n, c.cfg.parallelism)
}

// Sort returns a new slice holding the values of data in non-decreasing
// order. data itself is not modified.
//
// Each partition is sorted by its own worker on a pool bounded by the
// coordinator's parallelism. Sort blocks until every worker has finished,
// the first worker fails, or ctx is done. On failure no partial result is
// returned: a worker failure yields a *apperrors.PartitionError naming the
// partition, and cancellation yields an error wrapping ctx's error. Workers
// still running at that point finish in the background and their results
// are discarded.
func (c *Coordinator[T]) Sort(ctx context.Context, data []T) (sorted []T, err error) {
	start := time.Now()
	ctx, span := c.cfg.tracer.Start(ctx, "parsort.Sort",
		trace.WithAttributes(attribute.Int("parsort.elements", len(data))))
	defer span.End()

	run := &sortRun[T]{c: c, state: StateIdle}
	rounds := 0
	defer func() {
		elapsed := time.Since(start)
		c.cfg.observer.OnSortDone(len(data), rounds, elapsed, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.cfg.logger.Warn().Err(err).Int("elements", len(data)).Dur("elapsed", elapsed).Msg("sort failed")
			return
		}
		c.cfg.logger.Debug().Int("elements", len(data)).Dur("elapsed", elapsed).Msg("sort done")
	}()

	run.enter(StatePartitioning)
	if err := validate(data); err != nil {
		run.enter(StateFailed)
		return nil, err
	}
	parts := c.Plan(len(data))
	if len(parts) == 0 {
		run.enter(StateDone)
		return []T{}, nil
	}
	c.cfg.observer.OnPartitionsPlanned(len(parts), len(data))
	span.SetAttributes(attribute.Int("parsort.partitions", len(parts)))
	c.cfg.logger.Debug().
		Int("elements", len(data)).
		Int("partitions", len(parts)).
		Int("parallelism", c.cfg.parallelism).
		Msg("partitions planned")

	results, err := run.dispatchAndJoin(ctx, data, parts)
	if err != nil {
		run.enter(StateFailed)
		return nil, err
	}

	run.enter(StateMerging)
	rounds = Rounds(len(results))
	_, mergeSpan := c.cfg.tracer.Start(ctx, "parsort.merge",
		trace.WithAttributes(attribute.Int("parsort.rounds", rounds)))
	sorted = MergeAll(results)
	mergeSpan.End()

	run.enter(StateDone)
	return sorted, nil
}

// sortRun carries the state of a single Sort call.
type sortRun[T Number] struct {
	c     *Coordinator[T]
	state State
}

func (r *sortRun[T]) enter(next State) {
	prev := r.state
	r.state = next
	r.c.cfg.observer.OnStateChange(prev, next)
	r.c.cfg.logger.Trace().Str("from", prev.String()).Str("to", next.String()).Msg("state")
}

// dispatchAndJoin starts one worker per partition and waits at the join
// barrier. Workers sort disjoint sub-slices of a single clone of data and
// each writes only results[p.Index], so the slots need no lock; the
// happens-before edge from errgroup.Wait publishes them to the coordinator.
func (r *sortRun[T]) dispatchAndJoin(ctx context.Context, data []T, parts []Partition) ([][]T, error) {
	cfg := &r.c.cfg
	r.enter(StateDispatching)

	work := slices.Clone(data)
	results := make([][]T, len(parts))

	wctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var g errgroup.Group
	g.SetLimit(cfg.parallelism)

	joined := make(chan error, 1)
	go func() {
		for _, p := range parts {
			g.Go(func() error {
				if err := r.runWorker(wctx, p, work[p.Start:p.End], results); err != nil {
					cancel(err)
					return err
				}
				return nil
			})
		}
		joined <- g.Wait()
	}()

	r.enter(StateAwaitingWorkers)
	var err error
	select {
	case err = <-joined:
	case <-wctx.Done():
	}
	if wctx.Err() != nil {
		err = context.Cause(wctx)
	}
	if err != nil {
		var partErr *apperrors.PartitionError
		if errors.As(err, &partErr) {
			return nil, err
		}
		return nil, apperrors.WrapError(err, "sort interrupted while %s", r.state)
	}

	for _, p := range parts {
		if results[p.Index] == nil {
			return nil, apperrors.NewCommunicationFault(p.Index, ErrResultLost)
		}
	}
	return results, nil
}

func (r *sortRun[T]) runWorker(ctx context.Context, p Partition, chunk []T, results [][]T) (err error) {
	cfg := &r.c.cfg
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	start := time.Now()
	ctx, span := cfg.tracer.Start(ctx, "parsort.worker", trace.WithAttributes(
		attribute.Int("parsort.partition", p.Index),
		attribute.Int("parsort.partition.len", p.Len()),
	))
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewWorkerFault(p.Index, fmt.Errorf("worker panicked: %v", rec))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		cfg.observer.OnWorkerDone(p, time.Since(start), err)
	}()

	if cfg.hook != nil {
		if hookErr := cfg.hook(ctx, p); hookErr != nil {
			if errors.Is(hookErr, ErrResultLost) {
				return apperrors.NewCommunicationFault(p.Index, hookErr)
			}
			return apperrors.NewWorkerFault(p.Index, hookErr)
		}
	}

	QuickSortWith(chunk, cfg.pivot)
	results[p.Index] = chunk
	cfg.logger.Trace().Int("partition", p.Index).Int("len", p.Len()).Msg("partition sorted")
	return nil
}

// validate rejects NaN keys, which have no position under <.
func validate[T Number](data []T) error {
	for i, v := range data {
		if math.IsNaN(float64(v)) {
			return apperrors.ValidationError{Field: "values", Message: fmt.Sprintf("NaN at index %d", i)}
		}
	}
	return nil
}

// Sort sorts float64 values with a default Coordinator.
func Sort(ctx context.Context, data []float64) ([]float64, error) {
	return New[float64]().Sort(ctx, data)
}
