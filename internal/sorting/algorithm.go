//go:generate mockgen -source=algorithm.go -destination=mocks/mock_algorithm.go -package=mocks

package sorting

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Algorithm is a named float64 sorting strategy. Implementations return a
// new ordered slice and leave their input untouched.
type Algorithm interface {
	// Name returns the registry key of the algorithm.
	Name() string
	// Sort returns the values of data in non-decreasing order.
	Sort(ctx context.Context, data []float64) ([]float64, error)
}

// ParallelAlgorithm adapts a Coordinator to the Algorithm interface.
type ParallelAlgorithm struct {
	Coordinator *Coordinator[float64]
}

// NewParallelAlgorithm creates the "parallel" algorithm.
func NewParallelAlgorithm(opts ...Option) *ParallelAlgorithm {
	return &ParallelAlgorithm{Coordinator: New[float64](opts...)}
}

// Name implements Algorithm.
func (*ParallelAlgorithm) Name() string { return "parallel" }

// Sort implements Algorithm.
func (a *ParallelAlgorithm) Sort(ctx context.Context, data []float64) ([]float64, error) {
	return a.Coordinator.Sort(ctx, data)
}

// MergeSortAlgorithm is the single-goroutine top-down merge sort baseline.
type MergeSortAlgorithm struct{}

// Name implements Algorithm.
func (MergeSortAlgorithm) Name() string { return "mergesort" }

// Sort implements Algorithm.
func (MergeSortAlgorithm) Sort(ctx context.Context, data []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return MergeSort(data), nil
}

// MergeSort returns a sorted copy of data using recursive top-down merge
// sort on a single goroutine.
func MergeSort[T Number](data []T) []T {
	if len(data) <= 1 {
		return slices.Clone(data)
	}
	mid := len(data) / 2
	return Merge(MergeSort(data[:mid]), MergeSort(data[mid:]))
}

// BuiltinAlgorithm sorts a copy with the standard library's slices.Sort.
type BuiltinAlgorithm struct{}

// Name implements Algorithm.
func (BuiltinAlgorithm) Name() string { return "builtin" }

// Sort implements Algorithm.
func (BuiltinAlgorithm) Sort(ctx context.Context, data []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	out := slices.Clone(data)
	slices.Sort(out)
	return out, nil
}

// Registry maps algorithm names to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	algos map[string]Algorithm
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{algos: make(map[string]Algorithm)}
}

// NewDefaultRegistry creates a registry holding the parallel coordinator
// (configured with opts), the merge sort baseline and the built-in sort.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry()
	r.Register(NewParallelAlgorithm(opts...))
	r.Register(MergeSortAlgorithm{})
	r.Register(BuiltinAlgorithm{})
	return r
}

// Register adds or replaces an algorithm under its name.
func (r *Registry) Register(a Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.algos[a.Name()] = a
}

// Get returns the algorithm registered under name.
func (r *Registry) Get(name string) (Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.algos[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (available: %v)", name, r.listLocked())
	}
	return a, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	names := make([]string, 0, len(r.algos))
	for name := range r.algos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns every registered algorithm, ordered by name.
func (r *Registry) GetAll() []Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := r.listLocked()
	out := make([]Algorithm, len(names))
	for i, name := range names {
		out[i] = r.algos[name]
	}
	return out
}

// Select resolves a comma-separated list of names, or "all", to algorithms.
func (r *Registry) Select(list string) ([]Algorithm, error) {
	if list == "" || list == "all" {
		return r.GetAll(), nil
	}
	var out []Algorithm
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		a, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
