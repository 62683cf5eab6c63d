package sorting

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/agbru/parsort/internal/sorting/mocks"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry(WithParallelism(2))

	if got, want := r.List(), []string{"builtin", "mergesort", "parallel"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	input := []float64{5, 3, 8, 1, 9, 2, 3}
	want := []float64{1, 2, 3, 3, 5, 8, 9}
	for _, algo := range r.GetAll() {
		t.Run(algo.Name(), func(t *testing.T) {
			t.Parallel()
			got, err := algo.Sort(context.Background(), input)
			if err != nil {
				t.Fatalf("Sort returned error: %v", err)
			}
			if !slices.Equal(got, want) {
				t.Errorf("Sort = %v, want %v", got, want)
			}
			if !slices.Equal(input, []float64{5, 3, 8, 1, 9, 2, 3}) {
				t.Errorf("input was modified: %v", input)
			}
		})
	}
}

func TestBaselinesRejectInvalidInput(t *testing.T) {
	t.Parallel()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	for _, algo := range []Algorithm{MergeSortAlgorithm{}, BuiltinAlgorithm{}} {
		if _, err := algo.Sort(canceled, []float64{1}); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", algo.Name(), err)
		}
		if _, err := algo.Sort(context.Background(), []float64{math.NaN()}); err == nil {
			t.Errorf("%s: expected an error for NaN input", algo.Name())
		}
	}
}

func TestMergeSort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input []int
		want  []int
	}{
		{"empty", []int{}, []int{}},
		{"single", []int{1}, []int{1}},
		{"reverse", []int{5, 4, 3, 2, 1}, []int{1, 2, 3, 4, 5}},
		{"duplicates", []int{2, 1, 2, 1}, []int{1, 1, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MergeSort(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("MergeSort(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry()
	_, err := r.Get("bogosort")
	if err == nil {
		t.Fatal("expected an error for an unknown algorithm")
	}
	if !strings.Contains(err.Error(), "parallel") {
		t.Errorf("error %q should list available algorithms", err)
	}
}

func TestRegistrySelect(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry()

	tests := []struct {
		list    string
		want    []string
		wantErr bool
	}{
		{"all", []string{"builtin", "mergesort", "parallel"}, false},
		{"", []string{"builtin", "mergesort", "parallel"}, false},
		{"parallel", []string{"parallel"}, false},
		{" parallel , builtin ,", []string{"parallel", "builtin"}, false},
		{"parallel,heapsort", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			t.Parallel()
			algos, err := r.Select(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Select(%q) error = %v, wantErr %v", tt.list, err, tt.wantErr)
			}
			var names []string
			for _, a := range algos {
				names = append(names, a.Name())
			}
			if !slices.Equal(names, tt.want) {
				t.Errorf("Select(%q) = %v, want %v", tt.list, names, tt.want)
			}
		})
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocks.NewMockAlgorithm(ctrl)
	mock.EXPECT().Name().Return("parallel").AnyTimes()
	mock.EXPECT().Sort(gomock.Any(), []float64{2, 1}).Return([]float64{1, 2}, nil)

	r := NewDefaultRegistry()
	r.Register(mock)

	algo, err := r.Get("parallel")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	got, err := algo.Sort(context.Background(), []float64{2, 1})
	if err != nil || !slices.Equal(got, []float64{1, 2}) {
		t.Errorf("Sort = %v, %v", got, err)
	}
	if n := len(r.List()); n != 3 {
		t.Errorf("registry holds %d algorithms after replace, want 3", n)
	}
}
