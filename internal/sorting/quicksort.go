package sorting

import "fmt"

// PivotStrategy selects how the local sorter picks its pivot.
type PivotStrategy int

const (
	// PivotMiddle uses the element at the middle index of the range. Sorted
	// and reverse-sorted inputs stay O(n log n); adversarial inputs can
	// still drive it to O(n²).
	PivotMiddle PivotStrategy = iota
	// PivotMedianOfThree uses the median of the first, middle and last
	// elements of the range.
	PivotMedianOfThree
)

// String returns the flag spelling of the strategy.
func (s PivotStrategy) String() string {
	switch s {
	case PivotMiddle:
		return "middle"
	case PivotMedianOfThree:
		return "median3"
	default:
		return fmt.Sprintf("PivotStrategy(%d)", int(s))
	}
}

// ParsePivotStrategy parses a strategy name as accepted by --pivot.
func ParsePivotStrategy(name string) (PivotStrategy, error) {
	switch name {
	case "", "middle":
		return PivotMiddle, nil
	case "median3", "median-of-three":
		return PivotMedianOfThree, nil
	}
	return PivotMiddle, fmt.Errorf("unknown pivot strategy %q (want middle or median3)", name)
}

// QuickSort sorts data in place in non-decreasing order using a Hoare
// partition quicksort with a middle-index pivot. It is not stable.
func QuickSort[T Number](data []T) {
	QuickSortWith(data, PivotMiddle)
}

// QuickSortWith is QuickSort with an explicit pivot strategy.
func QuickSortWith[T Number](data []T, strategy PivotStrategy) {
	if len(data) < 2 {
		return
	}
	quickSort(data, 0, len(data)-1, strategy)
}

func quickSort[T Number](data []T, left, right int, strategy PivotStrategy) {
	for left < right {
		pivot := choosePivot(data, left, right, strategy)
		i, j := left, right
		for i <= j {
			for data[i] < pivot {
				i++
			}
			for data[j] > pivot {
				j--
			}
			if i <= j {
				data[i], data[j] = data[j], data[i]
				i++
				j--
			}
		}
		// Recurse into the smaller side, loop on the larger one, so the
		// stack depth stays O(log n) even when the split is lopsided.
		if j-left < right-i {
			if left < j {
				quickSort(data, left, j, strategy)
			}
			left = i
		} else {
			if i < right {
				quickSort(data, i, right, strategy)
			}
			right = j
		}
	}
}

func choosePivot[T Number](data []T, left, right int, strategy PivotStrategy) T {
	mid := left + (right-left)/2
	if strategy != PivotMedianOfThree {
		return data[mid]
	}
	a, b, c := data[left], data[mid], data[right]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}
