package sorting

import (
	"math/bits"
	"sync"
)

// parallelMergeThreshold is the minimum number of elements in a reduction
// round before the pairs of that round are merged on separate goroutines.
const parallelMergeThreshold = 1 << 16

// Merge combines two ordered sequences into a newly allocated ordered
// sequence holding every element of both. When values compare equal the
// left element is emitted first. Either input may be empty.
func Merge[T Number](left, right []T) []T {
	out := make([]T, len(left)+len(right))
	mergeInto(out, left, right)
	return out
}

func mergeInto[T Number](out, left, right []T) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if right[j] < left[i] {
			out[k] = right[j]
			j++
		} else {
			out[k] = left[i]
			i++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}

// MergeAll reduces ordered runs to a single ordered sequence. Each round
// merges adjacent pairs (0,1), (2,3), ... and carries an odd trailing run
// into the next round unmerged; rounds repeat until one run remains. Run
// order is preserved, so ties resolve toward the run with the lower index.
// No runs yields an empty, non-nil slice.
func MergeAll[T Number](runs [][]T) []T {
	switch len(runs) {
	case 0:
		return []T{}
	case 1:
		return runs[0]
	}

	current := runs
	for len(current) > 1 {
		current = mergeRound(current)
	}
	return current[0]
}

func mergeRound[T Number](runs [][]T) [][]T {
	next := make([][]T, (len(runs)+1)/2)
	total := 0
	for _, r := range runs {
		total += len(r)
	}

	pairs := len(runs) / 2
	if pairs < 2 || total < parallelMergeThreshold {
		for i := 0; i < pairs; i++ {
			next[i] = Merge(runs[2*i], runs[2*i+1])
		}
	} else {
		var wg sync.WaitGroup
		wg.Add(pairs)
		for i := 0; i < pairs; i++ {
			go func() {
				defer wg.Done()
				next[i] = Merge(runs[2*i], runs[2*i+1])
			}()
		}
		wg.Wait()
	}

	if len(runs)%2 == 1 {
		next[len(next)-1] = runs[len(runs)-1]
	}
	return next
}

// Rounds returns the number of reduction rounds MergeAll performs for k
// runs, ceil(log2 k).
func Rounds(k int) int {
	if k <= 1 {
		return 0
	}
	return bits.Len(uint(k - 1))
}
