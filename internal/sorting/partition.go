package sorting

// SmallInputThreshold is the input length below which the partitioner caps
// the partition count at MaxSmallPartitions, so that goroutine and merge
// overhead does not dominate small sorts.
const SmallInputThreshold = 1_000_000

// MaxSmallPartitions is the partition cap applied to inputs shorter than
// SmallInputThreshold.
const MaxSmallPartitions = 4

// Partition is a contiguous half-open range [Start, End) of the input,
// sorted by exactly one worker.
type Partition struct {
	// Index is the position of the partition in input order.
	Index int
	Start int
	End   int
}

// Len returns the number of elements in the partition.
func (p Partition) Len() int { return p.End - p.Start }

// PlanPartitions returns the partition boundaries for an input of length n
// given p units of available parallelism. The partitions cover [0, n)
// exactly once, in order. n <= 0 yields no partitions.
func PlanPartitions(n, p int) []Partition {
	if n <= 0 {
		return nil
	}
	if p < 1 {
		p = 1
	}
	workers := p
	if n < SmallInputThreshold {
		workers = min(p, MaxSmallPartitions)
	}
	return splitByChunk(n, ceilDiv(n, workers))
}

// SplitEven splits [0, n) into count partitions of ceil(n/count) elements,
// the last one possibly shorter. count is clamped to [1, n]; because of the
// ceiling the result may hold fewer than count partitions.
func SplitEven(n, count int) []Partition {
	if n <= 0 {
		return nil
	}
	count = max(1, min(count, n))
	return splitByChunk(n, ceilDiv(n, count))
}

func splitByChunk(n, chunk int) []Partition {
	c := ceilDiv(n, chunk)
	parts := make([]Partition, c)
	for i := range parts {
		parts[i] = Partition{
			Index: i,
			Start: i * chunk,
			End:   min((i+1)*chunk, n),
		}
	}
	return parts
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
