package orchestration

import (
	"math/rand/v2"

	"github.com/agbru/parsort/internal/sorting"
)

// InputRange bounds generated benchmark values to [0, InputRange).
const InputRange = 1_000_000

// GenerateInput returns size pseudo-random integers in [0, InputRange),
// stored as float64. The same seed always yields the same sequence.
func GenerateInput(size int, seed uint64) []float64 {
	if size <= 0 {
		return []float64{}
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]float64, size)
	for i := range data {
		data[i] = float64(rng.IntN(InputRange))
	}
	return data
}

// AlgorithmSelector resolves an --algo value to algorithms.
type AlgorithmSelector interface {
	Select(list string) ([]sorting.Algorithm, error)
}

// GetAlgorithmsToRun resolves algo ("all" or a comma-separated list) with
// the selector. "all" returns the algorithms in name order. An unknown name
// yields nil.
func GetAlgorithmsToRun(algo string, selector AlgorithmSelector) []sorting.Algorithm {
	algos, err := selector.Select(algo)
	if err != nil {
		return nil
	}
	return algos
}
