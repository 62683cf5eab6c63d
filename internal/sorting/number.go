package sorting

import "golang.org/x/exp/constraints"

// Number is the set of key types the engine sorts. Ordering is the
// language's < operator.
type Number interface {
	constraints.Integer | constraints.Float
}
