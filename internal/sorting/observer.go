package sorting

import "time"

// Observer receives lifecycle events from a Coordinator. Methods may be
// called concurrently from worker goroutines and must not block.
//
// OnSortDone is not always the last event of a sort call. After a failure
// Sort returns without waiting for workers that are still running, and their
// OnWorkerDone calls may arrive after OnSortDone.
type Observer interface {
	// OnStateChange is called on every state transition of a sort call.
	OnStateChange(from, to State)
	// OnPartitionsPlanned is called once per non-empty sort with the
	// partition count and the input length.
	OnPartitionsPlanned(partitions, elements int)
	// OnWorkerDone is called when a worker finishes, with its error if any.
	OnWorkerDone(p Partition, elapsed time.Duration, err error)
	// OnSortDone is called once per sort call with the overall outcome.
	OnSortDone(elements, mergeRounds int, elapsed time.Duration, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnStateChange(State, State)                   {}
func (NopObserver) OnPartitionsPlanned(int, int)                 {}
func (NopObserver) OnWorkerDone(Partition, time.Duration, error) {}
func (NopObserver) OnSortDone(int, int, time.Duration, error)    {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) OnStateChange(from, to State) {
	for _, obs := range o {
		obs.OnStateChange(from, to)
	}
}

func (o Observers) OnPartitionsPlanned(partitions, elements int) {
	for _, obs := range o {
		obs.OnPartitionsPlanned(partitions, elements)
	}
}

func (o Observers) OnWorkerDone(p Partition, elapsed time.Duration, err error) {
	for _, obs := range o {
		obs.OnWorkerDone(p, elapsed, err)
	}
}

func (o Observers) OnSortDone(elements, mergeRounds int, elapsed time.Duration, err error) {
	for _, obs := range o {
		obs.OnSortDone(elements, mergeRounds, elapsed, err)
	}
}
