// Package sorting implements the parallel sorting engine.
//
// A sort call flows through four components:
//
//   - the Partitioner ([PlanPartitions], [SplitEven]) decides how many
//     contiguous partitions to create from the input length and the available
//     parallelism;
//   - the Local Sorter ([QuickSort]) sorts one partition in place with a
//     Hoare-partition quicksort;
//   - the Merge Engine ([Merge], [MergeAll]) recombines the ordered
//     partitions through a balanced pairwise reduction;
//   - the [Coordinator] dispatches one worker per partition onto a bounded
//     goroutine pool, waits at a single join barrier, and either merges the
//     results or reports the first failing partition.
//
// Workers never share mutable memory: the coordinator clones the input once
// and hands every worker a disjoint sub-slice, and each worker writes exactly
// one result slot. Equal values may be reordered; the sort is not stable.
package sorting
