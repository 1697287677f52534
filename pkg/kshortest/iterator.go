package kshortest

import (
	"context"
	"time"

	"github.com/elemflux/elemflux/pkg/observability"
)

// SolutionIterator walks solutions one at a time in nondecreasing size
// order. Each Next re-optimizes under the cuts accumulated so far, so
// the iterator never repeats a support.
//
//	it := enum.Iterate()
//	for it.Next(ctx) {
//	    use(it.Solution())
//	}
//	if err := it.Err(); err != nil { ... }
type SolutionIterator struct {
	e     *Enumerator
	sol   *Solution
	err   error
	count int
}

// Iterate resets the enumerator and returns a fresh solution iterator.
func (e *Enumerator) Iterate() *SolutionIterator {
	e.Reset()
	return &SolutionIterator{e: e}
}

// Next advances to the next solution. It returns false when the
// problem is exhausted or a cut could not be applied; check Err to tell
// the two apart.
func (it *SolutionIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	sol := it.e.optimize(ctx)
	if sol == nil {
		it.sol = nil
		return false
	}
	if err := it.e.addIntegerCut(sol.Values(), false, 1); err != nil {
		it.err = err
		return false
	}
	it.sol = sol
	it.count++
	observability.Enumeration().OnSolutionFound(ctx, sol.Size(), it.count)
	return true
}

// Solution returns the solution found by the last successful Next.
func (it *SolutionIterator) Solution() *Solution { return it.sol }

// Count returns the number of solutions yielded so far.
func (it *SolutionIterator) Count() int { return it.count }

// Err returns the first error the iteration hit, if any.
func (it *SolutionIterator) Err() error { return it.err }

// PopulationIterator walks solutions in batches, one batch per support
// size. Sizes with no solutions are skipped silently; iteration ends
// after the configured maximum size.
//
//	it := enum.Populate(maxSize)
//	for it.Next(ctx) {
//	    use(it.Size(), it.Batch())
//	}
//	if err := it.Err(); err != nil { ... }
type PopulationIterator struct {
	e       *Enumerator
	maxSize int
	size    int
	batch   []*Solution
	total   int
	err     error
}

// Populate resets the enumerator and returns a batch iterator sweeping
// sizes 1 through maxSize.
func (e *Enumerator) Populate(maxSize int) *PopulationIterator {
	e.Reset()
	return &PopulationIterator{e: e, maxSize: maxSize}
}

// Next advances to the next nonempty size batch. On a solver failure it
// returns true once more if a partial batch was collected, then stops.
func (it *PopulationIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for it.size < it.maxSize {
		it.size++
		if err := it.e.SetSizeConstraint(it.size, true); err != nil {
			it.err = err
			return false
		}
		observability.Enumeration().OnSizeStart(ctx, it.size)
		start := time.Now()
		batch, err := it.e.PopulateCurrentSize(ctx)
		observability.Enumeration().OnSizeComplete(ctx, it.size, len(batch), time.Since(start))
		if err != nil {
			it.err = err
			it.batch = batch
			it.total += len(batch)
			return len(batch) > 0
		}
		if len(batch) > 0 {
			it.batch = batch
			for _, sol := range batch {
				it.total++
				observability.Enumeration().OnSolutionFound(ctx, sol.Size(), it.total)
			}
			return true
		}
	}
	it.batch = nil
	return false
}

// Batch returns the solutions of the last successful Next.
func (it *PopulationIterator) Batch() []*Solution { return it.batch }

// Size returns the support size of the current batch.
func (it *PopulationIterator) Size() int { return it.size }

// Total returns the number of solutions yielded so far.
func (it *PopulationIterator) Total() int { return it.total }

// Err returns the first error the iteration hit, if any.
func (it *PopulationIterator) Err() error { return it.err }
