package batch

import (
	"sync"

	"github.com/grailbio/base/errors"
)

// Pool runs work items across a fixed number of workers using a
// channel-of-work-items plus sync.WaitGroup, the same shape
// markduplicates.generatePAM/generateBAM use to fan BAM/PAM shards out
// across m.Opts.Parallelism goroutines. Errors from every worker are
// aggregated with errors.Once so the first failure is reported without a
// data race.
type Pool struct {
	workers int
}

// NewPool returns a Pool that runs at most workers goroutines
// concurrently. workers < 1 is coerced to 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run calls fn(workerIndex, itemIndex) once for every itemIndex in
// [0, n). workerIndex is stable for the lifetime of the goroutine that
// calls fn, so callers that pair one non-shared resource per goroutine
// (e.g. one pileupio.IndexedSource per worker) can index into that
// resource slice with workerIndex. Run blocks until every item has been
// processed and returns the first error reported by any worker, if any.
func (p *Pool) Run(n int, fn func(workerIndex, itemIndex int) error) error {
	if n == 0 {
		return nil
	}
	workers := p.workers
	if workers > n {
		workers = n
	}

	items := make(chan int, n)
	for i := 0; i < n; i++ {
		items <- i
	}
	close(items)

	var e errors.Once
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerIndex int) {
			defer wg.Done()
			for itemIndex := range items {
				if err := fn(workerIndex, itemIndex); err != nil {
					e.Set(err)
				}
			}
		}(w)
	}
	wg.Wait()
	return e.Err()
}
