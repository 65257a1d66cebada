package bmpfilter

import (
	"runtime"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
)

// rowsPerTask keeps tasks coarse enough for small images to stay cheap.
const rowsPerTask = 16

var maxWorkers atomic.Int64

// SetMaxWorkers limits the goroutines used by neighbourhood filters.
// n <= 0 restores the default of GOMAXPROCS.
func SetMaxWorkers(n int) {
	maxWorkers.Store(int64(n))
}

func workers() int {
	if n := int(maxWorkers.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// forEachRow calls fn for every y in [from, to). Rows are split into
// contiguous chunks; fn must only write to its own row of the destination.
// It returns once every row is done.
func forEachRow(from, to int, fn func(y int)) {
	n := workers()
	if n == 1 || to-from <= rowsPerTask {
		for y := from; y < to; y++ {
			fn(y)
		}
		return
	}

	p := pool.New().WithMaxGoroutines(n)
	for start := from; start < to; start += rowsPerTask {
		end := min(start+rowsPerTask, to)
		p.Go(func() {
			for y := start; y < end; y++ {
				fn(y)
			}
		})
	}
	p.Wait()
}
