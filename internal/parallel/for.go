// Package parallel runs index-addressed work across a fixed pool of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns n if positive, otherwise GOMAXPROCS.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// For calls fn(i) for every i in [0, n) using at most workers goroutines and
// returns once all calls have finished. No ordering between calls is implied.
// A single worker, or a single item, runs inline on the caller's goroutine.
func For(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	idxChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxChan {
				fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		idxChan <- i
	}
	close(idxChan)

	wg.Wait()
}
