// Package batch runs independent work items concurrently with bounded
// parallelism. The engine uses it to run whole per-file parse-and-query
// pipelines in parallel: each pipeline owns its counter, and workers share
// only the read-only catalog.
package batch

import (
	"sync"
)

// Result pairs one item's output with its error, in input order.
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes worker for every item, at most maxConcurrency at a time
// (0 means unlimited), and returns per-item results in input order. Errors
// are collected, never fatal to the batch.
func Run[T, R any](items []T, maxConcurrency int, worker func(item T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	var throttle chan struct{}
	if maxConcurrency > 0 {
		throttle = make(chan struct{}, maxConcurrency)
	}

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)

		if throttle != nil {
			throttle <- struct{}{}
		}

		go func(i int, item T) {
			defer wg.Done()
			if throttle != nil {
				defer func() { <-throttle }()
			}
			v, err := worker(item)
			results[i] = Result[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()

	return results
}
