package fanout

import (
	"context"
	"sync"
)

// Outcome pairs an input with the result of its task. Exactly one of Value
// and Err is meaningful.
type Outcome[I, V any] struct {
	Input I
	Value V
	Err   error
}

// Gather runs task once per input with at most workers goroutines and returns
// every outcome in input order. A failed task never cancels its siblings; the
// caller decides what a partial result set means.
func Gather[I, V any](ctx context.Context, inputs []I, workers int, task func(ctx context.Context, in I) (V, error)) []Outcome[I, V] {
	outcomes := make([]Outcome[I, V], len(inputs))
	if len(inputs) == 0 {
		return outcomes
	}
	if workers <= 0 || workers > len(inputs) {
		workers = len(inputs)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				value, err := task(ctx, inputs[i])
				outcomes[i] = Outcome[I, V]{Input: inputs[i], Value: value, Err: err}
			}
		}()
	}

	for i := range inputs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// Successes filters outcomes down to the values that completed without error,
// preserving input order.
func Successes[I, V any](outcomes []Outcome[I, V]) []V {
	values := make([]V, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			values = append(values, o.Value)
		}
	}
	return values
}

// FirstError returns the first non-nil error in outcome order, or nil.
func FirstError[I, V any](outcomes []Outcome[I, V]) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
