package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestGatherPreservesOrder(t *testing.T) {
	inputs := []int{5, 3, 9, 1}

	outcomes := Gather(context.Background(), inputs, 4, func(_ context.Context, in int) (int, error) {
		return in * 2, nil
	})

	if len(outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Input != inputs[i] {
			t.Fatalf("outcome %d: input %d, want %d", i, o.Input, inputs[i])
		}
		if o.Value != inputs[i]*2 {
			t.Fatalf("outcome %d: value %d, want %d", i, o.Value, inputs[i]*2)
		}
	}
}

func TestGatherFailureDoesNotAbortSiblings(t *testing.T) {
	boom := errors.New("boom")
	inputs := []string{"a", "bad", "c"}

	outcomes := Gather(context.Background(), inputs, 2, func(_ context.Context, in string) (string, error) {
		if in == "bad" {
			return "", boom
		}
		return in + "!", nil
	})

	got := Successes(outcomes)
	if len(got) != 2 || got[0] != "a!" || got[1] != "c!" {
		t.Fatalf("unexpected successes: %v", got)
	}
	if !errors.Is(FirstError(outcomes), boom) {
		t.Fatalf("expected boom, got %v", FirstError(outcomes))
	}
}

func TestGatherBoundsConcurrency(t *testing.T) {
	var running, peak int64
	inputs := make([]int, 32)

	Gather(context.Background(), inputs, 4, func(_ context.Context, _ int) (int, error) {
		n := atomic.AddInt64(&running, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt64(&running, -1)
		return 0, nil
	})

	if peak > 4 {
		t.Fatalf("worker bound exceeded: peak %d", peak)
	}
}

func TestGatherEmptyInputs(t *testing.T) {
	outcomes := Gather(context.Background(), nil, 4, func(_ context.Context, in int) (int, error) {
		return 0, fmt.Errorf("should not run for %d", in)
	})
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
}
