package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDispatcher_RunsAllTasks(t *testing.T) {
	d := NewDispatcher(3, zerolog.Nop())
	d.Start(context.Background())

	var n atomic.Int32
	for i := 0; i < 50; i++ {
		d.Enqueue(Task{Key: fmt.Sprintf("k%d", i), Run: func(context.Context) error {
			n.Add(1)
			return nil
		}})
	}
	d.Close()

	if got := n.Load(); got != 50 {
		t.Fatalf("ran %d tasks, want 50", got)
	}
}

func TestDispatcher_PreservesOrderPerKey(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	d.Start(context.Background())

	var mu sync.Mutex
	seen := map[string][]int{}
	var tasks []Task
	for i := 0; i < 20; i++ {
		for _, key := range []string{"product-1", "product-2"} {
			i, key := i, key
			tasks = append(tasks, Task{Key: key, Run: func(context.Context) error {
				mu.Lock()
				seen[key] = append(seen[key], i)
				mu.Unlock()
				return nil
			}})
		}
	}
	if err := d.EnqueueBatch(tasks); err != nil {
		t.Fatalf("EnqueueBatch: %v", err)
	}
	d.Close()

	for key, order := range seen {
		for i := range order {
			if order[i] != i {
				t.Fatalf("%s ran out of order: %v", key, order)
			}
		}
	}
}

func TestDispatcher_FailedTaskDoesNotStopWorker(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	ran := false
	d.Enqueue(Task{Key: "a", Run: func(context.Context) error { return errors.New("boom") }})
	d.Enqueue(Task{Key: "a", Run: func(context.Context) error { ran = true; return nil }})
	d.Close()

	if !ran {
		t.Fatal("task after a failure did not run")
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	for _, key := range []string{"", "products-pdf", "users-excel"} {
		first := d.shardIndex(key)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(key) != first {
			t.Fatalf("index for %q not stable", key)
		}
	}
}

func TestDispatcher_EnqueueAfterCancelDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx)
	cancel()

	done := make(chan error, 1)
	go func() {
		var err error
		for i := 0; i < channelBuffer*2 && err == nil; i++ {
			err = d.Enqueue(Task{Key: "same", Run: func(context.Context) error { return nil }})
		}
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked after the context was cancelled")
	}
	d.Close()
}
