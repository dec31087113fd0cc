// Package queue runs batches of client work on a fixed set of workers.
package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Task is one unit of work. Tasks sharing a Key run on the same worker, in
// the order they were enqueued.
type Task struct {
	Key string
	Run func(ctx context.Context) error
}

// Dispatcher routes tasks to workers by hashing their key.
type Dispatcher struct {
	workers []chan Task
	wg      sync.WaitGroup
	log     zerolog.Logger
	ctx     context.Context
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Task, numWorkers),
		log:     log,
		ctx:     context.Background(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan Task, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled or Close
// drains their queue.
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx = ctx
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a task to the worker responsible for its key. It blocks
// once that worker's buffer is full, and returns the context error if the
// context given to Start is cancelled first.
func (d *Dispatcher) Enqueue(task Task) error {
	select {
	case <-d.ctx.Done():
		return d.ctx.Err()
	default:
	}
	select {
	case d.workers[d.shardIndex(task.Key)] <- task:
		return nil
	case <-d.ctx.Done():
		return d.ctx.Err()
	}
}

// EnqueueBatch enqueues tasks in order and stops at the first failure.
func (d *Dispatcher) EnqueueBatch(tasks []Task) error {
	for _, t := range tasks {
		if err := d.Enqueue(t); err != nil {
			return err
		}
	}
	return nil
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Task) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			if err := task.Run(ctx); err != nil {
				d.log.Warn().Err(err).
					Str("key", task.Key).
					Int("worker", id).
					Msg("task failed")
			}
		}
	}
}
