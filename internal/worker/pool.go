// Package worker provides the bounded goroutine pool and the request
// rate limiter used for vocabulary enrichment.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit after Close
var ErrPoolClosed = errors.New("worker pool closed")

// Task is a unit of work run by the pool
type Task func(ctx context.Context) error

// Pool runs tasks on a fixed number of goroutines
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool

	completed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers: workers,
		tasks:   make(chan Task, workers*2),
	}
}

// Start launches the workers. They stop when ctx is done or after Close
// once the queue is drained.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			if err := Safe(func() error { return task(ctx) }); err != nil {
				p.failed.Add(1)
			}
			p.completed.Add(1)
		}
	}
}

// Submit queues a task. It blocks while the queue is full and gives up
// when ctx is done.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Close stops accepting tasks and waits for the workers to finish
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// Completed returns the number of tasks that have run, failed or not
func (p *Pool) Completed() int {
	return int(p.completed.Load())
}

// Failed returns the number of tasks that returned an error or panicked
func (p *Pool) Failed() int {
	return int(p.failed.Load())
}

// Safe runs fn and turns a panic into an error
func Safe(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
