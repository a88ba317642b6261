// Package workerpool runs tasks on a fixed number of goroutines.
//
//	pool := workerpool.New(4)
//	for _, job := range jobs {
//	    if err := pool.Submit(ctx, func() { handle(job) }); err != nil {
//	        break
//	    }
//	}
//	pool.Wait()
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/stockpile/pkg/logger"
)

// ErrClosed is returned by Submit after Wait has been called.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool. The zero value is not usable; call New.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// New starts size workers. A size below one is treated as one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{tasks: make(chan func())}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Submit blocks until a worker takes task, ctx is done, or the pool is closed.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait stops accepting tasks and returns once every submitted task has
// finished. It is safe to call more than once.
func (p *Pool) Wait() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

// run keeps a panicking task from taking its worker down.
func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
