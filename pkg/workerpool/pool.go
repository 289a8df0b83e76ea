// Package workerpool runs error-returning tasks on a fixed number of
// goroutines.
//
//	pool := workerpool.New(ctx, 8)
//	for _, id := range ids {
//	    pool.Submit(func(ctx context.Context) error { return check(ctx, id) })
//	}
//	err := pool.Wait() // every task error, joined
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolFull is returned by TrySubmit when every worker is busy and the
// buffer is full.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Wait has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

type Task func(ctx context.Context) error

type Pool struct {
	ctx     context.Context
	tasks   chan Task
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}

	mu   sync.Mutex
	errs []error
}

// New starts size workers. Tasks receive ctx; once it is cancelled
// queued tasks are skipped and Submit stops blocking.
func New(ctx context.Context, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		ctx:     ctx,
		tasks:   make(chan Task, size*2),
		closeCh: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues task, blocking while the buffer is full.
func (p *Pool) Submit(task Task) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// TrySubmit queues task without blocking.
func (p *Pool) TrySubmit(task Task) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Wait stops accepting tasks, drains the queue and returns every task
// error joined. Calls after the first return the same result. Submit must
// not race with Wait.
func (p *Pool) Wait() error {
	p.once.Do(func() {
		close(p.closeCh)
		close(p.tasks)
		p.wg.Wait()
	})
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		if p.ctx.Err() != nil {
			continue
		}
		if err := run(p.ctx, task); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}
}

// run turns a panicking task into an error so one bad task cannot kill a
// worker.
func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return task(ctx)
}
