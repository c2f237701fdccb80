// Package pool provides a small fixed-size worker pool used by the
// goroutine catalogue and the batch runner.
package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Common errors.
var (
	ErrPoolFull     = errors.New("worker pool is full")
	ErrPoolShutdown = errors.New("worker pool is shutdown")
)

// Task represents a unit of work for the pool.
type Task struct {
	SubmittedAt time.Time
	Fn          func()
}

// Pool manages a fixed set of workers draining a bounded queue.
type Pool interface {
	// Submit enqueues a task, blocking while the queue is full.
	Submit(ctx context.Context, task Task) error

	// SubmitFunc enqueues a bare function.
	SubmitFunc(ctx context.Context, fn func()) error

	// Stats returns current pool statistics.
	Stats() Stats

	// Shutdown drains queued tasks and stops the workers.
	Shutdown(ctx context.Context) error
}

// Config configures the worker pool.
type Config struct {
	// Workers is the number of worker goroutines.
	Workers int

	// QueueSize is the size of the task queue.
	QueueSize int
}

// Stats contains pool statistics.
type Stats struct {
	ActiveWorkers  int32
	QueueLength    int
	QueueCapacity  int
	TotalSubmitted int64
	TotalCompleted int64
}

// DefaultConfig returns default pool configuration.
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		QueueSize: 64,
	}
}

type pool struct {
	taskQueue  chan Task
	shutdownCh chan struct{}
	config     Config
	wg         sync.WaitGroup
	shutdown   int32

	activeWorkers  int32
	totalSubmitted int64
	totalCompleted int64
}

// New creates a worker pool and starts its workers.
func New(config Config) (Pool, error) {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = config.Workers * 8
	}

	p := &pool{
		config:     config,
		taskQueue:  make(chan Task, config.QueueSize),
		shutdownCh: make(chan struct{}),
	}
	for i := 0; i < config.Workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p, nil
}

// Submit implements Pool.Submit.
func (p *pool) Submit(ctx context.Context, task Task) error {
	if atomic.LoadInt32(&p.shutdown) == 1 {
		return ErrPoolShutdown
	}

	task.SubmittedAt = time.Now()
	select {
	case p.taskQueue <- task:
		atomic.AddInt64(&p.totalSubmitted, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdownCh:
		return ErrPoolShutdown
	}
}

// SubmitFunc implements Pool.SubmitFunc.
func (p *pool) SubmitFunc(ctx context.Context, fn func()) error {
	return p.Submit(ctx, Task{Fn: fn})
}

// Stats implements Pool.Stats.
func (p *pool) Stats() Stats {
	return Stats{
		ActiveWorkers:  atomic.LoadInt32(&p.activeWorkers),
		QueueLength:    len(p.taskQueue),
		QueueCapacity:  cap(p.taskQueue),
		TotalSubmitted: atomic.LoadInt64(&p.totalSubmitted),
		TotalCompleted: atomic.LoadInt64(&p.totalCompleted),
	}
}

// Shutdown implements Pool.Shutdown.
func (p *pool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.shutdown, 0, 1) {
		return nil
	}
	close(p.shutdownCh)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pool) run() {
	defer p.wg.Done()

	for {
		select {
		case task := <-p.taskQueue:
			p.execute(task)
		case <-p.shutdownCh:
			// Drain what is already queued, then exit.
			for {
				select {
				case task := <-p.taskQueue:
					p.execute(task)
				default:
					return
				}
			}
		}
	}
}

func (p *pool) execute(task Task) {
	atomic.AddInt32(&p.activeWorkers, 1)
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
		atomic.AddInt32(&p.activeWorkers, -1)
		atomic.AddInt64(&p.totalCompleted, 1)
	}()

	if task.Fn != nil {
		task.Fn()
	}
}
