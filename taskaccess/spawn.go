// Package taskaccess enumerates ways to start a goroutine and wait
// for it to finish.
package taskaccess

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/pool"
)

const spawnMethods = 12

// spawnWait bounds how long a variant waits for its goroutine.
const spawnWait = 5 * time.Second

// SpawnCatalog demonstrates starting a goroutine through multiple
// primitives. Every variant runs a trivial task to completion and
// joins it before reporting.
type SpawnCatalog struct {
	workers pool.Pool
}

// NewSpawnCatalog creates a goroutine catalogue backed by the given
// worker pool. A nil pool disables the pool variant.
func NewSpawnCatalog(workers pool.Pool) *SpawnCatalog {
	return &SpawnCatalog{workers: workers}
}

// Name returns the catalogue name.
func (c *SpawnCatalog) Name() string { return "task.spawn" }

// Resources lists the single logical resource the variants exercise.
func (c *SpawnCatalog) Resources() []string {
	return []string{"goroutine"}
}

// MethodCount reports the number of supported spawn variants.
func (c *SpawnCatalog) MethodCount() int { return spawnMethods }

// Messages returns the spawn message templates.
func (c *SpawnCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully triggered goroutine creation on %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to trigger goroutine creation on %s for operation id %d",
	}
}

// AccessByID runs the spawn variant identified by id.
func (c *SpawnCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	resource := c.Resources()[0]
	if !access.Supported(id, spawnMethods) {
		return msgs.Failure(resource, id), nil
	}

	var api string
	var err error
	switch id {
	case 1:
		api = "go+sync.WaitGroup"
		err = c.spawnWaitGroup()
	case 2:
		api = "go+channel"
		err = c.spawnChannel()
	case 3:
		api = "errgroup.Group"
		err = c.spawnErrgroup()
	case 4:
		api = "errgroup.WithContext"
		err = c.spawnErrgroupContext(ctx)
	case 5:
		api = "pool.SubmitFunc"
		err = c.spawnPool(ctx)
	case 6:
		api = "time.AfterFunc"
		err = c.spawnAfterFunc()
	case 7:
		api = "time.Timer"
		err = c.spawnTimer()
	case 8:
		api = "context.WithCancel"
		err = c.spawnCancelContext(ctx)
	case 9:
		api = "channel fan-out"
		err = c.spawnFanOut()
	case 10:
		api = "sync.Once"
		err = c.spawnOnce()
	case 11:
		api = "time.Ticker"
		err = c.spawnTicker()
	case 12:
		api = "semaphore.Weighted"
		err = c.spawnSemaphore(ctx)
	}
	if err != nil {
		return msgs.Failure(resource, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(resource, api), nil
}

// spawnWaitGroup joins a single goroutine with a WaitGroup.
func (c *SpawnCatalog) spawnWaitGroup() error {
	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ran.Store(true)
	}()
	wg.Wait()
	if !ran.Load() {
		return errTaskNotRun
	}
	return nil
}

// spawnChannel joins a single goroutine with a done channel.
func (c *SpawnCatalog) spawnChannel() error {
	done := make(chan struct{})
	go func() {
		defer close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(spawnWait):
		return errTaskTimeout
	}
}

// spawnErrgroup joins a goroutine through errgroup.Group.
func (c *SpawnCatalog) spawnErrgroup() error {
	var g errgroup.Group
	g.Go(func() error { return nil })
	return g.Wait()
}

// spawnErrgroupContext joins a goroutine through a context-bound
// errgroup.
func (c *SpawnCatalog) spawnErrgroupContext(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gctx.Err() })
	return g.Wait()
}

// spawnPool runs the task on the shared worker pool.
func (c *SpawnCatalog) spawnPool(ctx context.Context) error {
	if c.workers == nil {
		return errNoPool
	}
	done := make(chan struct{})
	if err := c.workers.SubmitFunc(ctx, func() { close(done) }); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-time.After(spawnWait):
		return errTaskTimeout
	}
}

// spawnAfterFunc schedules the task through time.AfterFunc.
func (c *SpawnCatalog) spawnAfterFunc() error {
	done := make(chan struct{})
	timer := time.AfterFunc(time.Millisecond, func() { close(done) })
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-time.After(spawnWait):
		return errTaskTimeout
	}
}

// spawnTimer starts a goroutine that waits on a timer before running
// the task.
func (c *SpawnCatalog) spawnTimer() error {
	done := make(chan struct{})
	timer := time.NewTimer(time.Millisecond)
	defer timer.Stop()
	go func() {
		<-timer.C
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(spawnWait):
		return errTaskTimeout
	}
}

// spawnCancelContext starts a goroutine that runs until its context
// is canceled.
func (c *SpawnCatalog) spawnCancelContext(ctx context.Context) error {
	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		<-cctx.Done()
		close(done)
	}()
	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(spawnWait):
		return errTaskTimeout
	}
}

// spawnFanOut feeds work items to several goroutines over a channel.
func (c *SpawnCatalog) spawnFanOut() error {
	const workers = 3
	const items = 9

	work := make(chan int, items)
	var processed int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range work {
				atomic.AddInt64(&processed, 1)
			}
		}()
	}
	for i := 0; i < items; i++ {
		work <- i
	}
	close(work)
	wg.Wait()
	if atomic.LoadInt64(&processed) != items {
		return errTaskNotRun
	}
	return nil
}

// spawnOnce races several goroutines through a sync.Once.
func (c *SpawnCatalog) spawnOnce() error {
	var once sync.Once
	var calls int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			once.Do(func() { atomic.AddInt64(&calls, 1) })
		}()
	}
	wg.Wait()
	if atomic.LoadInt64(&calls) != 1 {
		return errTaskNotRun
	}
	return nil
}

// spawnTicker starts a goroutine that runs once on the first tick.
func (c *SpawnCatalog) spawnTicker() error {
	done := make(chan struct{})
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	go func() {
		<-ticker.C
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(spawnWait):
		return errTaskTimeout
	}
}

// spawnSemaphore joins a goroutine by reacquiring the full weight of
// a semaphore.
func (c *SpawnCatalog) spawnSemaphore(ctx context.Context) error {
	sem := semaphore.NewWeighted(1)
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer sem.Release(1)
	}()
	wctx, cancel := context.WithTimeout(ctx, spawnWait)
	defer cancel()
	if err := sem.Acquire(wctx, 1); err != nil {
		return err
	}
	sem.Release(1)
	return nil
}
