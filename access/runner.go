package access

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SuccessPrefix is the prefix every success message carries.
const SuccessPrefix = "Successfully"

// FailurePrefix is the prefix every failure message carries.
const FailurePrefix = "Failed to"

// RateLimiter controls invocation rate per catalogue.
type RateLimiter interface {
	// Allow checks if an invocation is allowed.
	Allow(catalog string) bool
	// Wait blocks until an invocation is allowed.
	Wait(ctx context.Context, catalog string) error
}

// Telemetry provides observability for catalogue invocations.
type Telemetry interface {
	// StartSpan starts a new trace span.
	StartSpan(ctx context.Context, name string) (context.Context, func())
	// RecordMetric records a metric.
	RecordMetric(name string, value float64, labels map[string]string)
}

// Hook defines extension points around catalogue invocations.
type Hook interface {
	// PreAccess is called before the catalogue is invoked.
	PreAccess(ctx context.Context, catalog string, id int) error
	// PostAccess is called after the catalogue produced its report.
	PostAccess(ctx context.Context, report *Report, err error) error
}

// Runner is the uniform dispatch front end over a catalogue registry.
// It applies rate limiting, telemetry, and hooks around every
// invocation and supports graceful shutdown.
type Runner struct {
	registry       *Registry
	rateLimiter    RateLimiter
	telemetry      Telemetry
	hooks          []Hook
	wg             sync.WaitGroup
	mu             sync.RWMutex // protects shutdown check and wg.Add
	defaultTimeout time.Duration
	maxParallel    int
	shutdown       int32
}

// Builder creates configured Runner instances.
type Builder struct {
	registry       *Registry
	rateLimiter    RateLimiter
	telemetry      Telemetry
	hooks          []Hook
	defaultTimeout time.Duration
	maxParallel    int
	err            error
}

// NewBuilder creates a new runner builder.
func NewBuilder() *Builder {
	return &Builder{
		defaultTimeout: 30 * time.Second,
		maxParallel:    4,
	}
}

// WithRegistry sets the catalogue registry.
func (b *Builder) WithRegistry(registry *Registry) *Builder {
	b.registry = registry
	return b
}

// WithCatalogs registers catalogues on the builder's registry.
func (b *Builder) WithCatalogs(catalogs ...Catalog) *Builder {
	if b.registry == nil {
		b.registry = NewRegistry()
	}
	for _, c := range catalogs {
		// Registration errors surface on Build.
		if err := b.registry.Register(c); err != nil && b.err == nil {
			b.err = err
		}
	}
	return b
}

// WithRateLimiter sets the rate limiter.
func (b *Builder) WithRateLimiter(limiter RateLimiter) *Builder {
	b.rateLimiter = limiter
	return b
}

// WithTelemetry sets the telemetry provider.
func (b *Builder) WithTelemetry(telemetry Telemetry) *Builder {
	b.telemetry = telemetry
	return b
}

// WithHooks adds invocation hooks.
func (b *Builder) WithHooks(hooks ...Hook) *Builder {
	b.hooks = append(b.hooks, hooks...)
	return b
}

// WithDefaultTimeout sets the default invocation timeout.
func (b *Builder) WithDefaultTimeout(timeout time.Duration) *Builder {
	b.defaultTimeout = timeout
	return b
}

// WithMaxParallel bounds how many catalogues RunAll drives at once.
func (b *Builder) WithMaxParallel(n int) *Builder {
	b.maxParallel = n
	return b
}

// Build creates the runner.
func (b *Builder) Build() (*Runner, error) {
	if b.err != nil {
		return nil, b.err
	}
	registry := b.registry
	if registry == nil {
		registry = NewRegistry()
	}
	maxParallel := b.maxParallel
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Runner{
		registry:       registry,
		rateLimiter:    b.rateLimiter,
		telemetry:      b.telemetry,
		hooks:          b.hooks,
		defaultTimeout: b.defaultTimeout,
		maxParallel:    maxParallel,
	}, nil
}

// Registry returns the runner's catalogue registry.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Access invokes one method variant of a registered catalogue.
// The returned Report is always non-nil for registered catalogues.
func (r *Runner) Access(ctx context.Context, catalog string, id int) (*Report, error) {
	// Shutdown check and wg.Add must be atomic so Shutdown cannot
	// start wg.Wait between them.
	r.mu.RLock()
	if atomic.LoadInt32(&r.shutdown) == 1 {
		r.mu.RUnlock()
		return nil, ErrRunnerShutdown
	}
	r.wg.Add(1)
	r.mu.RUnlock()

	defer r.wg.Done()

	if r.telemetry != nil {
		var endSpan func()
		ctx, endSpan = r.telemetry.StartSpan(ctx, "runner.Access")
		defer endSpan()
	}

	c, err := r.registry.Lookup(catalog)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:       uuid.New().String(),
		Catalog:  catalog,
		MethodID: id,
	}
	if resources := c.Resources(); len(resources) > 0 {
		report.Resource = resources[0]
	}

	if err := r.runPreHooks(ctx, catalog, id); err != nil {
		return nil, err
	}

	if r.rateLimiter != nil {
		if err := r.rateLimiter.Wait(ctx, catalog); err != nil {
			report.Status = StatusRateLimited
			report.Message = c.Messages().Failure(report.Resource, id)
			report.Err = err.Error()
			return report, NewRateLimitError(catalog)
		}
	}

	timeout := r.defaultTimeout
	accessCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		accessCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	message, accessErr := c.AccessByID(accessCtx, id)
	report.Duration = time.Since(start)
	report.Message = message
	report.Status = classify(c, id, message, accessCtx, accessErr)
	if accessErr != nil {
		report.Err = accessErr.Error()
	}

	if r.telemetry != nil {
		r.telemetry.RecordMetric("runner.access_duration_ms", float64(report.Duration.Milliseconds()), map[string]string{
			"catalog": catalog,
			"status":  report.Status.String(),
		})
	}

	if hookErr := r.runPostHooks(ctx, report, accessErr); hookErr != nil {
		return report, hookErr
	}

	return report, accessErr
}

// AccessAsync invokes a catalogue method asynchronously.
func (r *Runner) AccessAsync(ctx context.Context, catalog string, id int) Future[*Report] {
	asyncCtx, cancel := context.WithCancel(ctx)
	future := NewReportFuture(cancel)

	go func() {
		report, err := r.Access(asyncCtx, catalog, id)
		future.Complete(report, err)
	}()

	return future
}

// RunCatalog invokes every supported method id of one catalogue in
// id order and returns the reports. Ids run sequentially: variants of
// one catalogue share fixture state, so overlapping invocations would
// observe each other's side effects. Invocation errors are carried in
// the reports, not returned: one failing variant must not hide the rest.
func (r *Runner) RunCatalog(ctx context.Context, catalog string) ([]*Report, error) {
	c, err := r.registry.Lookup(catalog)
	if err != nil {
		return nil, err
	}

	count := c.MethodCount()
	reports := make([]*Report, count)
	for id := 1; id <= count; id++ {
		if err := ctx.Err(); err != nil {
			return reports[:id-1], err
		}
		report, accessErr := r.Access(ctx, catalog, id)
		if report == nil {
			report = &Report{
				Catalog:  catalog,
				MethodID: id,
				Status:   StatusFailure,
			}
			if accessErr != nil {
				report.Err = accessErr.Error()
			}
		}
		reports[id-1] = report
	}
	return reports, nil
}

// RunAll invokes every method of every registered catalogue. Catalogues
// fan out concurrently up to the configured parallelism; within each
// catalogue ids still run sequentially.
func (r *Runner) RunAll(ctx context.Context) ([]*Report, error) {
	names := r.registry.Names()
	batches := make([][]*Report, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxParallel)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			reports, err := r.RunCatalog(gctx, name)
			batches[i] = reports
			return err
		})
	}
	err := g.Wait()

	var all []*Report
	for _, batch := range batches {
		all = append(all, batch...)
	}
	return all, err
}

// Shutdown gracefully shuts down the runner, waiting for in-flight
// invocations to complete or the context to expire.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	atomic.StoreInt32(&r.shutdown, 1)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) runPreHooks(ctx context.Context, catalog string, id int) error {
	for _, hook := range r.hooks {
		if err := hook.PreAccess(ctx, catalog, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runPostHooks(ctx context.Context, report *Report, accessErr error) error {
	for _, hook := range r.hooks {
		if err := hook.PostAccess(ctx, report, accessErr); err != nil {
			return err
		}
	}
	return nil
}

// classify maps an invocation outcome onto a report status.
func classify(c Catalog, id int, message string, ctx context.Context, err error) Status {
	switch {
	case !Supported(id, c.MethodCount()):
		return StatusUnsupported
	case err != nil && ctx.Err() != nil:
		return StatusCanceled
	case err != nil:
		return StatusFailure
	case strings.HasPrefix(message, SuccessPrefix):
		return StatusSuccess
	default:
		return StatusFailure
	}
}
