package access

import (
	"time"
)

// Report contains the outcome of a single catalogue invocation.
type Report struct {
	// ID is the unique invocation identifier.
	ID string

	// Catalog is the catalogue name that was invoked.
	Catalog string

	// MethodID is the method variant that was invoked.
	MethodID int

	// Resource is the primary resource the catalogue operates on.
	Resource string

	// Message is the formatted success or failure message.
	Message string

	// Status classifies the outcome.
	Status Status

	// Duration is the wall clock time of the invocation.
	Duration time.Duration

	// Err holds the text of the underlying error, if any.
	Err string
}

// Status represents the outcome of a catalogue invocation.
type Status int

const (
	// StatusSuccess indicates the access succeeded.
	StatusSuccess Status = iota
	// StatusFailure indicates the access returned a failure message.
	StatusFailure
	// StatusUnsupported indicates the id was outside the supported range.
	StatusUnsupported
	// StatusRateLimited indicates the invocation was rate limited.
	StatusRateLimited
	// StatusCanceled indicates the context was canceled.
	StatusCanceled
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusUnsupported:
		return "unsupported"
	case StatusRateLimited:
		return "rate_limited"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IsSuccess returns true if the invocation succeeded.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// Succeeded returns true if the report carries a success message.
func (r *Report) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Future represents an asynchronous report.
type Future[T any] interface {
	// Wait blocks until the result is available.
	Wait() (T, error)

	// Done returns a channel that is closed when the result is ready.
	Done() <-chan struct{}

	// Cancel attempts to cancel the operation.
	Cancel()
}

// ReportFuture implements Future for Report.
type ReportFuture struct {
	report *Report
	err    error
	done   chan struct{}
	cancel func()
}

// NewReportFuture creates a new report future.
func NewReportFuture(cancel func()) *ReportFuture {
	return &ReportFuture{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Complete sets the report and signals completion.
func (f *ReportFuture) Complete(report *Report, err error) {
	f.report = report
	f.err = err
	close(f.done)
}

// Wait blocks until the report is available.
func (f *ReportFuture) Wait() (*Report, error) {
	<-f.done
	return f.report, f.err
}

// Done returns a channel that is closed when the report is ready.
func (f *ReportFuture) Done() <-chan struct{} {
	return f.done
}

// Cancel attempts to cancel the operation.
func (f *ReportFuture) Cancel() {
	if f.cancel != nil {
		f.cancel()
	}
}
