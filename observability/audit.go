package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"

	"github.com/probelab/accessprobe/access"
)

// AuditLogger provides append-only audit logging.
type AuditLogger interface {
	// Log logs an audit event.
	Log(ctx context.Context, event *AuditEvent) error

	// Query returns logged events matching the filter.
	Query(ctx context.Context, filter *AuditFilter) ([]*AuditEvent, error)

	// Close closes the audit logger.
	Close() error
}

// AuditEvent represents one audit log entry.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	ID        string         `json:"id"`
	Type      AuditEventType `json:"type"`
	Catalog   string         `json:"catalog"`
	MethodID  int            `json:"method_id"`
	Resource  string         `json:"resource,omitempty"`
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// AuditEventType represents the type of audit event.
type AuditEventType string

const (
	// AuditEventAccess is a catalogue invocation event.
	AuditEventAccess AuditEventType = "access"

	// AuditEventRateLimited is a rate limiting event.
	AuditEventRateLimited AuditEventType = "rate_limited"

	// AuditEventError is an error event.
	AuditEventError AuditEventType = "error"
)

// AuditFilter filters audit events.
type AuditFilter struct {
	// StartTime is the start of the time range.
	StartTime time.Time

	// EndTime is the end of the time range.
	EndTime time.Time

	// Catalog filters by catalogue name.
	Catalog string

	// Type filters by event type.
	Type AuditEventType

	// Status filters by status.
	Status string

	// Limit is the maximum number of events to return.
	Limit int
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	LogLevel       AuditLogLevel
	BasePath       string
	FilePath       string
	MaxMessageSize int
	Enabled        bool
}

// AuditLogLevel determines what events to log.
type AuditLogLevel string

const (
	// AuditLogAll logs all events.
	AuditLogAll AuditLogLevel = "all"

	// AuditLogFailures logs only failures.
	AuditLogFailures AuditLogLevel = "failures"
)

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:        true,
		LogLevel:       AuditLogAll,
		MaxMessageSize: 1024,
		BasePath:       "/var/log",
		FilePath:       "accessprobe/audit.log",
	}
}

// fileAuditLogger implements AuditLogger as line-delimited JSON.
type fileAuditLogger struct {
	safePath *safepath.SafePath
	config   AuditConfig
	mu       sync.Mutex
}

// NewFileAuditLogger creates a new file-based audit logger.
func NewFileAuditLogger(config AuditConfig) (AuditLogger, error) {
	sp, err := safepath.New(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	return &fileAuditLogger{
		config:   config,
		safePath: sp,
	}, nil
}

// Log implements AuditLogger.Log.
func (l *fileAuditLogger) Log(ctx context.Context, event *AuditEvent) error {
	if !l.config.Enabled {
		return nil
	}
	if !l.shouldLog(event) {
		return nil
	}

	if l.config.MaxMessageSize > 0 && len(event.Message) > l.config.MaxMessageSize {
		event.Message = event.Message[:l.config.MaxMessageSize] + "...(truncated)"
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.safePath.AppendFile(l.config.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	return nil
}

// Query implements AuditLogger.Query.
func (l *fileAuditLogger) Query(ctx context.Context, filter *AuditFilter) ([]*AuditEvent, error) {
	data, err := l.safePath.ReadFile(l.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	var events []*AuditEvent
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var event AuditEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		if !matches(&event, filter) {
			continue
		}
		events = append(events, &event)
		if filter != nil && filter.Limit > 0 && len(events) >= filter.Limit {
			break
		}
	}

	return events, nil
}

// Close implements AuditLogger.Close.
func (l *fileAuditLogger) Close() error {
	return nil
}

func (l *fileAuditLogger) shouldLog(event *AuditEvent) bool {
	switch l.config.LogLevel {
	case AuditLogAll:
		return true
	case AuditLogFailures:
		return event.Status != "success"
	default:
		return true
	}
}

func matches(event *AuditEvent, filter *AuditFilter) bool {
	if filter == nil {
		return true
	}
	if !filter.StartTime.IsZero() && event.Timestamp.Before(filter.StartTime) {
		return false
	}
	if !filter.EndTime.IsZero() && event.Timestamp.After(filter.EndTime) {
		return false
	}
	if filter.Catalog != "" && event.Catalog != filter.Catalog {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.Status != "" && event.Status != filter.Status {
		return false
	}
	return true
}

// CreateAuditEvent creates an audit event from an invocation report.
func CreateAuditEvent(report *access.Report, accessErr error) *AuditEvent {
	event := &AuditEvent{
		ID:        report.ID,
		Timestamp: time.Now(),
		Type:      AuditEventAccess,
		Catalog:   report.Catalog,
		MethodID:  report.MethodID,
		Resource:  report.Resource,
		Status:    report.Status.String(),
		Message:   report.Message,
		Duration:  report.Duration,
	}

	if accessErr != nil {
		event.Error = accessErr.Error()
		event.Type = AuditEventError
	}
	if report.Status == access.StatusRateLimited {
		event.Type = AuditEventRateLimited
	}

	return event
}

// AuditHook bridges the audit logger into the runner's hook chain.
type AuditHook struct {
	logger AuditLogger
}

// NewAuditHook creates an audit hook over the given logger.
func NewAuditHook(logger AuditLogger) *AuditHook {
	return &AuditHook{logger: logger}
}

// PreAccess implements the runner hook contract.
func (h *AuditHook) PreAccess(ctx context.Context, catalog string, id int) error {
	return nil
}

// PostAccess logs the finished invocation. Logging failures never
// fail the invocation itself.
func (h *AuditHook) PostAccess(ctx context.Context, report *access.Report, accessErr error) error {
	if report == nil {
		return nil
	}
	_ = h.logger.Log(ctx, CreateAuditEvent(report, accessErr))
	return nil
}

// NoopAuditLogger returns a no-op audit logger.
func NoopAuditLogger() AuditLogger {
	return &noopAuditLogger{}
}

type noopAuditLogger struct{}

func (l *noopAuditLogger) Log(ctx context.Context, event *AuditEvent) error { return nil }
func (l *noopAuditLogger) Query(ctx context.Context, filter *AuditFilter) ([]*AuditEvent, error) {
	return nil, nil
}
func (l *noopAuditLogger) Close() error { return nil }
