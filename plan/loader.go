package plan

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"
)

// Loader loads and manages run plans from YAML files.
type Loader struct {
	path       string
	safePath   *safepath.SafePath
	plan       *CompiledPlan
	mu         sync.RWMutex
	lastHash   []byte
	lastLoad   time.Time
	validators []PlanValidator
	onChange   []func(*CompiledPlan)
	onError    []func(error)
	watchStop  chan struct{}
}

// PlanValidator validates a plan configuration.
type PlanValidator interface {
	Validate(config *PlanConfig) error
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithValidator adds a plan validator.
func WithValidator(v PlanValidator) LoaderOption {
	return func(l *Loader) {
		l.validators = append(l.validators, v)
	}
}

// WithOnChange adds a callback for plan changes.
func WithOnChange(fn func(*CompiledPlan)) LoaderOption {
	return func(l *Loader) {
		l.onChange = append(l.onChange, fn)
	}
}

// WithOnError adds a callback for load errors during watching.
func WithOnError(fn func(error)) LoaderOption {
	return func(l *Loader) {
		l.onError = append(l.onError, fn)
	}
}

// NewLoader creates a plan loader rooted at basePath.
func NewLoader(basePath, planFile string, opts ...LoaderOption) (*Loader, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	l := &Loader{
		path:       planFile,
		safePath:   sp,
		validators: make([]PlanValidator, 0),
		onChange:   make([]func(*CompiledPlan), 0),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Load loads the plan from the file. Unchanged files return the
// cached compilation.
func (l *Loader) Load(ctx context.Context) (*CompiledPlan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.safePath.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	hash := sha256.Sum256(data)
	if l.plan != nil && string(hash[:]) == string(l.lastHash) {
		return l.plan, nil
	}

	var config PlanConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}

	for _, v := range l.validators {
		if err := v.Validate(&config); err != nil {
			return nil, fmt.Errorf("plan validation failed: %w", err)
		}
	}

	compiled, err := NewCompiledPlan(&config)
	if err != nil {
		return nil, fmt.Errorf("compiling plan: %w", err)
	}

	compiled.hash = fmt.Sprintf("%x", hash)

	l.plan = compiled
	l.lastHash = hash[:]
	l.lastLoad = time.Now()

	for _, fn := range l.onChange {
		fn(compiled)
	}

	return compiled, nil
}

// Get returns the current plan without reloading.
func (l *Loader) Get() *CompiledPlan {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.plan
}

// Reload reloads the plan from the file.
func (l *Loader) Reload(ctx context.Context) error {
	_, err := l.Load(ctx)
	return err
}

// Watch starts polling the plan file for changes.
func (l *Loader) Watch(ctx context.Context, interval time.Duration) {
	l.watchStop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.watchStop:
				return
			case <-ticker.C:
				if _, err := l.Load(ctx); err != nil {
					for _, fn := range l.onError {
						fn(err)
					}
				}
			}
		}
	}()
}

// StopWatch stops watching for plan changes.
func (l *Loader) StopWatch() {
	if l.watchStop != nil {
		close(l.watchStop)
	}
}

// ParseYAML parses a YAML plan configuration.
func ParseYAML(data []byte) (*PlanConfig, error) {
	var config PlanConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultPlanValidator validates plan configuration.
type DefaultPlanValidator struct{}

// Validate validates the plan configuration.
func (v *DefaultPlanValidator) Validate(config *PlanConfig) error {
	if config.Version == "" {
		return fmt.Errorf("plan version is required")
	}

	for i, sel := range config.Selections {
		if sel.Catalog == "" {
			return fmt.Errorf("selection %d: catalog is required", i)
		}
		for j, id := range sel.IDs {
			if id < 1 {
				return fmt.Errorf("selection %d, id %d: method ids start at 1", i, j)
			}
		}
		if !sel.All && len(sel.IDs) == 0 && !sel.Disabled {
			return fmt.Errorf("selection %d: ids or all is required", i)
		}
	}

	return nil
}

// ExamplePlan returns an example plan configuration.
func ExamplePlan() *PlanConfig {
	return &PlanConfig{
		Version: "1.0",
		Metadata: PlanMetadata{
			Name:        "example-plan",
			Description: "Run every file read variant plus one spawn variant",
		},
		Defaults: DefaultsConfig{
			TimeoutSeconds:    30,
			ContinueOnFailure: true,
		},
		Selections: []SelectionConfig{
			{Catalog: "fs.read", All: true},
			{Catalog: "task.spawn", IDs: []int{1, 3}},
		},
	}
}
