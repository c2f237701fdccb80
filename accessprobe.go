// Package accessprobe is a catalogue of the ways Go programs reach
// protected operating system resources.
//
// Each catalogue groups the standard library variants for one kind of
// access: spawning a process, reading, writing, creating, deleting,
// or executing a file, opening and using a socket, or starting a
// goroutine. Every variant is addressable by a numeric method id and
// invoked through a uniform dispatch front end.
//
// # Quick Start
//
//	runner, err := accessprobe.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runner.Shutdown(context.Background())
//
//	report, err := runner.Access(ctx, "fs.read", 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Message)
//
// # With a Run Plan
//
// Batch runs can be driven by a YAML plan that selects catalogues and
// method ids:
//
//	loader, err := accessprobe.LoadPlan("/etc/accessprobe", "plan.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := loader.Load(ctx)
//
// # Thread Safety
//
// The Runner is safe for concurrent use by multiple goroutines.
package accessprobe

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/fsaccess"
	"github.com/probelab/accessprobe/netaccess"
	"github.com/probelab/accessprobe/plan"
	"github.com/probelab/accessprobe/pool"
	"github.com/probelab/accessprobe/procaccess"
	"github.com/probelab/accessprobe/taskaccess"
)

// Version is the library version.
const Version = "1.0.0"

// =============================================================================
// Core Types
// =============================================================================

// Catalog is a group of method variants that access one kind of
// protected resource.
type Catalog = access.Catalog

// Messages holds a catalogue's message templates.
type Messages = access.Messages

// Registry maps catalogue names to catalogues.
type Registry = access.Registry

// Runner is the uniform dispatch front end over a registry.
type Runner = access.Runner

// Builder creates configured Runner instances.
type Builder = access.Builder

// Report contains the outcome of a single invocation.
type Report = access.Report

// Status classifies an invocation outcome.
type Status = access.Status

// Status constants.
const (
	StatusSuccess     = access.StatusSuccess
	StatusFailure     = access.StatusFailure
	StatusUnsupported = access.StatusUnsupported
	StatusRateLimited = access.StatusRateLimited
	StatusCanceled    = access.StatusCanceled
)

// =============================================================================
// Plan Types
// =============================================================================

// PlanLoader loads run plans from YAML files.
type PlanLoader = plan.Loader

// PlanConfig is a parsed run plan.
type PlanConfig = plan.PlanConfig

// CompiledPlan is a validated, immutable run plan.
type CompiledPlan = plan.CompiledPlan

// =============================================================================
// Error Variables
// =============================================================================

// Common errors returned by the library.
var (
	// ErrUnknownCatalog indicates the catalogue name is not registered.
	ErrUnknownCatalog = access.ErrUnknownCatalog

	// ErrUnsupportedID indicates a method id outside the supported range.
	ErrUnsupportedID = access.ErrUnsupportedID

	// ErrRunnerShutdown indicates the runner has been shut down.
	ErrRunnerShutdown = access.ErrRunnerShutdown

	// ErrRateLimited indicates the rate limit was exceeded.
	ErrRateLimited = access.ErrRateLimited
)

// =============================================================================
// Factory Functions
// =============================================================================

// New creates a Runner with the default catalogues rooted in the
// "resources" directory.
func New() (*Runner, error) {
	catalogs, err := DefaultCatalogs("resources")
	if err != nil {
		return nil, err
	}
	return access.NewBuilder().WithCatalogs(catalogs...).Build()
}

// NewBuilder creates a runner builder.
func NewBuilder() *Builder {
	return access.NewBuilder()
}

// DefaultCatalogs returns every built-in catalogue, with file
// catalogues rooted at baseDir. The goroutine catalogue gets its own
// small worker pool.
func DefaultCatalogs(baseDir string) ([]Catalog, error) {
	workers, err := pool.New(pool.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return []Catalog{
		procaccess.NewCommandCatalog(),
		fsaccess.NewReadCatalog(baseDir),
		fsaccess.NewWriteCatalog(baseDir),
		fsaccess.NewCreateCatalog(baseDir),
		fsaccess.NewDeleteCatalog(baseDir),
		fsaccess.NewScriptCatalog(baseDir),
		netaccess.NewConnectCatalog(),
		netaccess.NewSendCatalog(),
		netaccess.NewReceiveCatalog(),
		taskaccess.NewSpawnCatalog(workers),
	}, nil
}

// =============================================================================
// Plan Loading
// =============================================================================

// LoadPlan loads a run plan from a YAML file. The basePath is the
// directory containing the plan file.
func LoadPlan(basePath, planFile string) (*PlanLoader, error) {
	return plan.NewLoader(basePath, planFile, plan.WithValidator(&plan.DefaultPlanValidator{}))
}

// LoadPlanFromPath loads a run plan from a full file path.
func LoadPlanFromPath(path string) (*PlanLoader, error) {
	dir := filepath.Dir(path)
	file := filepath.Base(path)
	return LoadPlan(dir, file)
}

// ExamplePlan returns an example plan configuration.
func ExamplePlan() *PlanConfig {
	return plan.ExamplePlan()
}

// =============================================================================
// Resource Fixtures
// =============================================================================

// EnsureResources seeds the fixture files the file catalogues target.
// Existing files are left untouched.
func EnsureResources(baseDir string) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	fixtures := []struct {
		name string
		body string
		mode os.FileMode
	}{
		{"FileToRead.txt", "fixture content for read variants\n", 0o644},
		{"FileToWrite.txt", "fixture content for write variants\n", 0o644},
		{"FileToDelete.txt", "fixture content for delete variants\n", 0o644},
		{"FileToExecute.sh", "#!/bin/sh\necho Hello World!\n", 0o755},
	}
	for _, f := range fixtures {
		path := filepath.Join(baseDir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(f.body), f.mode); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Convenience Functions
// =============================================================================

// Access is a convenience function for a one-off invocation. For
// repeated invocations, create a Runner instead.
func Access(ctx context.Context, catalog string, id int) (*Report, error) {
	runner, err := New()
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck // Shutdown errors are non-critical in cleanup context
		_ = runner.Shutdown(context.Background())
	}()

	return runner.Access(ctx, catalog, id)
}

// AccessWithTimeout is a convenience function with an explicit
// per-invocation timeout.
func AccessWithTimeout(ctx context.Context, timeout time.Duration, catalog string, id int) (*Report, error) {
	catalogs, err := DefaultCatalogs("resources")
	if err != nil {
		return nil, err
	}
	runner, err := access.NewBuilder().
		WithCatalogs(catalogs...).
		WithDefaultTimeout(timeout).
		Build()
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck // Shutdown errors are non-critical in cleanup context
		_ = runner.Shutdown(context.Background())
	}()

	return runner.Access(ctx, catalog, id)
}

// RunPlan invokes every method a compiled plan selects and returns
// the reports in catalogue order.
func RunPlan(ctx context.Context, runner *Runner, p *CompiledPlan) ([]*Report, error) {
	var all []*Report
	for _, sel := range p.Selections() {
		if sel.All {
			reports, err := runner.RunCatalog(ctx, sel.Catalog)
			if err != nil {
				return all, err
			}
			all = append(all, reports...)
			continue
		}
		for _, id := range sel.IDs {
			report, err := runner.Access(ctx, sel.Catalog, id)
			if report != nil {
				all = append(all, report)
			}
			if err != nil && !p.ContinueOnFailure() {
				return all, err
			}
		}
	}
	return all, nil
}
