package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const samplePlan = `version: "1.0"
metadata:
  name: sample
defaults:
  timeout_seconds: 10
  continue_on_failure: true
selections:
  - catalog: fs.read
    all: true
  - catalog: task.spawn
    ids: [2, 1]
  - catalog: net.connect
    ids: [1]
    disabled: true
`

func writePlan(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plan.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return dir, "plan.yaml"
}

func TestLoaderLoadAndCompile(t *testing.T) {
	dir, file := writePlan(t, samplePlan)
	l, err := NewLoader(dir, file, WithValidator(&DefaultPlanValidator{}))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	p, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name() != "sample" {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.Timeout().Seconds() != 10 {
		t.Errorf("Timeout() = %v", p.Timeout())
	}
	if !p.ContinueOnFailure() {
		t.Error("ContinueOnFailure() = false")
	}
	if p.Hash() == "" {
		t.Error("Hash() is empty")
	}

	if !p.Includes("fs.read", 12) {
		t.Error("fs.read 12 not included despite all: true")
	}
	if !p.Includes("task.spawn", 1) || !p.Includes("task.spawn", 2) {
		t.Error("task.spawn ids missing")
	}
	if p.Includes("task.spawn", 3) {
		t.Error("task.spawn 3 included unexpectedly")
	}
	if p.Includes("net.connect", 1) {
		t.Error("disabled selection still active")
	}
	if p.Includes("fs.write", 1) {
		t.Error("unselected catalog included")
	}

	got := p.Catalogs()
	if len(got) != 2 || got[0] != "fs.read" || got[1] != "task.spawn" {
		t.Errorf("Catalogs() = %v", got)
	}
}

func TestLoaderCachesUnchangedFile(t *testing.T) {
	dir, file := writePlan(t, samplePlan)
	l, err := NewLoader(dir, file)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("unchanged file recompiled")
	}
}

func TestLoaderWatchReportsLoadErrors(t *testing.T) {
	dir, file := writePlan(t, samplePlan)

	errCh := make(chan error, 1)
	l, err := NewLoader(dir, file, WithOnError(func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, file), []byte("version: [broken"), 0o644); err != nil {
		t.Fatalf("corrupt plan: %v", err)
	}

	l.Watch(context.Background(), 10*time.Millisecond)
	defer l.StopWatch()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("error callback received nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("corrupted plan file never reported")
	}
}

func TestDefaultPlanValidator(t *testing.T) {
	tests := []struct {
		name    string
		config  *PlanConfig
		wantErr bool
	}{
		{
			name:    "valid",
			config:  ExamplePlan(),
			wantErr: false,
		},
		{
			name:    "missing version",
			config:  &PlanConfig{Selections: []SelectionConfig{{Catalog: "fs.read", All: true}}},
			wantErr: true,
		},
		{
			name: "missing catalog",
			config: &PlanConfig{
				Version:    "1.0",
				Selections: []SelectionConfig{{All: true}},
			},
			wantErr: true,
		},
		{
			name: "id below one",
			config: &PlanConfig{
				Version:    "1.0",
				Selections: []SelectionConfig{{Catalog: "fs.read", IDs: []int{0}}},
			},
			wantErr: true,
		},
		{
			name: "empty selection",
			config: &PlanConfig{
				Version:    "1.0",
				Selections: []SelectionConfig{{Catalog: "fs.read"}},
			},
			wantErr: true,
		},
	}

	v := &DefaultPlanValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCompiledPlanRejectsDuplicateCatalog(t *testing.T) {
	_, err := NewCompiledPlan(&PlanConfig{
		Version: "1.0",
		Selections: []SelectionConfig{
			{Catalog: "fs.read", All: true},
			{Catalog: "fs.read", IDs: []int{1}},
		},
	})
	if err == nil {
		t.Fatal("expected duplicate catalog error")
	}
}
