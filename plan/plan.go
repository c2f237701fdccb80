package plan

import (
	"fmt"
	"sort"
	"time"
)

// Selection is a compiled catalogue selection.
type Selection struct {
	Catalog string
	IDs     []int
	All     bool
}

// CompiledPlan is a validated, immutable run plan.
type CompiledPlan struct {
	version    string
	name       string
	timeout    time.Duration
	keepGoing  bool
	selections []Selection
	byCatalog  map[string]*Selection
	hash       string
}

// NewCompiledPlan compiles a parsed plan configuration.
func NewCompiledPlan(config *PlanConfig) (*CompiledPlan, error) {
	if config == nil {
		return nil, fmt.Errorf("plan config is nil")
	}

	p := &CompiledPlan{
		version:   config.Version,
		name:      config.Metadata.Name,
		timeout:   time.Duration(config.Defaults.TimeoutSeconds) * time.Second,
		keepGoing: config.Defaults.ContinueOnFailure,
		byCatalog: make(map[string]*Selection),
	}

	for i, sel := range config.Selections {
		if sel.Disabled {
			continue
		}
		if sel.Catalog == "" {
			return nil, fmt.Errorf("selection %d: catalog is required", i)
		}
		if _, dup := p.byCatalog[sel.Catalog]; dup {
			return nil, fmt.Errorf("selection %d: duplicate catalog %q", i, sel.Catalog)
		}

		ids := append([]int(nil), sel.IDs...)
		sort.Ints(ids)
		compiled := Selection{
			Catalog: sel.Catalog,
			IDs:     ids,
			All:     sel.All,
		}
		p.selections = append(p.selections, compiled)
		p.byCatalog[sel.Catalog] = &p.selections[len(p.selections)-1]
	}

	return p, nil
}

// Version returns the plan schema version.
func (p *CompiledPlan) Version() string { return p.version }

// Name returns the plan name.
func (p *CompiledPlan) Name() string { return p.name }

// Timeout returns the per-invocation timeout, zero when unset.
func (p *CompiledPlan) Timeout() time.Duration { return p.timeout }

// ContinueOnFailure reports whether a batch keeps running past
// failures.
func (p *CompiledPlan) ContinueOnFailure() bool { return p.keepGoing }

// Hash returns the content hash of the source file.
func (p *CompiledPlan) Hash() string { return p.hash }

// Selections returns the active selections in file order.
func (p *CompiledPlan) Selections() []Selection {
	out := make([]Selection, len(p.selections))
	copy(out, p.selections)
	return out
}

// Catalogs returns the selected catalogue names, sorted.
func (p *CompiledPlan) Catalogs() []string {
	names := make([]string, 0, len(p.byCatalog))
	for name := range p.byCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Includes reports whether the plan selects the given method.
func (p *CompiledPlan) Includes(catalog string, id int) bool {
	sel, ok := p.byCatalog[catalog]
	if !ok {
		return false
	}
	if sel.All {
		return true
	}
	for _, want := range sel.IDs {
		if want == id {
			return true
		}
	}
	return false
}
