// Package plan loads YAML run plans that select which catalogue
// methods a batch run invokes.
package plan

// PlanConfig is the YAML representation of a run plan.
type PlanConfig struct {
	// Version is the plan schema version.
	Version string `yaml:"version"`

	// Metadata describes the plan.
	Metadata PlanMetadata `yaml:"metadata,omitempty"`

	// Defaults apply to every selection unless overridden.
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`

	// Selections name the catalogues and method ids to run.
	Selections []SelectionConfig `yaml:"selections"`
}

// PlanMetadata describes a plan.
type PlanMetadata struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds plan-wide defaults.
type DefaultsConfig struct {
	// TimeoutSeconds bounds each invocation. Zero means the runner
	// default.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// ContinueOnFailure keeps a batch running past failed
	// invocations.
	ContinueOnFailure bool `yaml:"continue_on_failure,omitempty"`
}

// SelectionConfig selects methods within one catalogue.
type SelectionConfig struct {
	// Catalog is the catalogue name, for example "fs.read".
	Catalog string `yaml:"catalog"`

	// IDs lists the method ids to run. Empty with All unset means
	// the selection is inert.
	IDs []int `yaml:"ids,omitempty"`

	// All selects every method the catalogue supports.
	All bool `yaml:"all,omitempty"`

	// Enabled toggles the selection. Defaults to true in compiled
	// form when omitted together with Disabled.
	Disabled bool `yaml:"disabled,omitempty"`
}
