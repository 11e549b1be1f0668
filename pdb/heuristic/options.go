package heuristic

import (
	"github.com/wbrown/janus-pdb/pdb/annotations"
)

// BuildOptions configures pattern database construction
type BuildOptions struct {
	// Handler receives construction events; nil disables annotations
	Handler annotations.Handler

	// MaxWorkers bounds concurrent constructions in BuildAll (0 = NumCPU)
	MaxWorkers int
}

// DefaultBuildOptions returns the default construction options
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxWorkers: 0,
	}
}
