package heuristic

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/annotations"
	"golang.org/x/sync/errgroup"
)

// BuildAll constructs one pattern database per pattern, in parallel.
// Results are returned in the same order as patterns and are independent
// of each other; nothing is combined.
//
// Cancelling ctx stops constructions that have not started yet; a
// construction already running always completes.
func BuildAll(ctx context.Context, task *pdb.Task, patterns []pdb.Pattern, opts BuildOptions) ([]*PatternDatabase, error) {
	if len(patterns) == 0 {
		return []*PatternDatabase{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	results := make([]*PatternDatabase, len(patterns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pattern := range patterns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			db, err := NewPatternDatabaseWithOptions(task, pattern, opts)
			if err != nil {
				return fmt.Errorf("pattern %d %s: %w", i, pattern, err)
			}
			results[i] = db
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	collector := annotations.NewCollector(opts.Handler)
	if collector.Enabled() {
		collector.AddTiming(annotations.BuildAllComplete, start, map[string]interface{}{
			"databases.count": len(results),
		})
	}
	return results, nil
}
