// Package heuristic builds pattern databases: exact goal distance tables
// over a projected task, used as admissible heuristics by a search engine.
package heuristic

import (
	"errors"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/annotations"
	"github.com/wbrown/janus-pdb/pdb/projection"
)

// ErrDistanceOverflow is returned when a reachable abstract state's goal
// distance does not fit below pdb.Infinity.
var ErrDistanceOverflow = errors.New("goal distance overflows")

// BuildStats describes one construction
type BuildStats struct {
	NumStates   int           // size of the abstract state space
	Reachable   int           // states with a finite goal distance
	Expanded    int           // states finalized and expanded
	Pushes      int           // frontier insertions
	StalePops   int           // popped entries discarded as stale
	MaxFrontier int           // largest frontier size observed
	Duration    time.Duration // wall time of the search
}

// PatternDatabase holds the goal distance of every abstract state of a
// projection. The table is written only during construction and is safe
// for concurrent reads afterwards.
type PatternDatabase struct {
	projection *projection.Projection
	distances  []int
	stats      BuildStats
}

// NewPatternDatabase projects task onto pattern and computes all abstract
// goal distances.
func NewPatternDatabase(task *pdb.Task, pattern pdb.Pattern) (*PatternDatabase, error) {
	return NewPatternDatabaseWithOptions(task, pattern, DefaultBuildOptions())
}

// NewPatternDatabaseWithOptions is NewPatternDatabase with explicit options
func NewPatternDatabaseWithOptions(task *pdb.Task, pattern pdb.Pattern, opts BuildOptions) (*PatternDatabase, error) {
	collector := annotations.NewCollector(opts.Handler)

	start := time.Now()
	proj, err := projection.New(task, pattern)
	if err != nil {
		if collector.Enabled() {
			collector.AddTiming(annotations.ErrorBuild, start, map[string]interface{}{
				"pattern": pattern.String(),
				"error":   err,
			})
		}
		return nil, fmt.Errorf("failed to project task: %w", err)
	}
	if collector.Enabled() {
		collector.AddTiming(annotations.ProjectionCreated, start, map[string]interface{}{
			"pattern":         pattern.String(),
			"states.count":    proj.NumStates(),
			"operators.count": len(proj.ProjectedTask().Operators),
		})
	}

	db := &PatternDatabase{projection: proj}
	if err := db.build(collector); err != nil {
		if collector.Enabled() {
			collector.AddTiming(annotations.ErrorBuild, start, map[string]interface{}{
				"pattern": pattern.String(),
				"error":   err,
			})
		}
		return nil, err
	}
	return db, nil
}

// build runs a backward uniform-cost search from the abstract goal.
// Swapping the roles of pre- and post-values regresses operators, which is
// sound because in transition normal form untouched variables never change.
func (db *PatternDatabase) build(collector *annotations.Collector) error {
	proj := db.projection
	task := proj.ProjectedTask()

	start := time.Now()
	if collector.Enabled() {
		collector.Add(annotations.Event{
			Name:  annotations.BuildBegin,
			Start: start,
			End:   start,
			Data:  map[string]interface{}{"pattern": proj.Pattern().String()},
		})
	}

	db.distances = make([]int, proj.NumStates())
	for i := range db.distances {
		db.distances[i] = pdb.Infinity
	}
	stats := BuildStats{NumStates: proj.NumStates()}

	queue := &frontier{}
	queue.Push(0, proj.Rank(task.Goal))
	stats.Pushes++
	stats.MaxFrontier = 1

	current := make(pdb.State, len(proj.Pattern()))
	predecessor := make(pdb.State, len(proj.Pattern()))

	// Predecessors whose candidate distance reached pdb.Infinity. Such a
	// state is fine if a cheaper path finalizes it anyway.
	saturated := roaring.New()

	for queue.Len() > 0 {
		entry := queue.Pop()
		if entry.distance >= db.distances[entry.index] {
			stats.StalePops++
			continue
		}
		db.distances[entry.index] = entry.distance
		stats.Expanded++

		proj.UnrankInto(entry.index, current)

		for _, op := range task.Operators {
			if !reaches(op, current) {
				continue
			}

			copy(predecessor, current)
			for _, e := range op.Entries {
				predecessor[e.Variable] = e.Pre
			}

			predecessorIndex := proj.Rank(predecessor)
			if op.Cost >= pdb.Infinity-entry.distance {
				saturated.Add(uint32(predecessorIndex))
				continue
			}
			candidate := entry.distance + op.Cost
			if candidate < db.distances[predecessorIndex] {
				queue.Push(candidate, predecessorIndex)
				stats.Pushes++
				if queue.Len() > stats.MaxFrontier {
					stats.MaxFrontier = queue.Len()
				}
			}
		}
	}

	it := saturated.Iterator()
	for it.HasNext() {
		if i := int(it.Next()); !pdb.IsFinite(db.distances[i]) {
			return fmt.Errorf("%w: pattern %s, abstract state %d", ErrDistanceOverflow, proj.Pattern(), i)
		}
	}

	stats.Reachable = stats.Expanded
	stats.Duration = time.Since(start)
	db.stats = stats

	if collector.Enabled() {
		collector.AddTiming(annotations.BuildComplete, start, map[string]interface{}{
			"pattern":         proj.Pattern().String(),
			"states.count":    stats.NumStates,
			"reachable.count": stats.Reachable,
			"expanded.count":  stats.Expanded,
			"stale.count":     stats.StalePops,
			"pushes.count":    stats.Pushes,
		})
	}
	return nil
}

// reaches reports whether applying op forward could produce s, i.e. every
// entry's post-value matches s.
func reaches(op pdb.Operator, s pdb.State) bool {
	for _, e := range op.Entries {
		if s[e.Variable] != e.Post {
			return false
		}
	}
	return true
}

// FromDistances rehydrates a pattern database from a previously computed
// table, e.g. one loaded from storage.
func FromDistances(task *pdb.Task, pattern pdb.Pattern, distances []int) (*PatternDatabase, error) {
	proj, err := projection.New(task, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to project task: %w", err)
	}
	if len(distances) != proj.NumStates() {
		return nil, fmt.Errorf("distance table has %d entries, pattern %s has %d states",
			len(distances), pattern, proj.NumStates())
	}

	db := &PatternDatabase{
		projection: proj,
		distances:  append([]int(nil), distances...),
		stats:      BuildStats{NumStates: proj.NumStates()},
	}
	for _, d := range db.distances {
		if pdb.IsFinite(d) {
			db.stats.Reachable++
		}
	}
	return db, nil
}

// LookupDistance returns the heuristic value of a full (unprojected) state:
// the goal distance of its abstract state, or pdb.Infinity.
func (db *PatternDatabase) LookupDistance(state pdb.State) int {
	return db.distances[db.projection.RankFull(state)]
}

// AbstractDistance returns the goal distance of an abstract state index
func (db *PatternDatabase) AbstractDistance(index int) int {
	return db.distances[index]
}

// Distances returns a copy of the distance table
func (db *PatternDatabase) Distances() []int {
	return append([]int(nil), db.distances...)
}

// NumStates returns the size of the abstract state space
func (db *PatternDatabase) NumStates() int {
	return len(db.distances)
}

// Pattern returns the pattern this database was built for
func (db *PatternDatabase) Pattern() pdb.Pattern {
	return db.projection.Pattern()
}

// Projection returns the underlying projection
func (db *PatternDatabase) Projection() *projection.Projection {
	return db.projection
}

// Stats returns construction statistics
func (db *PatternDatabase) Stats() BuildStats {
	return db.stats
}

// DeadEnds returns the indices of abstract states with no path to the goal.
// Any full state projecting onto one of them is unsolvable.
func (db *PatternDatabase) DeadEnds() *roaring.Bitmap {
	bm := roaring.New()
	for i, d := range db.distances {
		if !pdb.IsFinite(d) {
			bm.Add(uint32(i))
		}
	}
	return bm
}
