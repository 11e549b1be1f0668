package heuristic

import (
	"errors"
	"fmt"

	"github.com/wbrown/janus-pdb/pdb"
)

// ErrUnreachable is returned for abstract states with no path to the goal
var ErrUnreachable = errors.New("abstract state cannot reach the goal")

// planFrame is one level of the depth-first walk in AbstractPlan
type planFrame struct {
	index  int
	nextOp int
}

// AbstractPlan returns the indices (into the projected task's operators) of
// an optimal abstract plan from the given abstract state to the goal.
//
// The walk follows tight edges only, those where d(s) = cost + d(s'). Every
// finalized state has at least one such edge on an optimal path, so a
// depth-first walk with a visited set terminates even with zero-cost cycles.
func (db *PatternDatabase) AbstractPlan(index int) ([]int, error) {
	if index < 0 || index >= len(db.distances) {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", pdb.ErrInvalidState, index, len(db.distances))
	}
	if !pdb.IsFinite(db.distances[index]) {
		return nil, fmt.Errorf("%w: index %d", ErrUnreachable, index)
	}

	proj := db.projection
	task := proj.ProjectedTask()

	goal := proj.Rank(task.Goal)
	visited := map[int]bool{index: true}
	stack := []planFrame{{index: index}}
	var plan []int

	state := make(pdb.State, len(proj.Pattern()))
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.index == goal {
			return plan, nil
		}

		proj.UnrankInto(top.index, state)
		advanced := false
		for top.nextOp < len(task.Operators) {
			opIndex := top.nextOp
			top.nextOp++

			op := task.Operators[opIndex]
			if !task.Applicable(state, op) {
				continue
			}
			succ := proj.Rank(task.Apply(state, op))
			d := db.distances[succ]
			if visited[succ] || !pdb.IsFinite(d) || d+op.Cost != db.distances[top.index] {
				continue
			}

			visited[succ] = true
			plan = append(plan, opIndex)
			stack = append(stack, planFrame{index: succ})
			advanced = true
			break
		}

		if !advanced {
			stack = stack[:len(stack)-1]
			if len(plan) > 0 {
				plan = plan[:len(plan)-1]
			}
		}
	}

	// Unreachable when the table was built by this package.
	return nil, fmt.Errorf("no tight path from index %d: distance table is inconsistent", index)
}
