package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/tasks"
)

// checkPlan applies plan from index and verifies it reaches the goal at
// exactly the stored distance.
func checkPlan(t *testing.T, db *PatternDatabase, index int, plan []int) {
	t.Helper()
	proj := db.Projection()
	task := proj.ProjectedTask()

	state := proj.Unrank(index)
	cost := 0
	for _, opIndex := range plan {
		op := task.Operators[opIndex]
		require.True(t, task.Applicable(state, op), "%s not applicable in %s", op.Name, state)
		state = task.Apply(state, op)
		cost += op.Cost
	}
	assert.True(t, state.Equal(task.Goal), "plan from %d ends in %s", index, state)
	assert.Equal(t, db.AbstractDistance(index), cost)
}

func TestAbstractPlanTwoSwitches(t *testing.T) {
	db, err := NewPatternDatabase(tasks.TwoSwitches(), pdb.Pattern{0, 1})
	require.NoError(t, err)

	index := db.Projection().Rank(pdb.State{0, 0})
	plan, err := db.AbstractPlan(index)
	require.NoError(t, err)
	assert.Len(t, plan, 2)
	checkPlan(t, db, index, plan)

	goal := db.Projection().Rank(pdb.State{1, 1})
	plan, err = db.AbstractPlan(goal)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestAbstractPlanEveryState(t *testing.T) {
	task := tasks.Logistics(3, 2)
	for _, pattern := range []pdb.Pattern{{0, 1}, {0, 1, 2}} {
		db, err := NewPatternDatabase(task, pattern)
		require.NoError(t, err)

		for i := 0; i < db.NumStates(); i++ {
			if !pdb.IsFinite(db.AbstractDistance(i)) {
				continue
			}
			plan, err := db.AbstractPlan(i)
			require.NoError(t, err, "pattern %s index %d", pattern, i)
			checkPlan(t, db, i, plan)
		}
	}
}

func TestAbstractPlanZeroCostCycle(t *testing.T) {
	task := &pdb.Task{
		Variables: []pdb.Variable{{Name: "a", Domain: 2}, {Name: "b", Domain: 2}},
		Operators: []pdb.Operator{
			{Name: "b-on", Cost: 0, Entries: []pdb.OperatorEntry{{Variable: 1, Pre: 0, Post: 1}}},
			{Name: "b-off", Cost: 0, Entries: []pdb.OperatorEntry{{Variable: 1, Pre: 1, Post: 0}}},
			{Name: "a-on", Cost: 3, Entries: []pdb.OperatorEntry{{Variable: 0, Pre: 0, Post: 1}, {Variable: 1, Pre: 0, Post: 0}}},
		},
		Goal: pdb.State{1, 1},
	}
	db, err := NewPatternDatabase(task, pdb.Pattern{0, 1})
	require.NoError(t, err)

	for i := 0; i < db.NumStates(); i++ {
		plan, err := db.AbstractPlan(i)
		require.NoError(t, err)
		checkPlan(t, db, i, plan)
	}
}

func TestAbstractPlanErrors(t *testing.T) {
	db, err := NewPatternDatabase(tasks.Line(4), pdb.Pattern{0})
	require.NoError(t, err)

	_, err = db.AbstractPlan(3)
	assert.ErrorIs(t, err, ErrUnreachable)

	_, err = db.AbstractPlan(17)
	assert.ErrorIs(t, err, pdb.ErrInvalidState)
}
