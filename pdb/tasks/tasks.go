// Package tasks generates small transition-normal-form planning tasks used
// by tests, benchmarks and the command line demo.
package tasks

import (
	"fmt"

	"github.com/wbrown/janus-pdb/pdb"
)

// TwoSwitches is the two-variable example: goal (1,1), opA sets v0 at
// cost 1, opB sets v1 at cost 2. The distance of (0,0) is 3.
func TwoSwitches() *pdb.Task {
	return &pdb.Task{
		Variables: []pdb.Variable{{Name: "v0", Domain: 2}, {Name: "v1", Domain: 2}},
		Operators: []pdb.Operator{
			{Name: "opA", Cost: 1, Entries: []pdb.OperatorEntry{{Variable: 0, Pre: 0, Post: 1}}},
			{Name: "opB", Cost: 2, Entries: []pdb.OperatorEntry{{Variable: 1, Pre: 0, Post: 1}}},
		},
		Goal: pdb.State{1, 1},
	}
}

// Switches has one binary variable per cost; operator i turns switch i on
// at costs[i]. The optimal cost of a state is the sum of costs of its off
// switches.
func Switches(costs []int) *pdb.Task {
	task := &pdb.Task{Goal: make(pdb.State, len(costs))}
	for i, c := range costs {
		task.Variables = append(task.Variables, pdb.Variable{Name: fmt.Sprintf("switch-%d", i), Domain: 2})
		task.Operators = append(task.Operators, pdb.Operator{
			Name:    fmt.Sprintf("turn-on-%d", i),
			Cost:    c,
			Entries: []pdb.OperatorEntry{{Variable: i, Pre: 0, Post: 1}},
		})
		task.Goal[i] = 1
	}
	return task
}

// Line is a single counter with values 0..length-1 that can be moved one
// step right at cost 1 and one step left at cost 2, except that the last
// value is isolated: nothing leads in or out of it. Goal is 0.
func Line(length int) *pdb.Task {
	task := &pdb.Task{
		Variables: []pdb.Variable{{Name: "pos", Domain: length}},
		Goal:      pdb.State{0},
	}
	for i := 0; i+2 < length; i++ {
		task.Operators = append(task.Operators,
			pdb.Operator{
				Name:    fmt.Sprintf("right-%d", i),
				Cost:    1,
				Entries: []pdb.OperatorEntry{{Variable: 0, Pre: i, Post: i + 1}},
			},
			pdb.Operator{
				Name:    fmt.Sprintf("left-%d", i+1),
				Cost:    2,
				Entries: []pdb.OperatorEntry{{Variable: 0, Pre: i + 1, Post: i}},
			})
	}
	return task
}

// Logistics is a single truck moving between fully connected locations and
// carrying packages. Variable 0 is the truck location; variable 1+p is the
// position of package p, where value == locations means "in the truck".
// Package p starts wherever the caller says and must end at location
// (p+1) % locations; the truck must end at location 0.
func Logistics(locations, packages int) *pdb.Task {
	inTruck := locations
	task := &pdb.Task{
		Variables: []pdb.Variable{{Name: "truck", Domain: locations}},
		Goal:      pdb.State{0},
	}

	for from := 0; from < locations; from++ {
		for to := 0; to < locations; to++ {
			if from == to {
				continue
			}
			task.Operators = append(task.Operators, pdb.Operator{
				Name:    fmt.Sprintf("drive-%d-%d", from, to),
				Cost:    1,
				Entries: []pdb.OperatorEntry{{Variable: 0, Pre: from, Post: to}},
			})
		}
	}

	for p := 0; p < packages; p++ {
		v := 1 + p
		task.Variables = append(task.Variables, pdb.Variable{Name: fmt.Sprintf("pkg-%d", p), Domain: locations + 1})
		task.Goal = append(task.Goal, (p+1)%locations)

		for l := 0; l < locations; l++ {
			task.Operators = append(task.Operators,
				pdb.Operator{
					Name: fmt.Sprintf("load-%d-%d", p, l),
					Cost: 1,
					Entries: []pdb.OperatorEntry{
						{Variable: 0, Pre: l, Post: l},
						{Variable: v, Pre: l, Post: inTruck},
					},
				},
				pdb.Operator{
					Name: fmt.Sprintf("unload-%d-%d", p, l),
					Cost: 1,
					Entries: []pdb.OperatorEntry{
						{Variable: 0, Pre: l, Post: l},
						{Variable: v, Pre: inTruck, Post: l},
					},
				})
		}
	}

	return task
}

// LogisticsInitial returns the initial state where every package is at
// location 0 and the truck at the last location.
func LogisticsInitial(locations, packages int) pdb.State {
	s := make(pdb.State, 1+packages)
	s[0] = locations - 1
	return s
}
