// Package projection restricts a task to a subset of its variables and
// provides the perfect hash between abstract states and dense indices.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/wbrown/janus-pdb/pdb"
)

// ErrStateSpaceTooLarge is returned when the abstract state space does not
// fit into 32-bit indices.
var ErrStateSpaceTooLarge = errors.New("abstract state space too large")

// MaxStates is the largest abstract state space a projection accepts.
// On 32-bit platforms math.MaxInt is the tighter bound.
const MaxStates uint64 = 1<<32 - 1

// stateLimit is MaxStates capped to what an int index can hold
func stateLimit() uint64 {
	if uint64(math.MaxInt) < MaxStates {
		return uint64(math.MaxInt)
	}
	return MaxStates
}

// Projection maps abstract states of a pattern to indices in [0, NumStates)
// using mixed-radix encoding over the pattern's domain sizes.
type Projection struct {
	pattern     pdb.Pattern
	domains     []int // local domain sizes
	multipliers []int // multipliers[i] = product of domains[0..i-1]
	numStates   int
	projected   *pdb.Task
}

// New builds the projection of task onto pattern
func New(task *pdb.Task, pattern pdb.Pattern) (*Projection, error) {
	if err := pattern.Validate(task.NumVariables()); err != nil {
		return nil, err
	}

	p := &Projection{
		pattern:     append(pdb.Pattern(nil), pattern...),
		domains:     make([]int, len(pattern)),
		multipliers: make([]int, len(pattern)),
	}

	limit := stateLimit()
	numStates := 1
	for i, v := range pattern {
		domain := task.Variables[v].Domain
		if domain < 1 {
			return nil, fmt.Errorf("%w: variable %s has empty domain", pdb.ErrInvalidTask, task.VariableName(v))
		}
		p.domains[i] = domain
		p.multipliers[i] = numStates
		if uint64(numStates) > limit/uint64(domain) {
			return nil, fmt.Errorf("%w: pattern %s exceeds %d states", ErrStateSpaceTooLarge, pattern, limit)
		}
		numStates *= domain
	}
	p.numStates = numStates
	p.projected = p.projectTask(task)

	return p, nil
}

// projectTask keeps, for every operator, the entries on pattern variables.
// Operators without such entries would be self-loops on every abstract
// state and are dropped.
func (p *Projection) projectTask(task *pdb.Task) *pdb.Task {
	local := make(map[int]int, len(p.pattern))
	for i, v := range p.pattern {
		local[v] = i
	}

	projected := &pdb.Task{
		Variables: make([]pdb.Variable, len(p.pattern)),
		Goal:      p.Project(task.Goal),
	}
	for i, v := range p.pattern {
		projected.Variables[i] = task.Variables[v]
	}

	for _, op := range task.Operators {
		var entries []pdb.OperatorEntry
		for _, e := range op.Entries {
			if id, ok := local[e.Variable]; ok {
				entries = append(entries, pdb.OperatorEntry{Variable: id, Pre: e.Pre, Post: e.Post})
			}
		}
		if len(entries) == 0 {
			continue
		}
		projected.Operators = append(projected.Operators, pdb.Operator{
			Name:    op.Name,
			Cost:    op.Cost,
			Entries: entries,
		})
	}

	return projected
}

// NumStates returns the size of the abstract state space
func (p *Projection) NumStates() int {
	return p.numStates
}

// Pattern returns the projected variables in local order
func (p *Projection) Pattern() pdb.Pattern {
	return p.pattern
}

// ProjectedTask returns the task restricted to the pattern variables
func (p *Projection) ProjectedTask() *pdb.Task {
	return p.projected
}

// Rank returns the perfect hash index of an abstract state
func (p *Projection) Rank(s pdb.State) int {
	index := 0
	for i, v := range s {
		index += v * p.multipliers[i]
	}
	return index
}

// Unrank returns the abstract state with the given index
func (p *Projection) Unrank(index int) pdb.State {
	s := make(pdb.State, len(p.domains))
	p.UnrankInto(index, s)
	return s
}

// UnrankInto decodes index into s, which must have one slot per pattern variable
func (p *Projection) UnrankInto(index int, s pdb.State) {
	for i, domain := range p.domains {
		s[i] = index % domain
		index /= domain
	}
}

// Project restricts a full state to the pattern variables
func (p *Projection) Project(full pdb.State) pdb.State {
	s := make(pdb.State, len(p.pattern))
	for i, v := range p.pattern {
		s[i] = full[v]
	}
	return s
}

// RankFull projects and ranks a full state without allocating
func (p *Projection) RankFull(full pdb.State) int {
	index := 0
	for i, v := range p.pattern {
		index += full[v] * p.multipliers[i]
	}
	return index
}
