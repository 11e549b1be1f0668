package pdb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Task is a planning task in transition normal form: every operator entry
// carries both a pre- and a post-value and the goal assigns every variable.
type Task struct {
	Variables []Variable
	Operators []Operator
	Goal      State
}

// NumVariables returns the number of state variables
func (t *Task) NumVariables() int {
	return len(t.Variables)
}

// Domains returns the domain size of every variable
func (t *Task) Domains() []int {
	domains := make([]int, len(t.Variables))
	for i, v := range t.Variables {
		domains[i] = v.Domain
	}
	return domains
}

// VariableName returns the name of variable id, or a generated one
func (t *Task) VariableName(id int) string {
	if id >= 0 && id < len(t.Variables) && t.Variables[id].Name != "" {
		return t.Variables[id].Name
	}
	return fmt.Sprintf("v%d", id)
}

// Applicable reports whether op can be applied in s
func (t *Task) Applicable(s State, op Operator) bool {
	for _, e := range op.Entries {
		if s[e.Variable] != e.Pre {
			return false
		}
	}
	return true
}

// Apply returns the successor of s under op. The caller must check
// Applicable first.
func (t *Task) Apply(s State, op Operator) State {
	succ := s.Clone()
	for _, e := range op.Entries {
		succ[e.Variable] = e.Post
	}
	return succ
}

// ValidateState checks that s is a full assignment within the task's domains
func (t *Task) ValidateState(s State) error {
	if len(s) != len(t.Variables) {
		return fmt.Errorf("%w: expected %d values, got %d", ErrInvalidState, len(t.Variables), len(s))
	}
	for i, v := range s {
		if v < 0 || v >= t.Variables[i].Domain {
			return fmt.Errorf("%w: value %d of %s outside domain [0, %d)",
				ErrInvalidState, v, t.VariableName(i), t.Variables[i].Domain)
		}
	}
	return nil
}

// Validate checks the structural invariants of transition normal form.
// The search itself never calls this; loaders do.
func (t *Task) Validate() error {
	if len(t.Variables) == 0 {
		return fmt.Errorf("%w: no variables", ErrInvalidTask)
	}
	for i, v := range t.Variables {
		if v.Domain < 1 {
			return fmt.Errorf("%w: variable %s has empty domain", ErrInvalidTask, t.VariableName(i))
		}
	}
	if err := t.ValidateState(t.Goal); err != nil {
		return fmt.Errorf("%w: goal: %v", ErrInvalidTask, err)
	}

	for i, op := range t.Operators {
		if op.Cost < 0 {
			return fmt.Errorf("%w: operator %d (%s) has negative cost %d", ErrInvalidTask, i, op.Name, op.Cost)
		}
		touched := make(map[int]bool, len(op.Entries))
		for _, e := range op.Entries {
			if e.Variable < 0 || e.Variable >= len(t.Variables) {
				return fmt.Errorf("%w: operator %s references unknown variable %d", ErrInvalidTask, op.Name, e.Variable)
			}
			if touched[e.Variable] {
				return fmt.Errorf("%w: operator %s has two entries for %s", ErrInvalidTask, op.Name, t.VariableName(e.Variable))
			}
			touched[e.Variable] = true

			domain := t.Variables[e.Variable].Domain
			if e.Pre < 0 || e.Pre >= domain || e.Post < 0 || e.Post >= domain {
				return fmt.Errorf("%w: operator %s entry for %s outside domain [0, %d)",
					ErrInvalidTask, op.Name, t.VariableName(e.Variable), domain)
			}
		}
	}
	return nil
}

// Fingerprint returns a deterministic hash of the task structure.
// Names are ignored; only what affects goal distances is hashed.
func (t *Task) Fingerprint() string {
	h := sha256.New()

	fmt.Fprintf(h, "VARS:")
	for _, v := range t.Variables {
		fmt.Fprintf(h, "%d,", v.Domain)
	}
	fmt.Fprintf(h, "GOAL:%v", []int(t.Goal))
	fmt.Fprintf(h, "OPS:%d:", len(t.Operators))
	for _, op := range t.Operators {
		fmt.Fprintf(h, "{%d", op.Cost)
		for _, e := range op.Entries {
			fmt.Fprintf(h, "[%d %d %d]", e.Variable, e.Pre, e.Post)
		}
		fmt.Fprintf(h, "}")
	}

	return hex.EncodeToString(h.Sum(nil))[:32]
}
