package pdb

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Infinity marks an abstract state with no path to the goal.
// It is only ever compared against, never added to.
const Infinity = math.MaxInt

var (
	ErrInvalidTask    = errors.New("invalid task")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidState   = errors.New("invalid state")
)

// IsFinite reports whether d is a real goal distance rather than Infinity.
func IsFinite(d int) bool {
	return d != Infinity
}

// State is an assignment of values to variables.
// Position i holds the value of variable i (pattern-local numbering for
// abstract states).
type State []int

// Clone returns an independent copy of the state
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Equal reports whether two states assign the same values
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the state as an EDN vector, e.g. [0 1 1]
func (s State) String() string {
	return intVector(s)
}

// Pattern is an ordered list of task variable ids.
// The order defines the local numbering of abstract states.
type Pattern []int

// String renders the pattern as an EDN vector
func (p Pattern) String() string {
	return intVector(p)
}

// Key returns a compact comma separated form used in storage keys
func (p Pattern) Key() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Validate checks the pattern against a task with numVariables variables
func (p Pattern) Validate(numVariables int) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	seen := make(map[int]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= numVariables {
			return fmt.Errorf("%w: variable %d out of range [0, %d)", ErrInvalidPattern, v, numVariables)
		}
		if seen[v] {
			return fmt.Errorf("%w: duplicate variable %d", ErrInvalidPattern, v)
		}
		seen[v] = true
	}
	return nil
}

// Variable is a finite-domain state variable
type Variable struct {
	Name   string
	Domain int // values are 0..Domain-1
}

// OperatorEntry defines both the required and the resulting value of one
// variable touched by an operator.
type OperatorEntry struct {
	Variable int
	Pre      int
	Post     int
}

// Operator is an action in transition normal form. Variables without an
// entry are left unchanged.
type Operator struct {
	Name    string
	Cost    int
	Entries []OperatorEntry
}

// String renders the operator for diagnostics
func (o Operator) String() string {
	var sb strings.Builder
	sb.WriteString(o.Name)
	sb.WriteString("(")
	for i, e := range o.Entries {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "v%d:%d->%d", e.Variable, e.Pre, e.Post)
	}
	fmt.Fprintf(&sb, ") cost=%d", o.Cost)
	return sb.String()
}

func intVector(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
