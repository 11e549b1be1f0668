// Package parser reads and writes planning tasks, states and patterns in
// EDN notation.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/edn"
)

// ParseTask parses a task map of the form
//
//	{:variables [{:name "truck" :domain 3} 4]
//	 :goal      [0 2]
//	 :operators [{:name "drive" :cost 1 :entries [[0 0 1]]}]}
//
// A variable may be given as a bare domain size. Operator cost defaults to 1.
// The result is validated with pdb.Task.Validate.
func ParseTask(input string) (*pdb.Task, error) {
	node, err := edn.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("EDN parse error: %w", err)
	}
	if node.Kind != edn.Map {
		return nil, fmt.Errorf("task must be a map, got %v", node.Kind)
	}

	task := &pdb.Task{}
	for i := 0; i < len(node.Items); i += 2 {
		key, value := node.Items[i], node.Items[i+1]
		if key.Kind != edn.Keyword {
			return nil, fmt.Errorf("expected keyword at %s, got %v", key.Pos, key.Kind)
		}

		switch key.Text {
		case ":variables":
			task.Variables, err = parseVariables(value)
		case ":goal":
			var goal []int
			goal, err = value.Ints()
			task.Goal = goal
		case ":operators":
			task.Operators, err = parseOperators(value)
		default:
			err = fmt.Errorf("unknown task key %s at %s", key.Text, key.Pos)
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", key.Text, err)
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

func parseVariables(node edn.Node) ([]pdb.Variable, error) {
	if node.Kind != edn.Vector {
		return nil, fmt.Errorf("expected vector, got %v at %s", node.Kind, node.Pos)
	}

	variables := make([]pdb.Variable, len(node.Items))
	for i, item := range node.Items {
		switch item.Kind {
		case edn.Int:
			domain, err := item.Int()
			if err != nil {
				return nil, err
			}
			variables[i] = pdb.Variable{Domain: domain}

		case edn.Map:
			domainNode, err := item.Require(":domain", edn.Int)
			if err != nil {
				return nil, fmt.Errorf("variable %d: %w", i, err)
			}
			domain, err := domainNode.Int()
			if err != nil {
				return nil, err
			}
			variables[i] = pdb.Variable{Domain: domain}
			if nameNode, ok := item.Get(":name"); ok {
				if variables[i].Name, err = nameNode.Str(); err != nil {
					return nil, fmt.Errorf("variable %d name: %w", i, err)
				}
			}

		default:
			return nil, fmt.Errorf("variable %d: expected map or domain size, got %v at %s", i, item.Kind, item.Pos)
		}
	}
	return variables, nil
}

func parseOperators(node edn.Node) ([]pdb.Operator, error) {
	if node.Kind != edn.Vector && node.Kind != edn.List {
		return nil, fmt.Errorf("expected vector, got %v at %s", node.Kind, node.Pos)
	}

	operators := make([]pdb.Operator, 0, len(node.Items))
	for i, item := range node.Items {
		op, err := parseOperator(item)
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		if op.Name == "" {
			op.Name = fmt.Sprintf("op-%d", i)
		}
		operators = append(operators, op)
	}
	return operators, nil
}

func parseOperator(node edn.Node) (pdb.Operator, error) {
	op := pdb.Operator{Cost: 1}
	if node.Kind != edn.Map {
		return op, fmt.Errorf("expected map, got %v at %s", node.Kind, node.Pos)
	}

	for i := 0; i < len(node.Items); i += 2 {
		key, value := node.Items[i], node.Items[i+1]
		var err error
		switch key.Text {
		case ":name":
			if value.Kind == edn.Symbol {
				op.Name = value.Text
			} else {
				op.Name, err = value.Str()
			}
		case ":cost":
			op.Cost, err = value.Int()
		case ":entries":
			op.Entries, err = parseEntries(value)
		default:
			err = fmt.Errorf("unknown operator key %s at %s", key.Text, key.Pos)
		}
		if err != nil {
			return op, err
		}
	}
	return op, nil
}

func parseEntries(node edn.Node) ([]pdb.OperatorEntry, error) {
	if node.Kind != edn.Vector {
		return nil, fmt.Errorf("expected vector of [variable pre post], got %v at %s", node.Kind, node.Pos)
	}

	entries := make([]pdb.OperatorEntry, len(node.Items))
	for i, item := range node.Items {
		values, err := item.Ints()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if len(values) != 3 {
			return nil, fmt.Errorf("entry %d at %s: expected [variable pre post], got %d values", i, item.Pos, len(values))
		}
		entries[i] = pdb.OperatorEntry{Variable: values[0], Pre: values[1], Post: values[2]}
	}
	return entries, nil
}

// ParseState parses a state vector such as [0 1 1]
func ParseState(input string) (pdb.State, error) {
	values, err := parseIntVector(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdb.ErrInvalidState, err)
	}
	return pdb.State(values), nil
}

// ParsePattern parses a pattern given either as an EDN vector [0 2] or as
// a comma separated list 0,2
func ParsePattern(input string) (pdb.Pattern, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "[") {
		var pattern pdb.Pattern
		for _, part := range strings.Split(input, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a variable id", pdb.ErrInvalidPattern, part)
			}
			pattern = append(pattern, v)
		}
		return pattern, nil
	}

	values, err := parseIntVector(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdb.ErrInvalidPattern, err)
	}
	return pdb.Pattern(values), nil
}

func parseIntVector(input string) ([]int, error) {
	node, err := edn.Parse(input)
	if err != nil {
		return nil, err
	}
	if node.Kind != edn.Vector {
		return nil, fmt.Errorf("expected vector, got %v", node.Kind)
	}
	return node.Ints()
}
