package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/tasks"
)

func TestParseTask(t *testing.T) {
	input := `
; two switches
{:variables [{:name "v0" :domain 2} 2]
 :goal [1 1]
 :operators [{:name "opA" :cost 1 :entries [[0 0 1]]}
             {:name opB :cost 2 :entries [[1 0 1]]}
             {:entries [[0 1 0] [1 1 0]]}]}`

	task, err := ParseTask(input)
	require.NoError(t, err)

	assert.Equal(t, []pdb.Variable{{Name: "v0", Domain: 2}, {Domain: 2}}, task.Variables)
	assert.Equal(t, pdb.State{1, 1}, task.Goal)
	require.Len(t, task.Operators, 3)
	assert.Equal(t, "opB", task.Operators[1].Name)
	assert.Equal(t, 2, task.Operators[1].Cost)

	reset := task.Operators[2]
	assert.Equal(t, "op-2", reset.Name)
	assert.Equal(t, 1, reset.Cost, "cost defaults to 1")
	assert.Equal(t, []pdb.OperatorEntry{{Variable: 0, Pre: 1, Post: 0}, {Variable: 1, Pre: 1, Post: 0}}, reset.Entries)
}

func TestParseTaskErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a map", `[1 2]`},
		{"bad edn", `{:goal [1`},
		{"unknown key", `{:variables [2] :goal [0] :foo 1}`},
		{"non keyword key", `{"goal" [0]}`},
		{"bad variable", `{:variables ["x"] :goal [0]}`},
		{"variable without domain", `{:variables [{:name "x"}] :goal [0]}`},
		{"short entry", `{:variables [2] :goal [0] :operators [{:entries [[0 1]]}]}`},
		{"unknown operator key", `{:variables [2] :goal [0] :operators [{:pre [0]}]}`},
		{"operator not a map", `{:variables [2] :goal [0] :operators [[0 1 0]]}`},
		{"negative cost", `{:variables [2] :goal [0] :operators [{:cost -1 :entries [[0 1 0]]}]}`},
		{"goal outside domain", `{:variables [2] :goal [2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTask(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestFormatTaskRoundTrip(t *testing.T) {
	for _, task := range []*pdb.Task{tasks.TwoSwitches(), tasks.Logistics(3, 2), tasks.Line(4)} {
		text := FormatTask(task)
		parsed, err := ParseTask(text)
		require.NoError(t, err, text)
		assert.Equal(t, task, parsed)
	}
}

func TestFormatTaskEscapesNames(t *testing.T) {
	task := tasks.TwoSwitches()
	task.Variables[0].Name = "ctl\x01\x7f"
	task.Variables[1].Name = "nbsp\u00a0 \"quoted\" back\\slash"
	task.Operators[0].Name = "multi\nline\ttab\rret"
	task.Operators[1].Name = "δ-op"

	text := FormatTask(task)
	parsed, err := ParseTask(text)
	require.NoError(t, err, text)
	assert.Equal(t, task, parsed)
}

func TestParseState(t *testing.T) {
	s, err := ParseState("[0 1 2]")
	require.NoError(t, err)
	assert.Equal(t, pdb.State{0, 1, 2}, s)

	_, err = ParseState("(0 1)")
	assert.ErrorIs(t, err, pdb.ErrInvalidState)

	_, err = ParseState("[0 :a]")
	assert.ErrorIs(t, err, pdb.ErrInvalidState)
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("[2 0]")
	require.NoError(t, err)
	assert.Equal(t, pdb.Pattern{2, 0}, p)

	p, err = ParsePattern(" 1, 3 ")
	require.NoError(t, err)
	assert.Equal(t, pdb.Pattern{1, 3}, p)

	_, err = ParsePattern("1,x")
	assert.ErrorIs(t, err, pdb.ErrInvalidPattern)
}
