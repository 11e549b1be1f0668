package edn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		text  string
	}{
		{"nil", "nil", Nil, "nil"},
		{"true", "true", Bool, "true"},
		{"integer", "42", Int, "42"},
		{"negative integer", "-7", Int, "-7"},
		{"string", `"truck"`, String, "truck"},
		{"string with escapes", `"a\"b\n"`, String, "a\"b\n"},
		{"symbol", "drive-0-1", Symbol, "drive-0-1"},
		{"keyword", ":operators", Keyword, ":operators"},
		{"leading whitespace and comment", "  ; comment\n  3", Int, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.text, node.Text)
		})
	}
}

func TestParseCollections(t *testing.T) {
	node, err := Parse(`{:goal [1, 2 3] :ops ({:name "a"})}`)
	require.NoError(t, err)
	require.Equal(t, Map, node.Kind)
	assert.Len(t, node.Items, 4)

	goal, ok := node.Get(":goal")
	require.True(t, ok)
	values, err := goal.Ints()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)

	ops, err := node.Require(":ops", List)
	require.NoError(t, err)
	require.Len(t, ops.Items, 1)
	name, err := ops.Items[0].Require(":name", String)
	require.NoError(t, err)
	assert.Equal(t, "a", name.Text)

	_, ok = node.Get(":missing")
	assert.False(t, ok)

	assert.Equal(t, `{:goal [1 2 3] :ops ({:name "a"})}`, node.String())
}

func TestParsePositions(t *testing.T) {
	node, err := Parse("[1\n  :x]")
	require.NoError(t, err)
	assert.Equal(t, Pos{Line: 1, Col: 1}, node.Pos)
	assert.Equal(t, Pos{Line: 2, Col: 3}, node.Items[1].Pos)
}

func TestParseAll(t *testing.T) {
	nodes, err := ParseAll("1 [2] ; trailing\n :k")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, Int, nodes[0].Kind)
	assert.Equal(t, Vector, nodes[1].Kind)
	assert.Equal(t, Keyword, nodes[2].Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", "unexpected end of input"},
		{"unterminated vector", "[1 2", "unterminated vector"},
		{"unterminated string", `"abc`, "unterminated string"},
		{"stray closer", "]", "unexpected ']'"},
		{"odd map", "{:a}", "odd number of forms"},
		{"trailing", "1 2", "trailing input"},
		{"bad escape", `"\q"`, "invalid escape"},
		{"bad number", "12abc", "invalid number"},
		{"bare colon", ":", "invalid keyword"},
		{"dispatch", "#{1}", "dispatch forms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.message), "error %q should contain %q", err, tt.message)
		})
	}
}

func TestNodeAccessorErrors(t *testing.T) {
	node, err := Parse(`{:n "x" :v [1 :a]}`)
	require.NoError(t, err)

	_, err = node.Require(":n", Int)
	assert.Error(t, err)

	v, _ := node.Get(":v")
	_, err = v.Ints()
	assert.Error(t, err)

	_, err = v.Int()
	assert.Error(t, err)

	_, err = v.Require(":x", Int)
	assert.Error(t, err)
}
