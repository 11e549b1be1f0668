// Package edn reads the subset of EDN used by task files: nil, booleans,
// integers, strings, symbols, keywords, lists, vectors and maps.
package edn

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type of an EDN value
type Kind int

const (
	Nil Kind = iota
	Bool
	Int
	String
	Symbol
	Keyword
	List
	Vector
	Map
)

var kindNames = [...]string{"nil", "bool", "int", "string", "symbol", "keyword", "list", "vector", "map"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Pos is a 1-based source position
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is a parsed EDN value. Maps keep their entries as alternating
// key/value items in Items.
type Node struct {
	Kind  Kind
	Pos   Pos
	Text  string // atom text; unescaped contents for strings
	Items []Node // collection members
}

// Int returns the integer value of an Int node
func (n Node) Int() (int, error) {
	if n.Kind != Int {
		return 0, n.mismatch(Int)
	}
	v, err := strconv.Atoi(n.Text)
	if err != nil {
		return 0, fmt.Errorf("integer %s at %s: %w", n.Text, n.Pos, err)
	}
	return v, nil
}

// Str returns the contents of a String node
func (n Node) Str() (string, error) {
	if n.Kind != String {
		return "", n.mismatch(String)
	}
	return n.Text, nil
}

// Ints returns the members of a vector or list of integers
func (n Node) Ints() ([]int, error) {
	if n.Kind != Vector && n.Kind != List {
		return nil, n.mismatch(Vector)
	}
	out := make([]int, len(n.Items))
	for i, item := range n.Items {
		v, err := item.Int()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Get returns the value stored under keyword key in a Map node
func (n Node) Get(key string) (Node, bool) {
	if n.Kind != Map {
		return Node{}, false
	}
	for i := 0; i+1 < len(n.Items); i += 2 {
		k := n.Items[i]
		if k.Kind == Keyword && k.Text == key {
			return n.Items[i+1], true
		}
	}
	return Node{}, false
}

// Require is Get that fails when the key is missing or has the wrong kind
func (n Node) Require(key string, kind Kind) (Node, error) {
	if n.Kind != Map {
		return Node{}, n.mismatch(Map)
	}
	v, ok := n.Get(key)
	if !ok {
		return Node{}, fmt.Errorf("missing %s in map at %s", key, n.Pos)
	}
	if v.Kind != kind {
		return Node{}, fmt.Errorf("%s: %w", key, v.mismatch(kind))
	}
	return v, nil
}

func (n Node) mismatch(want Kind) error {
	return fmt.Errorf("expected %s, got %s at %s", want, n.Kind, n.Pos)
}

// String renders the node back to EDN
func (n Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n Node) write(sb *strings.Builder) {
	switch n.Kind {
	case Nil:
		sb.WriteString("nil")
	case String:
		sb.WriteString(strconv.Quote(n.Text))
	case List:
		writeItems(sb, "(", n.Items, ")")
	case Vector:
		writeItems(sb, "[", n.Items, "]")
	case Map:
		writeItems(sb, "{", n.Items, "}")
	default:
		sb.WriteString(n.Text)
	}
}

func writeItems(sb *strings.Builder, open string, items []Node, close string) {
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		item.write(sb)
	}
	sb.WriteString(close)
}
