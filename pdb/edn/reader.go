package edn

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var intPattern = regexp.MustCompile(`^[+-]?\d+$`)

// Reader reads EDN values from a string one at a time.
type Reader struct {
	input string
	pos   int
	line  int
	col   int
}

// NewReader creates a reader over input
func NewReader(input string) *Reader {
	return &Reader{input: input, line: 1, col: 1}
}

// Parse reads exactly one value from input; trailing values are an error.
func Parse(input string) (Node, error) {
	r := NewReader(input)
	node, err := r.Read()
	if err != nil {
		return Node{}, err
	}
	if r.More() {
		return Node{}, fmt.Errorf("unexpected trailing input at %s", r.position())
	}
	return node, nil
}

// ParseAll reads every value in input
func ParseAll(input string) ([]Node, error) {
	r := NewReader(input)
	var nodes []Node
	for r.More() {
		node, err := r.Read()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// More reports whether another value follows
func (r *Reader) More() bool {
	r.skipWhitespaceAndComments()
	return r.pos < len(r.input)
}

// Read reads the next value
func (r *Reader) Read() (Node, error) {
	r.skipWhitespaceAndComments()
	start := r.position()
	if r.pos >= len(r.input) {
		return Node{}, fmt.Errorf("unexpected end of input at %s", start)
	}

	switch ch := r.peek(); ch {
	case '"':
		text, err := r.readString()
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: String, Pos: start, Text: text}, nil
	case '(':
		return r.readCollection(List, ')')
	case '[':
		return r.readCollection(Vector, ']')
	case '{':
		node, err := r.readCollection(Map, '}')
		if err != nil {
			return Node{}, err
		}
		if len(node.Items)%2 != 0 {
			return Node{}, fmt.Errorf("map at %s has an odd number of forms", start)
		}
		return node, nil
	case ')', ']', '}':
		return Node{}, fmt.Errorf("unexpected '%c' at %s", ch, start)
	default:
		return r.readAtom()
	}
}

func (r *Reader) readCollection(kind Kind, closing byte) (Node, error) {
	node := Node{Kind: kind, Pos: r.position()}
	r.advance() // opening delimiter

	for {
		r.skipWhitespaceAndComments()
		if r.pos >= len(r.input) {
			return Node{}, fmt.Errorf("unterminated %s starting at %s", kind, node.Pos)
		}
		if r.peek() == closing {
			r.advance()
			return node, nil
		}
		item, err := r.Read()
		if err != nil {
			return Node{}, err
		}
		node.Items = append(node.Items, item)
	}
}

func (r *Reader) readAtom() (Node, error) {
	start := r.position()
	begin := r.pos
	for r.pos < len(r.input) {
		ch := r.peek()
		if isDelimiter(ch) || unicode.IsSpace(rune(ch)) || ch == ',' {
			break
		}
		r.advance()
	}
	text := r.input[begin:r.pos]
	if text == "" {
		return Node{}, fmt.Errorf("unexpected character '%c' at %s", r.peek(), start)
	}

	switch {
	case text == "nil":
		return Node{Kind: Nil, Pos: start, Text: text}, nil
	case text == "true" || text == "false":
		return Node{Kind: Bool, Pos: start, Text: text}, nil
	case intPattern.MatchString(text):
		return Node{Kind: Int, Pos: start, Text: text}, nil
	case strings.HasPrefix(text, ":"):
		if len(text) == 1 || strings.HasPrefix(text, "::") {
			return Node{}, fmt.Errorf("invalid keyword %q at %s", text, start)
		}
		return Node{Kind: Keyword, Pos: start, Text: text}, nil
	case strings.HasPrefix(text, "#"):
		return Node{}, fmt.Errorf("dispatch forms are not supported: %q at %s", text, start)
	default:
		if unicode.IsDigit(rune(text[0])) {
			return Node{}, fmt.Errorf("invalid number %q at %s", text, start)
		}
		return Node{Kind: Symbol, Pos: start, Text: text}, nil
	}
}

func (r *Reader) readString() (string, error) {
	start := r.position()
	var sb strings.Builder
	r.advance() // opening quote

	for r.pos < len(r.input) {
		ch := r.peek()
		switch ch {
		case '"':
			r.advance()
			return sb.String(), nil
		case '\\':
			r.advance()
			if r.pos >= len(r.input) {
				break
			}
			switch esc := r.peek(); esc {
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'n':
				sb.WriteByte('\n')
			case '\\', '"':
				sb.WriteByte(esc)
			default:
				return "", fmt.Errorf("invalid escape sequence '\\%c' at %s", esc, r.position())
			}
			r.advance()
		default:
			sb.WriteByte(ch)
			r.advance()
		}
	}

	return "", fmt.Errorf("unterminated string starting at %s", start)
}

func (r *Reader) position() Pos {
	return Pos{Line: r.line, Col: r.col}
}

func (r *Reader) peek() byte {
	if r.pos >= len(r.input) {
		return 0
	}
	return r.input[r.pos]
}

func (r *Reader) advance() {
	if r.pos < len(r.input) {
		if r.input[r.pos] == '\n' {
			r.line++
			r.col = 1
		} else {
			r.col++
		}
		r.pos++
	}
}

// skipWhitespaceAndComments treats commas as whitespace and ; as a line comment
func (r *Reader) skipWhitespaceAndComments() {
	for r.pos < len(r.input) {
		ch := r.peek()
		switch {
		case unicode.IsSpace(rune(ch)) || ch == ',':
			r.advance()
		case ch == ';':
			for r.pos < len(r.input) && r.peek() != '\n' {
				r.advance()
			}
		default:
			return
		}
	}
}

func isDelimiter(ch byte) bool {
	return ch == '(' || ch == ')' || ch == '[' || ch == ']' || ch == '{' || ch == '}' || ch == '"' || ch == ';'
}
