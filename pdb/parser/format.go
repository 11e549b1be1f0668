package parser

import (
	"fmt"
	"strings"

	"github.com/wbrown/janus-pdb/pdb"
)

// FormatTask writes task in the notation accepted by ParseTask, one
// variable and one operator per line.
func FormatTask(task *pdb.Task) string {
	var sb strings.Builder

	sb.WriteString("{:variables [")
	for i, v := range task.Variables {
		if i > 0 {
			sb.WriteString("\n              ")
		}
		fmt.Fprintf(&sb, "{:name %s :domain %d}", quote(task.VariableName(i)), v.Domain)
	}
	sb.WriteString("]\n")

	fmt.Fprintf(&sb, " :goal %s\n", task.Goal)

	sb.WriteString(" :operators [")
	for i, op := range task.Operators {
		if i > 0 {
			sb.WriteString("\n             ")
		}
		fmt.Fprintf(&sb, "{:name %s :cost %d :entries [", quote(op.Name), op.Cost)
		for j, e := range op.Entries {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "[%d %d %d]", e.Variable, e.Pre, e.Post)
		}
		sb.WriteString("]}")
	}
	sb.WriteString("]}\n")

	return sb.String()
}

// quote writes s as an EDN string. Only the escapes the reader understands
// are used; every other byte is written as is.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
