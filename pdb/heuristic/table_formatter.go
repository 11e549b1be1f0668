package heuristic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wbrown/janus-pdb/pdb"
)

// TableFormatter renders pattern databases as markdown tables
type TableFormatter struct {
	// MaxRows limits the rows printed by FormatDistances (0 = all)
	MaxRows int
	// SkipUnreachable omits states whose distance is pdb.Infinity
	SkipUnreachable bool
}

// NewTableFormatter creates a new table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxRows: 1000,
	}
}

// FormatDistances formats the abstract distance table of db
func (tf *TableFormatter) FormatDistances(db *PatternDatabase) string {
	proj := db.Projection()
	task := proj.ProjectedTask()

	headers := []string{"index", "state", "distance"}
	var rows [][]string
	state := make(pdb.State, len(proj.Pattern()))
	for i := 0; i < db.NumStates(); i++ {
		d := db.AbstractDistance(i)
		if tf.SkipUnreachable && !pdb.IsFinite(d) {
			continue
		}
		if tf.MaxRows > 0 && len(rows) >= tf.MaxRows {
			break
		}

		proj.UnrankInto(i, state)
		assignment := make([]string, len(state))
		for j, v := range state {
			assignment[j] = fmt.Sprintf("%s=%d", task.VariableName(j), v)
		}
		rows = append(rows, []string{strconv.Itoa(i), strings.Join(assignment, " "), FormatDistance(d)})
	}

	out := tf.formatTable(headers, rows)
	if shown := len(rows); shown < db.NumStates() {
		out += fmt.Sprintf("_showing %d of %d states_\n", shown, db.NumStates())
	}
	return out
}

// FormatStats formats the construction statistics of one or more databases
func (tf *TableFormatter) FormatStats(dbs ...*PatternDatabase) string {
	headers := []string{"pattern", "states", "reachable", "expanded", "pushes", "stale", "max frontier", "time"}
	rows := make([][]string, 0, len(dbs))
	for _, db := range dbs {
		s := db.Stats()
		rows = append(rows, []string{
			db.Pattern().String(),
			strconv.Itoa(s.NumStates),
			strconv.Itoa(s.Reachable),
			strconv.Itoa(s.Expanded),
			strconv.Itoa(s.Pushes),
			strconv.Itoa(s.StalePops),
			strconv.Itoa(s.MaxFrontier),
			fmt.Sprintf("%.3fms", float64(s.Duration.Microseconds())/1000.0),
		})
	}
	return tf.formatTable(headers, rows)
}

// formatTable renders headers and rows as a markdown table
func (tf *TableFormatter) formatTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_\n", headers)
	}

	tableString := &strings.Builder{}

	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	tableString.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return tableString.String()
}

// FormatDistance renders a distance, using ∞ for pdb.Infinity
func FormatDistance(d int) string {
	if !pdb.IsFinite(d) {
		return "∞"
	}
	return strconv.Itoa(d)
}
