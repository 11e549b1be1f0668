package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/heuristic"
	"github.com/wbrown/janus-pdb/pdb/parser"
	"github.com/wbrown/janus-pdb/pdb/tasks"
)

func newBuildCmd(flags *globalFlags) *cobra.Command {
	var patternSpecs []string

	cmd := &cobra.Command{
		Use:   "build <task.edn>",
		Short: "Build (or load) pattern databases and print their statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := loadTask(args[0])
			if err != nil {
				return err
			}
			patterns, err := parsePatterns(patternSpecs)
			if err != nil {
				return err
			}

			db, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			dbs, err := db.PatternDatabases(cmd.Context(), task, patterns)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), heuristic.NewTableFormatter().FormatStats(dbs...))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&patternSpecs, "pattern", "p", nil, `pattern as "0,2" or "[0 2]" (repeatable)`)
	return cmd
}

func newLookupCmd(flags *globalFlags) *cobra.Command {
	var (
		patternSpecs []string
		stateSpec    string
		showPlan     bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <task.edn>",
		Short: "Print the heuristic value of a state",
		Long: `Print the heuristic value of a state under each pattern. With several
patterns the largest value is reported as well, since each one is admissible on
its own.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := loadTask(args[0])
			if err != nil {
				return err
			}
			patterns, err := parsePatterns(patternSpecs)
			if err != nil {
				return err
			}
			state, err := parser.ParseState(stateSpec)
			if err != nil {
				return err
			}
			if err := task.ValidateState(state); err != nil {
				return err
			}

			db, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			dbs, err := db.PatternDatabases(cmd.Context(), task, patterns)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			best := 0
			for _, pd := range dbs {
				h := pd.LookupDistance(state)
				fmt.Fprintf(out, "%s\t%s\n", pd.Pattern(), heuristic.FormatDistance(h))
				if h > best {
					best = h
				}
				if showPlan {
					if err := printPlan(cmd, pd, state); err != nil {
						return err
					}
				}
			}
			if len(dbs) > 1 {
				fmt.Fprintf(out, "max\t%s\n", heuristic.FormatDistance(best))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&patternSpecs, "pattern", "p", nil, `pattern as "0,2" or "[0 2]" (repeatable)`)
	cmd.Flags().StringVarP(&stateSpec, "state", "s", "", `full state as "[0 1 1]"`)
	cmd.Flags().BoolVar(&showPlan, "plan", false, "print an optimal abstract plan")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func printPlan(cmd *cobra.Command, pd *heuristic.PatternDatabase, state pdb.State) error {
	out := cmd.OutOrStdout()
	plan, err := pd.AbstractPlan(pd.Projection().RankFull(state))
	if err != nil {
		fmt.Fprintf(out, "  %v\n", err)
		return nil
	}
	ops := pd.Projection().ProjectedTask().Operators
	for _, i := range plan {
		fmt.Fprintf(out, "  %s (%d)\n", ops[i].Name, ops[i].Cost)
	}
	return nil
}

func newTableCmd(flags *globalFlags) *cobra.Command {
	var (
		patternSpec     string
		maxRows         int
		skipUnreachable bool
	)

	cmd := &cobra.Command{
		Use:   "table <task.edn>",
		Short: "Print the abstract distance table of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := loadTask(args[0])
			if err != nil {
				return err
			}
			pattern, err := parser.ParsePattern(patternSpec)
			if err != nil {
				return err
			}

			db, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			pd, err := db.PatternDatabase(task, pattern)
			if err != nil {
				return err
			}

			tf := heuristic.NewTableFormatter()
			tf.MaxRows = maxRows
			tf.SkipUnreachable = skipUnreachable
			fmt.Fprint(cmd.OutOrStdout(), tf.FormatDistances(pd))
			return nil
		},
	}
	cmd.Flags().StringVarP(&patternSpec, "pattern", "p", "", `pattern as "0,2" or "[0 2]"`)
	cmd.Flags().IntVar(&maxRows, "max-rows", 1000, "maximum rows to print (0 = all)")
	cmd.Flags().BoolVar(&skipUnreachable, "skip-unreachable", false, "omit states that cannot reach the goal")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		kind      string
		locations int
		packages  int
		length    int
		costs     []int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a sample task file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				task    *pdb.Task
				initial pdb.State
			)
			switch kind {
			case "two-switches":
				task = tasks.TwoSwitches()
				initial = pdb.State{0, 0}
			case "switches":
				if len(costs) == 0 {
					return fmt.Errorf("--costs must name at least one switch")
				}
				task = tasks.Switches(costs)
				initial = make(pdb.State, len(costs))
			case "line":
				if length < 2 {
					return fmt.Errorf("--length must be at least 2")
				}
				task = tasks.Line(length)
				initial = pdb.State{length - 2}
			case "logistics":
				if locations < 2 || packages < 1 {
					return fmt.Errorf("logistics needs --locations >= 2 and --packages >= 1")
				}
				task = tasks.Logistics(locations, packages)
				initial = tasks.LogisticsInitial(locations, packages)
			default:
				return fmt.Errorf("unknown kind %q (want %s)", kind,
					strings.Join([]string{"two-switches", "switches", "line", "logistics"}, ", "))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "; initial state %s\n", initial)
			fmt.Fprint(out, parser.FormatTask(task))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "logistics", "two-switches, switches, line or logistics")
	cmd.Flags().IntVar(&locations, "locations", 3, "logistics locations")
	cmd.Flags().IntVar(&packages, "packages", 2, "logistics packages")
	cmd.Flags().IntVar(&length, "length", 5, "line length")
	cmd.Flags().IntSliceVar(&costs, "costs", []int{1, 2, 4}, "switch costs")
	return cmd
}

func newDemoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build the two-switch example and print its table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			task := tasks.TwoSwitches()
			pd, err := db.PatternDatabase(task, pdb.Pattern{0, 1})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Two switches that must both be turned on, at costs 1 and 2.")
			fmt.Fprintln(out)
			fmt.Fprint(out, heuristic.NewTableFormatter().FormatDistances(pd))
			fmt.Fprintln(out)
			fmt.Fprint(out, heuristic.NewTableFormatter().FormatStats(pd))
			return nil
		},
	}
}
