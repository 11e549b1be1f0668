package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/annotations"
	"github.com/wbrown/janus-pdb/pdb/parser"
	"github.com/wbrown/janus-pdb/pdb/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "pdb",
		Short: "Build and query pattern database heuristics",
		Long: `pdb projects a planning task onto a subset of its variables and
computes the exact goal distance of every abstract state.

Tasks are EDN maps with :variables, :goal and :operators.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "badger directory for built tables (default: in-memory)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print build and store annotations to stderr")

	root.AddCommand(
		newBuildCmd(flags),
		newLookupCmd(flags),
		newTableCmd(flags),
		newGenerateCmd(),
		newDemoCmd(flags),
	)
	return root
}

// openDatabase opens the table store configured by the global flags
func (f *globalFlags) openDatabase() (*storage.Database, error) {
	opts := storage.DefaultOptions(f.dbPath)
	if f.verbose {
		opts.Handler = annotations.ConsoleHandler()
	}
	db, err := storage.NewDatabase(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func loadTask(path string) (*pdb.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	task, err := parser.ParseTask(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return task, nil
}

func parsePatterns(specs []string) ([]pdb.Pattern, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one --pattern is required", pdb.ErrInvalidPattern)
	}
	patterns := make([]pdb.Pattern, len(specs))
	for i, s := range specs {
		p, err := parser.ParsePattern(s)
		if err != nil {
			return nil, err
		}
		patterns[i] = p
	}
	return patterns, nil
}
