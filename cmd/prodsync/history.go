package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabrii9/prodsync/internal/journal"
)

var (
	historyLimit int
	historyRunID string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past import runs from the local journal",
	Long: `Show past import runs recorded in the local journal database.

Without flags, lists the most recent runs. With --run, shows the failed
rows of that run.

Examples:
  prodsync history
  prodsync history --limit 50
  prodsync history --run 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Show the failed rows of one run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := journalPath
	if path == "" {
		path = journal.DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no journal at %s: run an import first", path)
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	if historyRunID != "" {
		return printFailures(j, historyRunID)
	}
	return printRuns(j, historyLimit)
}

func printRuns(j *journal.Journal, limit int) error {
	runs, err := j.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tID\tFILE\tSHEET\tROWS\tOK\tFAILED\tELAPSED\tMODE")
	for _, run := range runs {
		mode := "live"
		if run.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			run.StartedAt.Local().Format(time.DateTime), run.ID, run.File,
			run.Sheet, run.Total, run.Succeeded, run.Failed,
			run.Elapsed.Round(time.Millisecond), mode)
	}
	return w.Flush()
}

func printFailures(j *journal.Journal, runID string) error {
	failures, err := j.Failures(runID)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		fmt.Println("No failed rows in this run.")
		return nil
	}
	for _, f := range failures {
		fmt.Printf("row %d: %s\n", f.Index+1, f.Message)
	}
	return nil
}
