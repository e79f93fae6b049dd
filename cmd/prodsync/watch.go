package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabrii9/prodsync/internal/watch"
)

var (
	watchFile      string
	watchSheetName string
	watchDryRun    bool
	watchWorkers   int
	watchDebounce  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-import automatically whenever the workbook changes",
	Long: `Watch an Excel workbook and run an import after every change.

An initial import runs immediately; afterwards, each save of the workbook
triggers another run once the file has settled. Useful while a spreadsheet
is being edited and re-exported repeatedly.

Stop with Ctrl-C.

Examples:
  prodsync watch --file products.xlsx
  prodsync watch -f products.xlsx --dry-run --debounce 2s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "Path to the Excel workbook (required)")
	watchCmd.Flags().StringVar(&watchSheetName, "sheet-name", "", "Sheet name (default: first sheet)")
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "Process rows without writing to Odoo")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 0, "Number of concurrent workers (default: 4)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Settle time after a change before re-importing")
	watchCmd.MarkFlagRequired("file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchWorkers > 0 {
		cfg.Workers = watchWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg, "[prodsync] ")

	// First pass up front; a workbook that cannot be read at all is fatal,
	// exactly as it is for a one-shot import.
	if _, err := importOnce(ctx, cfg, logger, watchFile, watchSheetName, watchDryRun); err != nil {
		return err
	}

	watcher, err := watch.New(watchFile, watchDebounce, logger)
	if err != nil {
		return err
	}

	fmt.Printf("\nWatching %s for changes (Ctrl-C to stop)...\n", watchFile)
	err = watcher.Run(ctx, func() {
		fmt.Println()
		if _, err := importOnce(ctx, cfg, logger, watchFile, watchSheetName, watchDryRun); err != nil {
			logger.Printf("re-import failed: %v", err)
		}
		fmt.Printf("\nWatching %s for changes (Ctrl-C to stop)...\n", watchFile)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
