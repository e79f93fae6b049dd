package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fabrii9/prodsync/internal/batch"
	"github.com/fabrii9/prodsync/internal/config"
	"github.com/fabrii9/prodsync/internal/importer"
	"github.com/fabrii9/prodsync/internal/journal"
	"github.com/fabrii9/prodsync/internal/odoo"
	"github.com/fabrii9/prodsync/internal/sheet"
	"github.com/fabrii9/prodsync/internal/ui"
)

var (
	importFile      string
	importSheetName string
	importDryRun    bool
	importWorkers   int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import products from an Excel workbook",
	Long: `Import products from an Excel workbook into Odoo.

Each row becomes one create or update of a product.template record, decided
by its default_code (or name when the code is blank). Rows are processed
concurrently; progress is reported in original row order. Row failures do
not stop the batch and do not affect the exit status.

Examples:
  # Import with defaults (4 workers, first sheet)
  prodsync import --file products.xlsx

  # Pick a sheet and raise concurrency
  prodsync import -f products.xlsx --sheet-name Productos --workers 8

  # Validate the wiring without touching the server
  prodsync import -f products.xlsx --dry-run`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path to the Excel workbook (required)")
	importCmd.Flags().StringVar(&importSheetName, "sheet-name", "", "Sheet name (default: first sheet)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Process rows without writing to Odoo")
	importCmd.Flags().IntVar(&importWorkers, "workers", 0, "Number of concurrent workers (default: 4)")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if importWorkers > 0 {
		cfg.Workers = importWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg, "[prodsync] ")
	_, err = importOnce(ctx, cfg, logger, importFile, importSheetName, importDryRun)
	return err
}

// importOnce runs one full batch: load, process, report, journal. It is
// shared by the import and watch commands.
func importOnce(ctx context.Context, cfg *config.Config, logger *log.Logger, file, sheetName string, dryRun bool) (*batch.Summary, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("cannot read input file: %w", err)
	}

	rows, err := sheet.Load(file, sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	total := len(rows)
	if total == 0 {
		fmt.Println("No rows to process.")
		return &batch.Summary{}, nil
	}

	fmt.Println(ui.Connecting(cfg.URL, cfg.Database, cfg.User, cfg.Workers))
	fmt.Printf("Rows to process: %d\n\n", total)

	factory := func() (batch.Processor, error) {
		client, err := odoo.Dial(odoo.Options{
			URL:      cfg.URL,
			Database: cfg.Database,
			User:     cfg.User,
			Password: cfg.Password,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return importer.New(client, logger), nil
	}

	startedAt := time.Now()
	results := make([]batch.Result, 0, total)
	summary, err := batch.Run(ctx, rows, factory,
		batch.Config{Workers: cfg.Workers, DryRun: dryRun, Logger: logger},
		func(r batch.Result) {
			results = append(results, r)
			fmt.Println(ui.RowLine(r.Index+1, total, r))
		})
	if err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println(ui.Summary(summary))

	recordRun(logger, journal.Run{
		ID:        uuid.NewString(),
		File:      file,
		Sheet:     sheetName,
		DryRun:    dryRun,
		Workers:   cfg.Workers,
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		StartedAt: startedAt,
		Elapsed:   summary.Elapsed,
	}, results)

	return summary, nil
}

// recordRun appends the run to the local journal. Journal problems are
// logged, never fatal: the import already happened.
func recordRun(logger *log.Logger, run journal.Run, results []batch.Result) {
	path := journalPath
	if path == "" {
		path = journal.DefaultPath
	}

	j, err := journal.Open(path)
	if err != nil {
		logger.Printf("WARN journal unavailable: %v", err)
		return
	}
	defer j.Close()

	if err := j.Record(run, results); err != nil {
		logger.Printf("WARN failed to record run: %v", err)
	}
}
