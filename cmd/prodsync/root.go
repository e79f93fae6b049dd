package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fabrii9/prodsync/internal/config"
)

var (
	cfgFile     string
	logFile     string
	journalPath string
)

var rootCmd = &cobra.Command{
	Use:   "prodsync",
	Short: "Bulk-synchronize product rows from Excel into Odoo",
	Long: `prodsync upserts product.template records in an Odoo server from the rows
of an Excel workbook, processing independent rows concurrently over XML-RPC.

Connection settings come from the environment (ODOO_URL, ODOO_DB, ODOO_USER,
ODOO_PASSWORD) or an optional prodsync.yaml config file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./prodsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Run journal database path (default: .prodsync/journal.db)")
}

// loadConfig resolves settings and applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	return cfg, nil
}

// newLogger builds the process logger, honoring --log-file with rotation.
func newLogger(cfg *config.Config, prefix string) *log.Logger {
	if cfg.LogFile != "" {
		return log.New(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}, prefix, log.LstdFlags)
	}
	return log.New(os.Stderr, prefix, log.LstdFlags)
}
