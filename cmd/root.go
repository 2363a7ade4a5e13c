// =============================================================================
// SUNAT Document Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sunat-parser)
//   ├── processCmd (sunat-parser process)
//   ├── validateCmd (sunat-parser validate)
//   └── versionCmd (sunat-parser version)
//
// The root command owns the global flags (--config, --verbose) and the
// logging setup shared by every subcommand.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raknaros/sunat-parser/internal/config"
	"github.com/raknaros/sunat-parser/pkg/fileutil"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "sunat-parser",

	Short: "SUNAT document parser - Batch ingestion of tax documents into canonical tables",

	Long: `SUNAT document parser is a CLI tool that ingests the tax documents a
Peruvian company accumulates - signed UBL vouchers, SIRE ledger proposals and
T-Registro payroll reports - and turns them into canonical tabular entities.

Key Features:
  - Filename-based classification with a fixed precedence table
  - Per-format extraction: namespaced XML, pipe-delimited exports, ZIP reports
  - Fiscal rule cascade deriving accounting destination per sales row
  - Unified document identifier (CUI) linking headers, lines and payments
  - CSV, XLSX and PostgreSQL sinks with idempotent database loads

Example Usage:
  sunat-parser process ./input             # Process a directory of documents
  sunat-parser process ./input --sink xlsx # Write one workbook instead of CSVs
  sunat-parser validate                    # Cross-check mappings, print rules`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setupLogger builds the application logger: a text handler writing to both
// stderr and a timestamped file under the configured log directory. The
// --verbose flag forces debug level regardless of configuration.
func setupLogger(cfg *config.MainConfig) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	logPath := filepath.Join(cfg.LogDir, fileutil.StampedName("parser", "log"))
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, f), &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { f.Close() }, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
