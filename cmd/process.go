// =============================================================================
// SUNAT Document Parser - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one batch: classify
// every file in the input directory, route it to its processor, aggregate the
// resulting entities and hand them to the selected sink.
//
// COMMAND USAGE:
//   sunat-parser process <input_dir> [--output DIR] [--sink csv|xlsx|postgres]
//
// The input directory argument overrides the configured input_dir; --output
// and --sink override their configured counterparts the same way. A batch
// with per-file failures still exits zero: isolation means the run as a whole
// succeeded. Only structural problems (unreadable input, unreachable sink)
// fail the command.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raknaros/sunat-parser/internal/batch"
	"github.com/raknaros/sunat-parser/internal/config"
	"github.com/raknaros/sunat-parser/internal/process"
	"github.com/raknaros/sunat-parser/internal/sink"
	"github.com/raknaros/sunat-parser/pkg/fileutil"
)

// Flag values of the process command.
var (
	outputDir string
	sinkMode  string
)

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process <input_dir>",
	Short: "Process every document in a directory",
	Long: `Process classifies every file in the input directory by filename, extracts
and transforms the supported ones, aggregates the canonical entities across
the whole batch and writes them to the selected sink along with a statistics
report. Files that fail are logged and counted without stopping the batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(
		&outputDir,
		"output",
		"o",
		"",
		"Directory for result reports (overrides the configured output_dir)",
	)
	processCmd.Flags().StringVar(
		&sinkMode,
		"sink",
		"",
		"Result sink: csv, xlsx or postgres (overrides the configured sink)",
	)
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
		if err := fileutil.EnsureDir(cfg.OutputDir); err != nil {
			return err
		}
	}
	if sinkMode != "" {
		cfg.Sink = sinkMode
	}

	inputDir := cfg.InputDir
	if len(args) == 1 {
		inputDir = args[0]
	}
	if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
		return fmt.Errorf("input directory %s does not exist", inputDir)
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if problems := process.Validate(); len(problems) > 0 {
		for _, p := range problems {
			logger.Error("mapeo inconsistente", "error", p)
		}
		return fmt.Errorf("%d inconsistencias en los mapeos", len(problems))
	}

	registry := process.NewRegistry(logger)
	runner := batch.NewRunner(logger, registry)

	dataset, stats, err := runner.Run(inputDir)
	if err != nil {
		return err
	}

	out, err := buildSink(cfg, logger, registry)
	if err != nil {
		return err
	}
	if err := out.Write(context.Background(), dataset, stats); err != nil {
		return err
	}

	fmt.Printf("Lote %s: %d archivos, %d procesados, %d errores, %d desconocidos\n",
		stats.BatchID, stats.Total, stats.Processed, stats.Errors, stats.Unknown)
	return nil
}

// buildSink constructs the sink selected by configuration. The postgres sink
// revalidates the database settings here because a --sink override bypasses
// the validation done at load time.
func buildSink(cfg *config.MainConfig, logger *slog.Logger, registry *process.Registry) (sink.Sink, error) {
	switch cfg.Sink {
	case config.SinkCSV:
		return sink.NewCSVSink(logger, cfg.OutputDir), nil
	case config.SinkXLSX:
		return sink.NewXLSXSink(logger, cfg.OutputDir), nil
	case config.SinkPostgres:
		if err := cfg.Database.Check(); err != nil {
			return nil, err
		}
		return sink.NewPostgresSink(logger, cfg.Database.DSN(), registry.DBMappings()), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}
