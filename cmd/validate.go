// =============================================================================
// SUNAT Document Parser - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the static wiring of
// the pipeline without touching any input: configuration file, classification
// rule precedence and the mapping tables of every processor.
//
// COMMAND USAGE:
//   sunat-parser validate
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/config"
	"github.com/raknaros/sunat-parser/internal/process"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and mapping tables without processing",
	Long: `Validate loads the configuration, prints the classification rule precedence
table and cross-checks every rename table and database mapping against the
canonical entity layouts. It exits non-zero if any inconsistency is found.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	fmt.Printf("Configuracion valida: sink=%s input=%s output=%s\n", cfg.Sink, cfg.InputDir, cfg.OutputDir)

	fmt.Println("Reglas de clasificacion (en orden de precedencia):")
	for i, name := range classify.RuleNames() {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}

	problems := process.Validate()
	if len(problems) == 0 {
		fmt.Println("Mapeos consistentes.")
		return nil
	}
	for _, p := range problems {
		fmt.Printf("  problema: %v\n", p)
	}
	return fmt.Errorf("%d inconsistencias en los mapeos", len(problems))
}
