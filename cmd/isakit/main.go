package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openisa/isakit/cmd/isakit/commands"
	"github.com/openisa/isakit/conf"
	"github.com/openisa/isakit/logger"
)

var rootCmd = &cobra.Command{
	Use:   "isakit",
	Short: "isakit - ISA-JSON loading and validation",
	Long: `isakit - ISA-JSON loading and validation.

isakit resolves ISA-JSON investigation documents into fully linked object
graphs with per-study and per-assay provenance graphs, and validates them:
schema conformance, date/DOI/PubMed formats, and declared-versus-used
cross-reference reconciliation across every identifier namespace.

Available commands:
  load      - Load a document and show the resolved object graph
  validate  - Validate a document and report diagnostics
  version   - Show version information

Examples:
  isakit load i_investigation.json
  isakit validate i_investigation.json
  isakit validate --format json i_investigation.json
  isakit validate --watch i_investigation.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		// Config fills in what the flags leave at defaults.
		if cfg, err := conf.Load(); err == nil {
			if verbosity == 0 {
				verbosity = cfg.Log.Verbosity
			}
			jsonLogs = jsonLogs || cfg.Log.JSON
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	rootCmd.AddCommand(commands.LoadCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
