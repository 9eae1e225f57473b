package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invo/internal/config"
	"invo/internal/logger"
)

var version = "1.0.0"

// cfg is the loaded engine configuration, set by Execute.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "invo",
	Short: "invo - invoice resolution engine for recurring service billing",
	Long: `invo turns persisted business configuration (vendor, client, payment
terms, service fees, recorded expenses and an invoice-numbering ledger)
into the exact content of one invoice for a requested billing period.

It derives gap-free invoice numbers honoring months marked off, counts
billable working days, converts expense currencies through a persistent
date-keyed exchange-rate cache, and aggregates everything into priced
line items with a grand total in the settlement currency.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("invo executed")

		fmt.Println("invo - invoice resolution engine")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the command tree with the given configuration.
func Execute(c *config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
	rootCmd.PersistentFlags().String("data-dir", "", "Override the data directory")
}

// dataDir resolves the data directory: the --data-dir flag wins over
// configuration.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	return cfg.Data.Dir
}
