package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"invo/internal/logger"
	"invo/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory",
	Long: `Write a fresh data directory: vendor, client, payment and service fee
records, an empty expense ledger and a numbering ledger anchored at last
month. Plain init writes placeholder records meant to be edited by hand;
--sample fills them with generated sample data instead.

--check validates an existing data directory without writing anything.`,
	Example: `  invo init
  invo init --sample
  invo init --check`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("sample", false, "Seed generated sample data instead of placeholders")
	initCmd.Flags().Bool("force", false, "Overwrite an existing data directory")
	initCmd.Flags().Bool("check", false, "Validate the existing data directory and exit")
}

func runInit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("init")

	sample, _ := cmd.Flags().GetBool("sample")
	force, _ := cmd.Flags().GetBool("force")
	check, _ := cmd.Flags().GetBool("check")

	st := store.New(dataDir(cmd))

	if check {
		if err := st.Validate(); err != nil {
			return err
		}
		fmt.Printf("Data directory %s is valid.\n", st.Dir())
		return nil
	}

	records := store.SkeletonRecords()
	if sample {
		records = store.SampleRecords()
	}
	if err := st.Init(records, store.SampleLedgerState(time.Now()), force); err != nil {
		return err
	}

	log.Info().
		Str("dir", st.Dir()).
		Bool("sample", sample).
		Msg("Data directory created")
	fmt.Printf("Initialized %s. Edit the yaml files, then run `invo resolve last`.\n", st.Dir())
	return nil
}
