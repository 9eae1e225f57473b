package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"invo/internal/logger"
)

var offCmd = &cobra.Command{
	Use:   "off [period]",
	Short: "Mark a billing period as off",
	Long: `Mark a whole period (YYYY-MM) as off: it produces no invoice and is
excluded from the numbering count, so later invoices absorb the gap and
the delivered sequence stays contiguous. Marking a period off twice
fails.`,
	Example: `  invo off 2025-07`,
	Args:    cobra.ExactArgs(1),
	RunE:    runOff,
}

func init() {
	rootCmd.AddCommand(offCmd)
}

func runOff(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("off")

	period, err := parsePeriodArg(args[0], time.Now())
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	if err := sess.ledger.MarkOff(period); err != nil {
		return err
	}
	if err := sess.store.SaveLedger(sess.ledger.State()); err != nil {
		return err
	}

	log.Info().
		Str("period", period.String()).
		Msg("Period marked off")
	return nil
}
