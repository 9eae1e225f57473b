package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"invo/internal/logger"
)

var commitCmd = &cobra.Command{
	Use:   "commit [period]",
	Short: "Advance the numbering ledger after an invoice was generated",
	Long: `Record that the invoice for the given period has actually been generated,
re-anchoring the numbering ledger at that period. Resolving never mutates
state, so previews and re-runs are free; commit is the single durable
numbering mutation.

Committing the same period twice is a no-op, which makes retrying after a
failed write safe.`,
	Example: `  invo commit 2025-05
  invo commit last`,
	Args: cobra.ExactArgs(1),
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("commit")

	period, err := parsePeriodArg(args[0], time.Now())
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	if err := sess.ledger.Commit(period); err != nil {
		return err
	}
	if err := sess.store.SaveLedger(sess.ledger.State()); err != nil {
		return err
	}

	log.Info().
		Str("period", period.String()).
		Msg("Numbering ledger committed")
	return nil
}
