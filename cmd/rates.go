package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invo/internal/calendar"
	"invo/internal/logger"
)

var ratesCmd = &cobra.Command{
	Use:   "rates [date] [from] [to]",
	Short: "Look up or prefetch an exchange rate",
	Long: `Resolve the exchange rate for a date and currency pair the same way a
resolution would: persisted cache first, remote provider on a miss. A
fetched rate is written to the cache, so this doubles as a prefetch for
offline resolutions.

With no arguments, lists the dates present in the cache.`,
	Example: `  invo rates 2025-04-30 GBP EUR
  invo rates`,
	Args: cobra.MaximumNArgs(3),
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().Int("timeout", 30, "Lookup timeout in seconds")
}

func runRates(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("rates")

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, day := range sess.cache.Days() {
			fmt.Println(day)
		}
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("expected: invo rates <date> <from> <to>")
	}

	date, err := calendar.ParseDate(args[0])
	if err != nil {
		return err
	}
	from, to := args[1], args[2]

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := commandContext(timeoutSecs)
	defer cancel()

	quote, err := sess.rates.Quote(ctx, date, from, to)
	if err != nil {
		return err
	}
	if err := sess.persistRates(); err != nil {
		log.Warn().Err(err).Msg("Failed to persist fetched exchange rates")
	}

	suffix := ""
	if quote.Approximate {
		suffix = fmt.Sprintf(" (approximate, from %s)", quote.Date.Format(calendar.DateFormat))
	}
	fmt.Printf("%s/%s@%s = %s%s\n", from, to, date.Format(calendar.DateFormat), quote.Rate, suffix)
	return nil
}
