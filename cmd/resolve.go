package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"invo/internal/calendar"
	"invo/internal/engine"
	"invo/internal/logger"
	"invo/pkg/models"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [period]",
	Short: "Compute the full content of one invoice for a billing period",
	Long: `Resolve the invoice for a billing period (YYYY-MM, or "last"/"current")
into its final numeric content: invoice number, invoice and due dates,
billable working days, priced line items and the grand total in the
settlement currency.

Resolving is a dry run: it never advances the numbering ledger. Rates
fetched from the exchange-rate provider are persisted to the local cache
so repeated resolutions are offline. Use "invo commit" after the invoice
has actually been generated and sent.`,
	Example: `  # Resolve last month's service invoice
  invo resolve last

  # Resolve an expense invoice for May 2025
  invo resolve 2025-05 --expenses

  # Subtract two out-of-office days from the billable days
  invo resolve 2025-05 --ooo 2025-05-12 --ooo 2025-05-13

  # Write the resolved invoice to a file
  invo resolve 2025-05 -o invoice.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// resolveOutput is the JSON shape handed to the rendering layer.
type resolveOutput struct {
	Invoice  invoiceJSON `json:"invoice"`
	Metadata metaJSON    `json:"metadata"`
}

type invoiceJSON struct {
	Number             int             `json:"number"`
	InvoiceDate        string          `json:"invoice_date"`
	DueDate            string          `json:"due_date"`
	WorkingDays        int             `json:"working_days"`
	LineItems          []lineItemJSON  `json:"line_items"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	SettlementCurrency string          `json:"settlement_currency"`
}

type lineItemJSON struct {
	Name            string          `json:"name"`
	Date            string          `json:"date"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Currency        string          `json:"currency"`
	Quantity        decimal.Decimal `json:"quantity"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	ConvertedTotal  decimal.Decimal `json:"converted_total"`
	ApproximateRate bool            `json:"approximate_rate,omitempty"`
}

type metaJSON struct {
	Period     string        `json:"period"`
	Mode       string        `json:"mode"`
	ResolvedAt time.Time     `json:"resolved_at"`
	Duration   time.Duration `json:"duration_ns"`
	RequestID  string        `json:"request_id"`
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Bool("expenses", false, "Resolve the period's expense invoice instead of services")
	resolveCmd.Flags().StringSlice("ooo", nil, "Out-of-office day (YYYY-MM-DD, repeatable)")
	resolveCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	resolveCmd.Flags().Int("timeout", 60, "Resolution timeout in seconds")
}

func runResolve(cmd *cobra.Command, args []string) error {
	requestID := uuid.NewString()
	log := logger.WithRequestID(requestID).With().Str("component", "resolve").Logger()

	expenses, _ := cmd.Flags().GetBool("expenses")
	oooRaw, _ := cmd.Flags().GetStringSlice("ooo")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	period, err := parsePeriodArg(args[0], time.Now())
	if err != nil {
		return err
	}
	offDays, err := parseDates(oooRaw)
	if err != nil {
		return err
	}
	mode := engine.ModeServices
	if expenses {
		mode = engine.ModeExpenses
	}

	log.Info().
		Str("period", period.String()).
		Str("mode", string(mode)).
		Int("off_days", len(offDays)).
		Msg("Starting invoice resolution")

	ctx, cancel := commandContext(timeoutSecs)
	defer cancel()

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	resolved, err := sess.engine.Resolve(ctx, engine.Request{
		Period:  period,
		Mode:    mode,
		OffDays: offDays,
	})
	if err != nil {
		log.Error().Err(err).Msg("Resolution failed")
		return err
	}

	// The rate cache is the only state a dry-run may touch, and its writes
	// are idempotent. Persist it only now that the resolution succeeded.
	if err := sess.persistRates(); err != nil {
		log.Warn().Err(err).Msg("Failed to persist fetched exchange rates")
	}

	out := resolveOutput{
		Invoice: toInvoiceJSON(resolved),
		Metadata: metaJSON{
			Period:     period.String(),
			Mode:       string(mode),
			ResolvedAt: start,
			Duration:   time.Since(start),
			RequestID:  requestID,
		},
	}
	return writeJSON(out, outputPath)
}

func toInvoiceJSON(resolved *models.ResolvedInvoice) invoiceJSON {
	lines := make([]lineItemJSON, 0, len(resolved.LineItems))
	for _, line := range resolved.LineItems {
		lines = append(lines, lineItemJSON{
			Name:            line.Name,
			Date:            line.Date.Format(calendar.DateFormat),
			UnitPrice:       line.UnitPrice,
			Currency:        line.Currency,
			Quantity:        line.Quantity,
			TotalCost:       line.TotalCost,
			ConvertedTotal:  line.ConvertedTotal,
			ApproximateRate: line.ApproximateRate,
		})
	}
	return invoiceJSON{
		Number:             resolved.Number,
		InvoiceDate:        resolved.InvoiceDate.Format(calendar.DateFormat),
		DueDate:            resolved.DueDate.Format(calendar.DateFormat),
		WorkingDays:        resolved.WorkingDays,
		LineItems:          lines,
		GrandTotal:         resolved.GrandTotal,
		SettlementCurrency: resolved.SettlementCurrency,
	}
}

// commandContext creates a context with a timeout that is also canceled on
// SIGINT/SIGTERM.
func commandContext(timeoutSecs int) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func writeJSON(out interface{}, path string) error {
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if path == "" {
		fmt.Println(string(raw))
		return nil
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
