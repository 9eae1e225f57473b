package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"invo/internal/calendar"
	"invo/internal/fx"
	"invo/internal/logger"
	"invo/pkg/models"
)

var expenseCmd = &cobra.Command{
	Use:   "expense [period]",
	Short: "Record one expense against a billing period",
	Long: `Record an out-of-pocket expense for a billing period. Recording the same
expense again (same name, unit price, currency and date) sums the
quantities instead of adding a duplicate row. Recording has no effect on
invoice numbering.`,
	Example: `  invo expense 2025-05 --name Lunch --price 11 --currency GBP --quantity 2 --date 2025-05-31`,
	Args:    cobra.ExactArgs(1),
	RunE:    runExpense,
}

func init() {
	rootCmd.AddCommand(expenseCmd)

	expenseCmd.Flags().String("name", "", "Expense name (required)")
	expenseCmd.Flags().String("price", "", "Unit price in the expense currency (required)")
	expenseCmd.Flags().String("currency", "", "ISO 4217 currency the expense was paid in (required)")
	expenseCmd.Flags().String("quantity", "1", "Quantity")
	expenseCmd.Flags().String("date", "", "Transaction date YYYY-MM-DD (required)")
	for _, name := range []string{"name", "price", "currency", "date"} {
		_ = expenseCmd.MarkFlagRequired(name)
	}
}

func runExpense(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("expense")

	period, err := parsePeriodArg(args[0], time.Now())
	if err != nil {
		return err
	}
	item, err := expenseFromFlags(cmd)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	if err := sess.engine.Expenses().Record(period, item); err != nil {
		return err
	}
	if err := sess.store.SaveExpenses(sess.engine.Expenses().Items()); err != nil {
		return err
	}

	log.Info().
		Str("period", period.String()).
		Str("name", item.Name).
		Str("quantity", item.Quantity.String()).
		Str("currency", item.Currency).
		Msg("Expense recorded")
	return nil
}

func expenseFromFlags(cmd *cobra.Command) (models.ExpenseItem, error) {
	name, _ := cmd.Flags().GetString("name")
	priceRaw, _ := cmd.Flags().GetString("price")
	currency, _ := cmd.Flags().GetString("currency")
	quantityRaw, _ := cmd.Flags().GetString("quantity")
	dateRaw, _ := cmd.Flags().GetString("date")

	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return models.ExpenseItem{}, fmt.Errorf("invalid --price %q", priceRaw)
	}
	quantity, err := decimal.NewFromString(quantityRaw)
	if err != nil {
		return models.ExpenseItem{}, fmt.Errorf("invalid --quantity %q", quantityRaw)
	}
	if _, err := fx.MinorUnits(currency); err != nil {
		return models.ExpenseItem{}, err
	}
	date, err := calendar.ParseDate(dateRaw)
	if err != nil {
		return models.ExpenseItem{}, err
	}
	return models.ExpenseItem{
		Name:      name,
		UnitPrice: price,
		Currency:  currency,
		Quantity:  quantity,
		Date:      date,
	}, nil
}
