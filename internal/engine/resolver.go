// Package engine composes the calendar, the invoice ledger, the currency
// converter and the line-item aggregation into one invoice resolution. A
// resolution is a pure function of its inputs and the two stores it is
// handed; the only durable mutations (ledger commit, rate-cache persist)
// happen outside, after the resolution has succeeded.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invo/internal/calendar"
	"invo/internal/fx"
	"invo/internal/ledger"
	"invo/internal/logger"
	"invo/pkg/models"
)

// Mode selects what a resolved invoice bills: the recurring service fee or
// the recorded expenses of the period.
type Mode string

const (
	ModeServices Mode = "services"
	ModeExpenses Mode = "expenses"
)

// InvoiceDatePolicy picks which day of the period becomes the invoice date.
type InvoiceDatePolicy string

const (
	// DateEndOfMonth uses the calendar last day of the period.
	DateEndOfMonth InvoiceDatePolicy = "end_of_month"
	// DateLastBusinessDay uses the last non-weekend day of the period.
	DateLastBusinessDay InvoiceDatePolicy = "last_business_day"
)

// Options tune resolution behavior that is configuration, not input.
type Options struct {
	Weekend    calendar.Weekend
	DatePolicy InvoiceDatePolicy
}

// Request is one resolution request: the target period, the billing mode,
// and any out-of-office days to subtract from the period's working days.
type Request struct {
	Period  calendar.Period
	Mode    Mode
	OffDays []time.Time
}

// Engine resolves invoices. It owns no persistent state of its own.
type Engine struct {
	ledger   *ledger.Ledger
	conv     *fx.Converter
	expenses *ExpenseLedger
	records  *models.Records
	opts     Options
	log      zerolog.Logger
}

// New builds an engine over loaded state. The caller hands the engine
// exclusive access to the ledger and the converter's cache for the duration
// of one invocation.
func New(led *ledger.Ledger, conv *fx.Converter, expenses *ExpenseLedger, records *models.Records, opts Options) *Engine {
	if opts.Weekend == nil {
		opts.Weekend = calendar.DefaultWeekend()
	}
	if opts.DatePolicy == "" {
		opts.DatePolicy = DateEndOfMonth
	}
	return &Engine{
		ledger:   led,
		conv:     conv,
		expenses: expenses,
		records:  records,
		opts:     opts,
		log:      logger.WithComponent("engine"),
	}
}

// Expenses exposes the expense ledger for recording and persistence.
func (e *Engine) Expenses() *ExpenseLedger {
	return e.expenses
}

// Ledger exposes the numbering ledger for commits and persistence.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// Resolve computes the full invoice content for one request. It either
// fully succeeds or returns an error without partial output; it never
// mutates ledger state.
func (e *Engine) Resolve(ctx context.Context, req Request) (*models.ResolvedInvoice, error) {
	number, err := e.ledger.NumberFor(req.Period, req.Mode == ModeExpenses)
	if err != nil {
		return nil, err
	}

	invoiceDate := e.invoiceDate(req.Period)
	dueDate := calendar.DueDate(invoiceDate, e.records.Payment.Terms.NetDays)
	workingDays := calendar.WorkingDays(req.Period, e.opts.Weekend, req.OffDays)

	var lines []models.LineItem
	switch req.Mode {
	case ModeExpenses:
		lines, err = e.expenseLines(ctx, req.Period)
	default:
		lines, err = e.serviceLines(ctx, req.Period, workingDays)
	}
	if err != nil {
		return nil, err
	}

	resolved := &models.ResolvedInvoice{
		Number:             number,
		InvoiceDate:        invoiceDate,
		DueDate:            dueDate,
		WorkingDays:        workingDays,
		LineItems:          lines,
		GrandTotal:         e.conv.Round(grandTotal(lines)),
		SettlementCurrency: e.conv.Target(),
	}
	e.log.Info().
		Str("period", req.Period.String()).
		Str("mode", string(req.Mode)).
		Int("number", resolved.Number).
		Int("working_days", resolved.WorkingDays).
		Str("grand_total", resolved.GrandTotal.String()).
		Msg("Resolved invoice")
	return resolved, nil
}

func (e *Engine) invoiceDate(period calendar.Period) time.Time {
	if e.opts.DatePolicy == DateLastBusinessDay {
		return calendar.LastBusinessDay(period, e.opts.Weekend)
	}
	return period.End()
}

// serviceLines prices the single service-fee line: rate times billable days
// for daily cadence, the flat rate for period cadence. Conversion uses the
// period's last day.
func (e *Engine) serviceLines(ctx context.Context, period calendar.Period, workingDays int) ([]models.LineItem, error) {
	fee := e.records.Fee
	quantity := decimal.NewFromInt(1)
	if fee.Cadence == models.CadenceDaily {
		quantity = decimal.NewFromInt(int64(workingDays))
	}
	total := fee.Rate.Mul(quantity)

	conversionDate := period.End()
	converted, quote, err := e.conv.Convert(ctx, total, e.records.Payment.Currency, conversionDate)
	if err != nil {
		return nil, err
	}
	return []models.LineItem{{
		Name:            fee.Name,
		Date:            conversionDate,
		UnitPrice:       fee.Rate,
		Currency:        e.records.Payment.Currency,
		Quantity:        quantity,
		TotalCost:       total,
		ConvertedTotal:  converted,
		ApproximateRate: quote.Approximate,
	}}, nil
}

// expenseLines aggregates and prices the period's recorded expenses.
func (e *Engine) expenseLines(ctx context.Context, period calendar.Period) ([]models.LineItem, error) {
	items := e.expenses.For(period)
	if len(items) == 0 {
		return nil, resolveErr("expenseLines", ErrNoExpensesForPeriod, period.String())
	}
	grouped := aggregateExpenses(items)
	lines := make([]models.LineItem, 0, len(grouped))
	for _, item := range grouped {
		line, err := priceExpense(ctx, e.conv, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
