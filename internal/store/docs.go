package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"invo/internal/calendar"
	"invo/internal/fx"
	"invo/internal/ledger"
	"invo/pkg/models"
)

// On-disk document shapes. Serialization stays at this boundary: decimals,
// dates and periods travel as strings and are parsed into domain values on
// load.

type companyDoc struct {
	Name         string `yaml:"name"`
	ContactName  string `yaml:"contact_name"`
	Email        string `yaml:"email"`
	AddressLine1 string `yaml:"address_line_1"`
	AddressLine2 string `yaml:"address_line_2,omitempty"`
	PostalCode   string `yaml:"postal_code"`
	City         string `yaml:"city"`
	Country      string `yaml:"country"`
	VATNumber    string `yaml:"vat_number,omitempty"`
}

type paymentDoc struct {
	Currency string `yaml:"currency"`
	Terms    string `yaml:"terms"`
	IBAN     string `yaml:"iban"`
	BIC      string `yaml:"bic,omitempty"`
	BankName string `yaml:"bank_name,omitempty"`
}

type serviceFeeDoc struct {
	Name    string `yaml:"name"`
	Rate    string `yaml:"rate"`
	Cadence string `yaml:"cadence"`
}

type ledgerDoc struct {
	Offset     int      `yaml:"offset"`
	Anchor     string   `yaml:"anchor"`
	PeriodsOff []string `yaml:"periods_off"`
}

type expenseItemDoc struct {
	Name      string `yaml:"name"`
	UnitPrice string `yaml:"unit_price"`
	Currency  string `yaml:"currency"`
	Quantity  string `yaml:"quantity"`
	Date      string `yaml:"date"`
}

// expensesDoc maps "YYYY-MM" period labels to recorded expense items.
type expensesDoc map[string][]expenseItemDoc

// ratesDoc maps date -> from -> to -> decimal rate string.
type ratesDoc map[string]map[string]map[string]string

func (d companyDoc) toModel() models.Company {
	return models.Company{
		Name:         d.Name,
		ContactName:  d.ContactName,
		Email:        d.Email,
		AddressLine1: d.AddressLine1,
		AddressLine2: d.AddressLine2,
		PostalCode:   d.PostalCode,
		City:         d.City,
		Country:      d.Country,
		VATNumber:    d.VATNumber,
	}
}

func companyToDoc(c models.Company) companyDoc {
	return companyDoc{
		Name:         c.Name,
		ContactName:  c.ContactName,
		Email:        c.Email,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		PostalCode:   c.PostalCode,
		City:         c.City,
		Country:      c.Country,
		VATNumber:    c.VATNumber,
	}
}

func (d paymentDoc) toModel() (models.PaymentInfo, error) {
	terms, err := models.ParsePaymentTerms(d.Terms)
	if err != nil {
		return models.PaymentInfo{}, err
	}
	return models.PaymentInfo{
		Currency: d.Currency,
		Terms:    terms,
		IBAN:     d.IBAN,
		BIC:      d.BIC,
		BankName: d.BankName,
	}, nil
}

func paymentToDoc(p models.PaymentInfo) paymentDoc {
	return paymentDoc{
		Currency: p.Currency,
		Terms:    p.Terms.String(),
		IBAN:     p.IBAN,
		BIC:      p.BIC,
		BankName: p.BankName,
	}
}

func (d serviceFeeDoc) toModel() (models.ServiceFee, error) {
	rate, err := decimal.NewFromString(d.Rate)
	if err != nil {
		return models.ServiceFee{}, fmt.Errorf("invalid service fee rate %q: %w", d.Rate, err)
	}
	return models.ServiceFee{
		Name:    d.Name,
		Rate:    rate,
		Cadence: models.Cadence(d.Cadence),
	}, nil
}

func serviceFeeToDoc(f models.ServiceFee) serviceFeeDoc {
	return serviceFeeDoc{
		Name:    f.Name,
		Rate:    f.Rate.String(),
		Cadence: string(f.Cadence),
	}
}

func (d ledgerDoc) toState() (ledger.State, error) {
	anchor, err := calendar.ParsePeriod(d.Anchor)
	if err != nil {
		return ledger.State{}, err
	}
	seen := map[calendar.Period]bool{}
	off := make([]calendar.Period, 0, len(d.PeriodsOff))
	for _, label := range d.PeriodsOff {
		p, err := calendar.ParsePeriod(label)
		if err != nil {
			return ledger.State{}, err
		}
		if seen[p] {
			return ledger.State{}, fmt.Errorf("period %s is listed off twice", p)
		}
		seen[p] = true
		off = append(off, p)
	}
	return ledger.State{Offset: d.Offset, Anchor: anchor, PeriodsOff: off}, nil
}

func ledgerToDoc(s ledger.State) ledgerDoc {
	off := make([]string, 0, len(s.PeriodsOff))
	for _, p := range s.PeriodsOff {
		off = append(off, p.String())
	}
	return ledgerDoc{Offset: s.Offset, Anchor: s.Anchor.String(), PeriodsOff: off}
}

func (d expenseItemDoc) toModel() (models.ExpenseItem, error) {
	price, err := decimal.NewFromString(d.UnitPrice)
	if err != nil {
		return models.ExpenseItem{}, fmt.Errorf("invalid unit price %q: %w", d.UnitPrice, err)
	}
	quantity, err := decimal.NewFromString(d.Quantity)
	if err != nil {
		return models.ExpenseItem{}, fmt.Errorf("invalid quantity %q: %w", d.Quantity, err)
	}
	date, err := calendar.ParseDate(d.Date)
	if err != nil {
		return models.ExpenseItem{}, err
	}
	return models.ExpenseItem{
		Name:      d.Name,
		UnitPrice: price,
		Currency:  d.Currency,
		Quantity:  quantity,
		Date:      date,
	}, nil
}

func expenseItemToDoc(e models.ExpenseItem) expenseItemDoc {
	return expenseItemDoc{
		Name:      e.Name,
		UnitPrice: e.UnitPrice.String(),
		Currency:  e.Currency,
		Quantity:  e.Quantity.String(),
		Date:      e.Date.Format(calendar.DateFormat),
	}
}

func (d ratesDoc) toSnapshot() (fx.Snapshot, error) {
	snapshot := make(fx.Snapshot, len(d))
	for day, byFrom := range d {
		if _, err := calendar.ParseDate(day); err != nil {
			return nil, err
		}
		snapshot[day] = map[string]map[string]decimal.Decimal{}
		for from, byTo := range byFrom {
			snapshot[day][from] = map[string]decimal.Decimal{}
			for to, raw := range byTo {
				rate, err := decimal.NewFromString(raw)
				if err != nil {
					return nil, fmt.Errorf("invalid cached rate %s/%s@%s: %w", from, to, day, err)
				}
				if rate.Sign() <= 0 {
					return nil, fmt.Errorf("non-positive cached rate %s/%s@%s", from, to, day)
				}
				snapshot[day][from][to] = rate
			}
		}
	}
	return snapshot, nil
}

func snapshotToDoc(s fx.Snapshot) ratesDoc {
	doc := make(ratesDoc, len(s))
	for day, byFrom := range s {
		doc[day] = map[string]map[string]string{}
		for from, byTo := range byFrom {
			doc[day][from] = map[string]string{}
			for to, rate := range byTo {
				doc[day][from][to] = rate.String()
			}
		}
	}
	return doc
}
