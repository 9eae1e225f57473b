package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Company holds the identity of one invoice party (the vendor or the client).
// Records are loaded from disk and validated before the engine sees them.
type Company struct {
	Name         string `validate:"required"`
	ContactName  string `validate:"required"`
	Email        string `validate:"required,email"`
	AddressLine1 string `validate:"required"`
	AddressLine2 string
	PostalCode   string `validate:"required"`
	City         string `validate:"required"`
	Country      string `validate:"required"`
	VATNumber    string
}

// PaymentInfo describes how and in which currency the vendor gets paid.
// Currency is the settlement currency of every produced invoice.
type PaymentInfo struct {
	Currency string `validate:"required,iso4217"`
	Terms    PaymentTerms
	IBAN     string `validate:"required"`
	BIC      string
	BankName string
}

// PaymentTerms is a net-days payment term, e.g. "Net 30".
type PaymentTerms struct {
	NetDays int `validate:"min=0"`
}

// ParsePaymentTerms parses strings like "Net 30" (case-insensitive) or a
// bare day count into PaymentTerms.
func ParsePaymentTerms(s string) (PaymentTerms, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	var dayPart string
	switch {
	case len(fields) == 2 && strings.EqualFold(fields[0], "net"):
		dayPart = fields[1]
	case len(fields) == 1:
		dayPart = strings.TrimPrefix(strings.ToLower(fields[0]), "net")
	default:
		return PaymentTerms{}, fmt.Errorf("invalid payment terms %q", s)
	}
	days, err := strconv.Atoi(dayPart)
	if err != nil || days < 0 {
		return PaymentTerms{}, fmt.Errorf("invalid payment terms %q", s)
	}
	return PaymentTerms{NetDays: days}, nil
}

func (t PaymentTerms) String() string {
	return fmt.Sprintf("Net %d", t.NetDays)
}

// Cadence says whether a service fee is billed per worked day or as one
// flat amount per billing period.
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadencePeriod Cadence = "period"
)

// ServiceFee is the vendor's recurring fee: a name ("Consulting services"),
// a rate, and the cadence the rate applies at.
type ServiceFee struct {
	Name    string          `validate:"required"`
	Rate    decimal.Decimal `validate:"required"`
	Cadence Cadence         `validate:"required,oneof=daily period"`
}

// Records bundles every validated domain record the engine consumes.
type Records struct {
	Vendor  Company
	Client  Company
	Payment PaymentInfo
	Fee     ServiceFee
}
