package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"invo/internal/calendar"
	"invo/internal/ledger"
	"invo/pkg/models"
)

// SampleRecords generates a plausible dataset for trying the tool out.
// Values are random but structurally valid, so a sample directory passes
// the same validation as real data.
func SampleRecords() *models.Records {
	faker := gofakeit.New(0)
	return &models.Records{
		Vendor:  sampleCompany(faker),
		Client:  sampleCompany(faker),
		Payment: models.PaymentInfo{
			Currency: "EUR",
			Terms:    models.PaymentTerms{NetDays: 30},
			IBAN:     faker.Regex(`DE[0-9]{20}`),
			BIC:      faker.Regex(`[A-Z]{6}[A-Z0-9]{2}`),
			BankName: faker.Company() + " Bank",
		},
		Fee: models.ServiceFee{
			Name:    "Consulting services",
			Rate:    decimal.NewFromInt(int64(faker.Number(400, 900))),
			Cadence: models.CadenceDaily,
		},
	}
}

func sampleCompany(faker *gofakeit.Faker) models.Company {
	name := faker.Company()
	contact := faker.Name()
	address := faker.Address()
	return models.Company{
		Name:         name,
		ContactName:  contact,
		Email:        fmt.Sprintf("%s@%s.example", strings.ToLower(strings.Fields(contact)[0]), slug(name)),
		AddressLine1: address.Street,
		PostalCode:   address.Zip,
		City:         address.City,
		Country:      address.Country,
		VATNumber:    faker.Regex(`DE[0-9]{9}`),
	}
}

func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "example"
	}
	return b.String()
}

// SkeletonRecords returns placeholder records meant to be hand-edited
// after a plain `invo init`.
func SkeletonRecords() *models.Records {
	company := models.Company{
		Name:         "Your Company AB",
		ContactName:  "Your Name",
		Email:        "you@example.com",
		AddressLine1: "Street 1",
		PostalCode:   "111 11",
		City:         "City",
		Country:      "Country",
	}
	client := company
	client.Name = "Client Inc"
	client.ContactName = "Client Contact"
	client.Email = "billing@example.com"
	return &models.Records{
		Vendor: company,
		Client: client,
		Payment: models.PaymentInfo{
			Currency: "EUR",
			Terms:    models.PaymentTerms{NetDays: 30},
			IBAN:     "DE00000000000000000000",
		},
		Fee: models.ServiceFee{
			Name:    "Consulting services",
			Rate:    decimal.NewFromInt(500),
			Cadence: models.CadenceDaily,
		},
	}
}

// SampleLedgerState anchors numbering at the previous month with a small
// offset, so a fresh sample directory can invoice the current month right
// away.
func SampleLedgerState(now time.Time) ledger.State {
	current := calendar.PeriodOf(now)
	anchor := calendar.Period{Year: current.Year, Month: current.Month}
	if anchor.Month == time.January {
		anchor = calendar.Period{Year: anchor.Year - 1, Month: time.December}
	} else {
		anchor.Month--
	}
	return ledger.State{Offset: 1, Anchor: anchor}
}
