// Package pricefmt renders listing prices and kinds for a single display locale.
package pricefmt

import (
	"fmt"

	"estate-go/internal/catalog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "ar-SA"
	DefaultCurrency = "ريال"
	DefaultPerMonth = "شهر"
)

// Arabic kind labels, as shown on listing cards.
var arabicKinds = map[catalog.Kind]string{
	catalog.KindSale: "بيع",
	catalog.KindRent: "إيجار",
}

// Formatter formats amounts with locale digit grouping and a currency label.
// Rent prices get a per-month suffix.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	currency string
	perMonth string
}

// New creates a Formatter for the BCP 47 locale. Empty arguments fall back
// to the package defaults.
func New(locale, currency, perMonth string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if perMonth == "" {
		perMonth = DefaultPerMonth
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	return &Formatter{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		currency: currency,
		perMonth: perMonth,
	}, nil
}

// Default returns the ar-SA formatter.
func Default() *Formatter {
	f, err := New("", "", "")
	if err != nil {
		panic(err)
	}
	return f
}

// Amount formats v with the locale's grouping, up to two fraction digits.
func (f *Formatter) Amount(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Price formats a listing price: "<amount> <currency>" for sales and
// "<amount> <currency>/<per month>" for rents.
func (f *Formatter) Price(v float64, kind catalog.Kind) string {
	if kind == catalog.KindRent {
		return fmt.Sprintf("%s %s/%s", f.Amount(v), f.currency, f.perMonth)
	}
	return fmt.Sprintf("%s %s", f.Amount(v), f.currency)
}

// KindLabel returns the display name of kind in the formatter's locale.
func (f *Formatter) KindLabel(kind catalog.Kind) string {
	if base, _ := f.tag.Base(); base.String() == "ar" {
		if s, ok := arabicKinds[kind]; ok {
			return s
		}
	}
	return cases.Title(f.tag).String(string(kind))
}
