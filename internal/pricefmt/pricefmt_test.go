package pricefmt_test

import (
	"strings"
	"testing"

	"estate-go/internal/catalog"
	"estate-go/internal/pricefmt"
)

func TestFormatter_Price(t *testing.T) {
	f, err := pricefmt.New("en-US", "SAR", "month")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name   string
		amount float64
		kind   catalog.Kind
		want   string
	}{
		{"sale", 2500000, catalog.KindSale, "2,500,000 SAR"},
		{"rent", 3500, catalog.KindRent, "3,500 SAR/month"},
		{"fraction", 1234.5, catalog.KindSale, "1,234.5 SAR"},
		{"zero", 0, catalog.KindRent, "0 SAR/month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Price(tt.amount, tt.kind); got != tt.want {
				t.Errorf("Price(%v, %s) = %q, want %q", tt.amount, tt.kind, got, tt.want)
			}
		})
	}
}

func TestFormatter_Defaults(t *testing.T) {
	f := pricefmt.Default()

	sale := f.Price(2500000, catalog.KindSale)
	if !strings.HasSuffix(sale, " ريال") {
		t.Errorf("Price(sale) = %q, want suffix %q", sale, " ريال")
	}
	rent := f.Price(3500, catalog.KindRent)
	if !strings.HasSuffix(rent, " ريال/شهر") {
		t.Errorf("Price(rent) = %q, want suffix %q", rent, " ريال/شهر")
	}
}

func TestFormatter_KindLabel(t *testing.T) {
	ar := pricefmt.Default()
	if got := ar.KindLabel(catalog.KindSale); got != "بيع" {
		t.Errorf("KindLabel(sale) = %q, want %q", got, "بيع")
	}
	if got := ar.KindLabel(catalog.KindRent); got != "إيجار" {
		t.Errorf("KindLabel(rent) = %q, want %q", got, "إيجار")
	}

	en, err := pricefmt.New("en", "", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := en.KindLabel(catalog.KindRent); got != "Rent" {
		t.Errorf("KindLabel(rent) = %q, want %q", got, "Rent")
	}
}

func TestNew_InvalidLocale(t *testing.T) {
	if _, err := pricefmt.New("not a locale!", "", ""); err == nil {
		t.Error("New() expected error for malformed locale")
	}
}
