package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseInvoiceDate(t *testing.T) {
	want := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Unix()
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"2024-04-01", want, false},
		{" 2024-04-01 ", want, false},
		{"01-04-2024", want, false},
		{"01/04/2024", want, false},
		{"2024-04-01T00:00:00Z", want, false},
		{"2024-04-01T05:30:00+05:30", want, false},
		{"2024-04-01T10:15", want + 10*3600 + 15*60, false},
		{"", 0, true},
		{"yesterday", 0, true},
		{"2024-13-01", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseInvoiceDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatUnixDate(t *testing.T) {
	sec := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Unix()
	if got := FormatUnixDate(sec); got != "01-04-2024" {
		t.Fatalf("got %s", got)
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"999":        "999.00",
		"1000":       "1,000.00",
		"100000":     "1,00,000.00",
		"1234567.5":  "12,34,567.50",
		"-98765.432": "-98,765.43",
		"123456789":  "12,34,56,789.00",
	}
	for in, want := range cases {
		if got := FormatINR(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatINR(%s) = %s want %s", in, got, want)
		}
	}
}

func TestFiscalYear(t *testing.T) {
	if got := FiscalYearOf(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)); got != "2024-25" {
		t.Fatalf("march belongs to previous fy, got %s", got)
	}
	if got := FiscalYearOf(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)); got != "2025-26" {
		t.Fatalf("april starts new fy, got %s", got)
	}
	from, to, err := FiscalYearRange("2024-25")
	if err != nil {
		t.Fatal(err)
	}
	if from != time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Unix() ||
		to != time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC).Unix() {
		t.Fatalf("unexpected range %d..%d", from, to)
	}
	if _, _, err := FiscalYearRange("current"); err == nil {
		t.Fatal("expected error for bad label")
	}
}

func TestGSTINAndPhone(t *testing.T) {
	if !IsValidGSTIN("27AAPFU0939F1ZV") {
		t.Fatal("valid gstin rejected")
	}
	if IsValidGSTIN("27AAPFU0939F1Z") {
		t.Fatal("short gstin accepted")
	}
	if err := ValidatePhoneNumber("+91 98765 43210", CountryCode); err != nil {
		t.Fatalf("valid phone rejected: %v", err)
	}
	if err := ValidatePhoneNumber("12345", CountryCode); err == nil {
		t.Fatal("invalid phone accepted")
	}
}

func TestCalculateGST(t *testing.T) {
	taxable := decimal.RequireFromString("1000")
	intra := CalculateGST(taxable, decimal.NewFromInt(18), false)
	if !intra.CGST.Equal(decimal.NewFromInt(90)) || !intra.SGST.Equal(decimal.NewFromInt(90)) || !intra.IGST.IsZero() {
		t.Fatalf("intra-state split wrong: %+v", intra)
	}
	inter := CalculateGST(taxable, decimal.NewFromInt(18), true)
	if !inter.IGST.Equal(decimal.NewFromInt(180)) || !inter.CGST.IsZero() {
		t.Fatalf("inter-state split wrong: %+v", inter)
	}
	odd := CalculateGST(decimal.RequireFromString("10.01"), decimal.NewFromInt(5), false)
	if !odd.Total().Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("halves must add up to tax, got %s", odd.Total())
	}
	if !InclusiveTaxAmount(decimal.NewFromInt(118), decimal.NewFromInt(18)).Equal(decimal.NewFromInt(18)) {
		t.Fatal("inclusive tax wrong")
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	if len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("got %v", got)
	}
}
