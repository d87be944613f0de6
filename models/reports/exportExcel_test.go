package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildSalesRegister(t *testing.T) {
	acme := "Acme Traders"
	date := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Unix()
	rows := []*SalesRegisterRow{
		{
			InvoiceNo: "1001", InvoiceDate: date, CustomerName: &acme,
			TotalTaxableValue: decimal.NewFromInt(1000), TotalCgst: decimal.NewFromInt(90),
			TotalSgst: decimal.NewFromInt(90), Total: decimal.NewFromInt(1180),
		},
		{
			InvoiceNo: "1002", InvoiceDate: date,
			TotalTaxableValue: decimal.NewFromInt(200000), TotalIgst: decimal.NewFromInt(36000),
			Total: decimal.NewFromInt(236000),
		},
	}

	f, err := buildSalesRegister(rows, "2024-25")
	if err != nil {
		t.Fatalf("buildSalesRegister: %v", err)
	}
	defer f.Close()

	expect := map[string]string{
		"A1": "Invoice No",
		"A2": "1001",
		"B2": "01-04-2024",
		"C2": "Acme Traders",
		"C3": "",
		"A3": "1002",
	}
	for cell, want := range expect {
		got, err := f.GetCellValue(registerSheet, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("%s = %q want %q", cell, got, want)
		}
	}

	total, err := f.GetCellValue(summarySheet, "B7")
	if err != nil {
		t.Fatal(err)
	}
	if total != "2,37,180.00" {
		t.Fatalf("summary total %q", total)
	}
	count, _ := f.GetCellValue(summarySheet, "B2")
	if count != "2" {
		t.Fatalf("invoice count %q", count)
	}
}

func TestBuildSalesRegister_Empty(t *testing.T) {
	f, err := buildSalesRegister(nil, "2023-24")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fy, _ := f.GetCellValue(summarySheet, "B1")
	if fy != "2023-24" {
		t.Fatalf("fy %q", fy)
	}
}
