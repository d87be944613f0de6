package reports

import (
	"context"
	"io"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	registerSheet = "Sales Register"
	summarySheet  = "Summary"
	// lakh/crore grouping
	inrNumFmt = `[>=10000000]##\,##\,##\,##0.00;[>=100000]##\,##\,##0.00;##,##0.00`
)

type SalesRegisterRow struct {
	InvoiceNo         string
	InvoiceDate       int64
	CustomerName      *string
	TotalTaxableValue decimal.Decimal
	TotalCgst         decimal.Decimal
	TotalSgst         decimal.Decimal
	TotalIgst         decimal.Decimal
	Total             decimal.Decimal
}

var registerHeader = []interface{}{"Invoice No", "Date", "Customer", "Taxable Value", "CGST", "SGST", "IGST", "Total"}

func getSalesRegister(ctx context.Context, fy string) ([]*SalesRegisterRow, error) {
	var records []*SalesRegisterRow
	err := config.GetDB().WithContext(ctx).
		Table("sales_invoices").
		Select("sales_invoices.invoice_no, sales_invoices.invoice_date, customers.name AS customer_name, "+
			"sales_invoices.total_taxable_value, sales_invoices.total_cgst, sales_invoices.total_sgst, "+
			"sales_invoices.total_igst, sales_invoices.total").
		Joins("LEFT JOIN customers ON customers.id = sales_invoices.customer_id").
		Where("sales_invoices.fy = ? AND sales_invoices.status <> ?", fy, models.InvoiceStatusCancelled).
		Order("sales_invoices.invoice_date, sales_invoices.id").
		Scan(&records).Error
	return records, err
}

// ExportSalesRegister writes the fiscal year's sales register as xlsx.
func ExportSalesRegister(ctx context.Context, fy string, w io.Writer) error {
	fy = currentFy(fy)
	records, err := getSalesRegister(ctx, fy)
	if err != nil {
		return err
	}
	f, err := buildSalesRegister(records, fy)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildSalesRegister(records []*SalesRegisterRow, fy string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(registerSheet, "A1", &registerHeader); err != nil {
		return nil, err
	}

	numFmt := inrNumFmt
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(registerSheet, "A1", "H1", headerStyle); err != nil {
		return nil, err
	}

	var taxable, cgst, sgst, igst, total decimal.Decimal
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.InvoiceNo,
			utils.FormatUnixDate(r.InvoiceDate),
			utils.DereferencePtr(r.CustomerName, ""),
			r.TotalTaxableValue.InexactFloat64(),
			r.TotalCgst.InexactFloat64(),
			r.TotalSgst.InexactFloat64(),
			r.TotalIgst.InexactFloat64(),
			r.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return nil, err
		}
		taxable = taxable.Add(r.TotalTaxableValue)
		cgst = cgst.Add(r.TotalCgst)
		sgst = sgst.Add(r.TotalSgst)
		igst = igst.Add(r.TotalIgst)
		total = total.Add(r.Total)
	}
	if len(records) > 0 {
		last, _ := excelize.CoordinatesToCellName(8, len(records)+1)
		if err := f.SetCellStyle(registerSheet, "D2", last, amountStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(registerSheet, "A", "C", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(registerSheet, "D", "H", 16); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	summary := [][]interface{}{
		{"Financial Year", fy},
		{"Invoices", len(records)},
		{"Taxable Value", utils.FormatINR(taxable)},
		{"CGST", utils.FormatINR(cgst)},
		{"SGST", utils.FormatINR(sgst)},
		{"IGST", utils.FormatINR(igst)},
		{"Total", utils.FormatINR(total)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
