package reports

import (
	"context"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	Fy                string          `json:"fy"`
	CustomerCount     int64           `json:"customer_count"`
	VendorCount       int64           `json:"vendor_count"`
	ProductCount      int64           `json:"product_count"`
	LowStockCount     int64           `json:"low_stock_count"`
	SalesInvoiceCount int64           `json:"sales_invoice_count"`
	SalesTotal        decimal.Decimal `json:"sales_total"`
	TaxTotal          decimal.Decimal `json:"tax_total"`
	PurchaseTotal     decimal.Decimal `json:"purchase_total"`
}

type MonthlySales struct {
	Month        string          `json:"month"`
	InvoiceCount int64           `json:"invoice_count"`
	Taxable      decimal.Decimal `json:"taxable"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

type salesSums struct {
	InvoiceCount int64
	SalesTotal   decimal.Decimal
	TaxTotal     decimal.Decimal
}

func currentFy(fy string) string {
	if fy == "" {
		return utils.FiscalYearOf(time.Now().UTC())
	}
	return fy
}

// GetDashboardStats runs the independent counters concurrently.
// Cancelled sales invoices are left out of the sums.
func GetDashboardStats(ctx context.Context, fy string) (*DashboardStats, error) {
	fy = currentFy(fy)
	if _, _, err := utils.FiscalYearRange(fy); err != nil {
		return nil, models.NewValidationError("invalid fiscal year", "fy")
	}
	db := config.GetDB()
	stats := DashboardStats{Fy: fy}
	var sales salesSums
	var purchase struct{ Total decimal.Decimal }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Customer{}).Count(&stats.CustomerCount).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Vendor{}).Count(&stats.VendorCount).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Product{}).Count(&stats.ProductCount).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Product{}).
			Where("stock <= ?", config.LowStockThreshold()).
			Count(&stats.LowStockCount).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.SalesInvoice{}).
			Select("COUNT(*) AS invoice_count, COALESCE(SUM(total), 0) AS sales_total, COALESCE(SUM(total_tax), 0) AS tax_total").
			Where("fy = ? AND status <> ?", fy, models.InvoiceStatusCancelled).
			Scan(&sales).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.PurchaseInvoice{}).
			Select("COALESCE(SUM(total), 0) AS total").
			Where("fy = ?", fy).
			Scan(&purchase).Error
	})
	if err := g.Wait(); err != nil {
		config.LogErrorCtx(ctx, "reports", "GetDashboardStats", "query", fy, err)
		return nil, err
	}

	stats.SalesInvoiceCount = sales.InvoiceCount
	stats.SalesTotal = sales.SalesTotal
	stats.TaxTotal = sales.TaxTotal
	stats.PurchaseTotal = purchase.Total
	return &stats, nil
}

// GetMonthlySales returns all twelve months of the fiscal year, April first,
// with zero rows for months without invoices.
func GetMonthlySales(ctx context.Context, fy string) ([]*MonthlySales, error) {
	fy = currentFy(fy)
	from, to, err := utils.FiscalYearRange(fy)
	if err != nil {
		return nil, models.NewValidationError("invalid fiscal year", "fy")
	}

	var rows []struct {
		InvoiceDate       int64
		TotalTaxableValue decimal.Decimal
		TotalTax          decimal.Decimal
		Total             decimal.Decimal
	}
	err = config.GetDB().WithContext(ctx).Model(&models.SalesInvoice{}).
		Select("invoice_date, total_taxable_value, total_tax, total").
		Where("invoice_date >= ? AND invoice_date < ? AND status <> ?", from, to, models.InvoiceStatusCancelled).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	start := time.Unix(from, 0).UTC()
	months := make([]*MonthlySales, 12)
	index := make(map[string]*MonthlySales, 12)
	for i := range months {
		key := start.AddDate(0, i, 0).Format("2006-01")
		months[i] = &MonthlySales{Month: key}
		index[key] = months[i]
	}
	for _, r := range rows {
		m, ok := index[time.Unix(r.InvoiceDate, 0).UTC().Format("2006-01")]
		if !ok {
			continue
		}
		m.InvoiceCount++
		m.Taxable = m.Taxable.Add(r.TotalTaxableValue)
		m.Tax = m.Tax.Add(r.TotalTax)
		m.Total = m.Total.Add(r.Total)
	}
	return months, nil
}
