package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseInvoice is a vendor bill. Its totals are derived from the lines.
type PurchaseInvoice struct {
	ID                int             `gorm:"primary_key" json:"id"`
	VendorId          int             `gorm:"not null;uniqueIndex:idx_vendor_bill_no" json:"vendor_id"`
	InvoiceNo         string          `gorm:"size:50;not null;uniqueIndex:idx_vendor_bill_no" json:"invoice_no"`
	InvoiceDate       int64           `gorm:"not null;index" json:"invoice_date"`
	InterState        bool            `gorm:"not null" json:"inter_state"`
	ItemsTotal        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"items_total"`
	Freight           decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"freight"`
	TotalTaxableValue decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_taxable_value"`
	TotalCgst         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_cgst"`
	TotalSgst         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_sgst"`
	TotalIgst         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_igst"`
	TotalTax          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_tax"`
	Total             decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total"`
	Notes             string          `gorm:"type:text" json:"notes"`
	Fy                string          `gorm:"size:10;index" json:"fy"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         int64           `gorm:"autoUpdateTime" json:"updated_at"`

	Items []*PurchaseInvoiceItem `gorm:"foreignKey:InvoiceId" json:"items,omitempty"`
}

type PurchaseInvoiceItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	ProductId   int             `gorm:"index;not null" json:"product_id"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	Rate        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"rate"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"subtotal"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"tax_amount"`
	InvoiceDate int64           `gorm:"index" json:"invoice_date"`
	Fy          string          `gorm:"size:10;index" json:"fy"`
}

type NewPurchaseInvoice struct {
	InvoiceNo   FlexString               `json:"invoice_no"`
	InvoiceDate string                   `json:"invoice_date"`
	VendorId    FlexID                   `json:"vendor_id"`
	InterState  bool                     `json:"inter_state"`
	Freight     decimal.Decimal          `json:"freight"`
	Notes       string                   `json:"notes"`
	Fy          FlexString               `json:"fy"`
	Items       []NewPurchaseInvoiceItem `json:"items"`
}

type NewPurchaseInvoiceItem struct {
	Product FlexID          `json:"product"`
	Qty     decimal.Decimal `json:"qty"`
	Rate    decimal.Decimal `json:"rate"`
	TaxRate decimal.Decimal `json:"tax_rate"`
}

type PurchaseInvoiceFilter struct {
	ListParams
	Fy       string `form:"fy"`
	VendorId int    `form:"vendor_id"`
}

func (input *NewPurchaseInvoice) validate() (int64, error) {
	var missing []string
	if input.InvoiceNo == "" {
		missing = append(missing, "invoice_no")
	}
	if input.InvoiceDate == "" {
		missing = append(missing, "invoice_date")
	}
	if input.VendorId <= 0 {
		missing = append(missing, "vendor_id")
	}
	if len(input.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return 0, NewValidationError("missing required fields", missing...)
	}
	invoiceDate, err := utils.ParseInvoiceDate(input.InvoiceDate)
	if err != nil {
		return 0, NewValidationError("invalid invoice date", "invoice_date")
	}
	if input.Freight.IsNegative() {
		return 0, NewValidationError("freight must not be negative", "freight")
	}
	var bad []string
	for i, item := range input.Items {
		if item.Product <= 0 {
			bad = append(bad, fmt.Sprintf("items[%d].product", i))
		}
		if !item.Qty.IsPositive() {
			bad = append(bad, fmt.Sprintf("items[%d].qty", i))
		}
		if item.Rate.IsNegative() {
			bad = append(bad, fmt.Sprintf("items[%d].rate", i))
		}
		if item.TaxRate.IsNegative() {
			bad = append(bad, fmt.Sprintf("items[%d].tax_rate", i))
		}
	}
	if len(bad) > 0 {
		return 0, NewValidationError("invalid line items", bad...)
	}
	return invoiceDate, nil
}

// buildLines prices each line and fills the header totals.
// Freight is taxable but carries no GST of its own.
func (input *NewPurchaseInvoice) buildLines(header *PurchaseInvoice) []*PurchaseInvoiceItem {
	lines := make([]*PurchaseInvoiceItem, 0, len(input.Items))
	itemsTotal := decimal.Zero
	var cgst, sgst, igst decimal.Decimal
	for _, item := range input.Items {
		subtotal := item.Qty.Mul(item.Rate).Round(2)
		gst := utils.CalculateGST(subtotal, item.TaxRate, input.InterState)
		cgst = cgst.Add(gst.CGST)
		sgst = sgst.Add(gst.SGST)
		igst = igst.Add(gst.IGST)
		itemsTotal = itemsTotal.Add(subtotal)
		lines = append(lines, &PurchaseInvoiceItem{
			ProductId:   int(item.Product),
			Qty:         item.Qty,
			Rate:        item.Rate,
			Subtotal:    subtotal,
			TaxRate:     item.TaxRate,
			TaxAmount:   gst.Total(),
			InvoiceDate: header.InvoiceDate,
			Fy:          header.Fy,
		})
	}
	header.ItemsTotal = itemsTotal
	header.TotalTaxableValue = itemsTotal.Add(header.Freight)
	header.TotalCgst = cgst
	header.TotalSgst = sgst
	header.TotalIgst = igst
	header.TotalTax = cgst.Add(sgst).Add(igst)
	header.Total = header.TotalTaxableValue.Add(header.TotalTax)
	return lines
}

// CreatePurchaseInvoice records a vendor bill and raises stock for every line, atomically.
func CreatePurchaseInvoice(ctx context.Context, input *NewPurchaseInvoice) (*PurchaseInvoice, error) {
	ctx, span := tracer.Start(ctx, "CreatePurchaseInvoice")
	defer span.End()
	span.SetAttributes(attribute.String("invoice.no", input.InvoiceNo.String()))

	invoice, err := createPurchaseInvoice(ctx, input)
	if err != nil {
		recordSpanError(span, err)
		config.LogErrorCtx(ctx, "PurchaseInvoice", "CreatePurchaseInvoice", ErrorKindOf(err).String(), input.InvoiceNo, err)
		return nil, err
	}
	config.LogInfoCtx(ctx, "PurchaseInvoice", "purchase invoice created", logrus.Fields{
		"invoice_id": invoice.ID,
		"vendor_id":  invoice.VendorId,
	})
	return invoice, nil
}

func createPurchaseInvoice(ctx context.Context, input *NewPurchaseInvoice) (*PurchaseInvoice, error) {
	invoiceDate, err := input.validate()
	if err != nil {
		return nil, err
	}
	fy := input.Fy.String()
	if fy == "" {
		fy = utils.FiscalYearOf(time.Unix(invoiceDate, 0).UTC())
	}
	header := PurchaseInvoice{
		VendorId:    int(input.VendorId),
		InvoiceNo:   input.InvoiceNo.String(),
		InvoiceDate: invoiceDate,
		InterState:  input.InterState,
		Freight:     input.Freight,
		Notes:       input.Notes,
		Fy:          fy,
		UpdatedAt:   time.Now().Unix(),
	}
	lines := input.buildLines(&header)

	release, err := obtainInvoiceLock(ctx, fmt.Sprintf("purchase:%d:%s", header.VendorId, header.InvoiceNo))
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, NewPersistenceError("failed to create purchase invoice", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	var count int64
	if err := tx.Model(&Vendor{}).Where("id = ?", header.VendorId).Count(&count).Error; err != nil {
		return nil, NewPersistenceError("failed to create purchase invoice", err)
	}
	if count == 0 {
		return nil, NewReferentialError("vendor not found", fmt.Sprintf("vendor %d", header.VendorId))
	}
	productIds := make([]int, 0, len(lines))
	for _, line := range lines {
		productIds = append(productIds, line.ProductId)
	}
	if err := checkProductsExist(tx, productIds); err != nil {
		return nil, err
	}

	if err := tx.Omit(clause.Associations).Create(&header).Error; err != nil {
		return nil, invoiceWriteError("failed to create purchase invoice", err)
	}
	for _, line := range lines {
		line.InvoiceId = header.ID
		if err := tx.Create(line).Error; err != nil {
			return nil, NewPersistenceError("failed to create invoice item", err)
		}
		if err := adjustStock(tx, line.ProductId, gorm.Expr("stock + ?", line.Qty)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, NewPersistenceError("failed to commit purchase invoice", err)
	}
	evictProducts(productIds)
	header.Items = lines
	return &header, nil
}

func GetPurchaseInvoice(ctx context.Context, id int) (*PurchaseInvoice, error) {
	var result PurchaseInvoice
	err := config.GetDB().WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func PaginatePurchaseInvoices(ctx context.Context, filter PurchaseInvoiceFilter) (*Page[PurchaseInvoice], error) {
	params := filter.ListParams
	params.normalize()
	dbCtx := config.GetDB().WithContext(ctx).Model(&PurchaseInvoice{})
	if params.Search != "" {
		dbCtx = dbCtx.Where("invoice_no LIKE ?", likePattern(params.Search))
	}
	if filter.Fy != "" {
		dbCtx = dbCtx.Where("fy = ?", filter.Fy)
	}
	if filter.VendorId > 0 {
		dbCtx = dbCtx.Where("vendor_id = ?", filter.VendorId)
	}
	return FetchPage[PurchaseInvoice](dbCtx, params, "invoice_date DESC, id DESC")
}
