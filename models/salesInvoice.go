package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesInvoice struct {
	ID                int             `gorm:"primary_key" json:"id"`
	InvoiceNo         string          `gorm:"size:50;not null;uniqueIndex" json:"invoice_no"`
	InvoiceDate       int64           `gorm:"not null;index" json:"invoice_date"`
	CustomerId        *int            `gorm:"index" json:"customer_id"`
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
	Status            InvoiceStatus   `gorm:"size:20;not null" json:"status"`
	PaymentMode       PaymentMode     `gorm:"size:20;not null" json:"payment_mode"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	// unix seconds
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`

	Items           []*SalesInvoiceItem     `gorm:"foreignKey:InvoiceId" json:"items,omitempty"`
	BillingDetail   *InvoiceBillingDetail   `gorm:"foreignKey:InvoiceId" json:"billing_details,omitempty"`
	ShippingDetail  *InvoiceShippingDetail  `gorm:"foreignKey:InvoiceId" json:"shipping_details,omitempty"`
	TransportDetail *InvoiceTransportDetail `gorm:"foreignKey:InvoiceId" json:"transport_details,omitempty"`
}

type SalesInvoiceItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	ProductId   int             `gorm:"index;not null" json:"product_id"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	Rate        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"rate"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"subtotal"`
	TaxClass    string          `gorm:"size:20" json:"tax_class"`
	Category    string          `gorm:"size:100" json:"category"`
	Model       string          `gorm:"size:100" json:"model"`
	Company     string          `gorm:"size:100" json:"company"`
	InvoiceDate int64           `gorm:"index" json:"invoice_date"`
	Fy          string          `gorm:"size:10;index" json:"fy"`
}

// The three optional blocks share one shape and all key by invoice_id.
type InvoiceBillingDetail struct {
	ID        int               `gorm:"primary_key" json:"id"`
	InvoiceId int               `gorm:"not null;uniqueIndex" json:"invoice_id"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
}

type InvoiceShippingDetail struct {
	ID        int               `gorm:"primary_key" json:"id"`
	InvoiceId int               `gorm:"not null;uniqueIndex" json:"invoice_id"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
}

type InvoiceTransportDetail struct {
	ID        int               `gorm:"primary_key" json:"id"`
	InvoiceId int               `gorm:"not null;uniqueIndex" json:"invoice_id"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
}

type NewSalesInvoice struct {
	InvoiceNo         FlexString            `json:"invoice_no"`
	InvoiceDate       string                `json:"invoice_date"`
	SelectCustomer    FlexID                `json:"select_customer"`
	ItemsTotal        decimal.Decimal       `json:"items_total"`
	Freight           decimal.Decimal       `json:"freight"`
	TotalTaxableValue *decimal.Decimal      `json:"total_taxable_value"`
	TotalCgst         decimal.Decimal       `json:"total_cgst"`
	TotalSgst         decimal.Decimal       `json:"total_sgst"`
	TotalIgst         decimal.Decimal       `json:"total_igst"`
	TotalTax          decimal.Decimal       `json:"total_tax"`
	Total             *decimal.Decimal      `json:"total"`
	Notes             string                `json:"notes"`
	Fy                FlexString            `json:"fy"`
	InvoiceItems      []NewSalesInvoiceItem `json:"invoiceItems"`
	BillingDetails    datatypes.JSONMap     `json:"billingDetails"`
	ShippingDetails   datatypes.JSONMap     `json:"shippingDetails"`
	TransportDetails  datatypes.JSONMap     `json:"transportDetails"`
}

type NewSalesInvoiceItem struct {
	Product  FlexID          `json:"product"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxClass FlexString      `json:"tax_class"`
	Category FlexString      `json:"category"`
	Model    FlexString      `json:"model"`
	Company  FlexString      `json:"company"`
}

type SalesInvoiceFilter struct {
	ListParams
	Fy         string `form:"fy"`
	From       string `form:"from"`
	To         string `form:"to"`
	CustomerId int    `form:"customer_id"`
	Status     string `form:"status"`
}

type SalesInvoiceStatusInput struct {
	Status      InvoiceStatus `json:"status"`
	PaymentMode PaymentMode   `json:"payment_mode"`
}

// validate checks required fields and returns the normalized invoice date.
func (input *NewSalesInvoice) validate() (int64, error) {
	var missing []string
	if input.InvoiceNo == "" {
		missing = append(missing, "invoice_no")
	}
	if input.TotalTaxableValue == nil {
		missing = append(missing, "total_taxable_value")
	}
	if input.Total == nil {
		missing = append(missing, "total")
	}
	if input.InvoiceDate == "" {
		missing = append(missing, "invoice_date")
	}
	if len(missing) > 0 {
		return 0, NewValidationError("missing required fields", missing...)
	}

	invoiceDate, err := utils.ParseInvoiceDate(input.InvoiceDate)
	if err != nil {
		return 0, NewValidationError("invalid invoice date", "invoice_date")
	}

	var bad []string
	for i, item := range input.InvoiceItems {
		if item.Product <= 0 {
			bad = append(bad, fmt.Sprintf("invoiceItems[%d].product", i))
		}
	}
	if len(bad) > 0 {
		return 0, NewValidationError("invalid line items", bad...)
	}
	return invoiceDate, nil
}

func (input *NewSalesInvoice) productIds() []int {
	ids := make([]int, 0, len(input.InvoiceItems))
	for _, item := range input.InvoiceItems {
		ids = append(ids, int(item.Product))
	}
	return ids
}

// CreateSalesInvoice writes the header, the supplied detail blocks, every line
// item and the matching stock decrements in one transaction.
func CreateSalesInvoice(ctx context.Context, input *NewSalesInvoice) (*SalesInvoice, error) {
	ctx, span := tracer.Start(ctx, "CreateSalesInvoice")
	defer span.End()
	span.SetAttributes(
		attribute.String("invoice.no", input.InvoiceNo.String()),
		attribute.Int("invoice.items", len(input.InvoiceItems)),
	)

	invoice, err := createSalesInvoice(ctx, input)
	if err != nil {
		recordSpanError(span, err)
		config.LogErrorCtx(ctx, "SalesInvoice", "CreateSalesInvoice", ErrorKindOf(err).String(), input.InvoiceNo, err)
		return nil, err
	}
	config.LogInfoCtx(ctx, "SalesInvoice", "sales invoice created", logrus.Fields{
		"invoice_id": invoice.ID,
		"invoice_no": invoice.InvoiceNo,
	})
	return invoice, nil
}

func createSalesInvoice(ctx context.Context, input *NewSalesInvoice) (*SalesInvoice, error) {
	invoiceDate, err := input.validate()
	if err != nil {
		return nil, err
	}
	invoiceNo := input.InvoiceNo.String()
	fy := input.Fy.String()
	if fy == "" {
		fy = utils.FiscalYearOf(time.Unix(invoiceDate, 0).UTC())
	}

	release, err := obtainInvoiceLock(ctx, "invoice:"+invoiceNo)
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, NewPersistenceError("failed to create sales invoice", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	// no-op once committed
	defer func() { _ = tx.Rollback().Error }()

	if input.SelectCustomer > 0 {
		var count int64
		if err := tx.Model(&Customer{}).Where("id = ?", int(input.SelectCustomer)).Count(&count).Error; err != nil {
			return nil, NewPersistenceError("failed to create sales invoice", err)
		}
		if count == 0 {
			return nil, NewReferentialError("customer not found", fmt.Sprintf("customer %d", input.SelectCustomer))
		}
	}
	productIds := input.productIds()
	if err := checkProductsExist(tx, productIds); err != nil {
		return nil, err
	}

	var customerId *int
	if input.SelectCustomer > 0 {
		id := int(input.SelectCustomer)
		customerId = &id
	}
	invoice := SalesInvoice{
		InvoiceNo:         invoiceNo,
		InvoiceDate:       invoiceDate,
		CustomerId:        customerId,
		ItemsTotal:        input.ItemsTotal,
		Freight:           input.Freight,
		TotalTaxableValue: *input.TotalTaxableValue,
		TotalCgst:         input.TotalCgst,
		TotalSgst:         input.TotalSgst,
		TotalIgst:         input.TotalIgst,
		TotalTax:          input.TotalTax,
		Total:             *input.Total,
		Notes:             input.Notes,
		Fy:                fy,
		Status:            InvoiceStatusOpen,
		PaymentMode:       PaymentModeDefault,
		UpdatedAt:         time.Now().Unix(),
	}
	if err := tx.Omit(clause.Associations).Create(&invoice).Error; err != nil {
		return nil, invoiceWriteError("failed to create sales invoice", err)
	}

	if len(input.BillingDetails) > 0 {
		if err := tx.Create(&InvoiceBillingDetail{InvoiceId: invoice.ID, Details: input.BillingDetails}).Error; err != nil {
			return nil, NewPersistenceError("failed to create billing details", err)
		}
	}
	if len(input.ShippingDetails) > 0 {
		if err := tx.Create(&InvoiceShippingDetail{InvoiceId: invoice.ID, Details: input.ShippingDetails}).Error; err != nil {
			return nil, NewPersistenceError("failed to create shipping details", err)
		}
	}
	if len(input.TransportDetails) > 0 {
		if err := tx.Create(&InvoiceTransportDetail{InvoiceId: invoice.ID, Details: input.TransportDetails}).Error; err != nil {
			return nil, NewPersistenceError("failed to create transport details", err)
		}
	}

	for _, item := range input.InvoiceItems {
		line := SalesInvoiceItem{
			InvoiceId:   invoice.ID,
			ProductId:   int(item.Product),
			Qty:         item.Qty,
			Rate:        item.Rate,
			Subtotal:    item.Subtotal,
			TaxClass:    item.TaxClass.String(),
			Category:    item.Category.String(),
			Model:       item.Model.String(),
			Company:     item.Company.String(),
			InvoiceDate: invoiceDate,
			Fy:          fy,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, NewPersistenceError("failed to create invoice item", err)
		}
		if err := adjustStock(tx, line.ProductId, gorm.Expr("stock - ?", item.Qty)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, NewPersistenceError("failed to commit sales invoice", err)
	}
	evictProducts(productIds)
	return &invoice, nil
}

// checkProductsExist resolves every referenced product id in one query.
func checkProductsExist(tx *gorm.DB, ids []int) error {
	unique := utils.UniqueSlice(ids)
	if len(unique) == 0 {
		return nil
	}
	var found []int
	if err := tx.Model(&Product{}).Where("id IN ?", unique).Pluck("id", &found).Error; err != nil {
		return NewPersistenceError("failed to read products", err)
	}
	if len(found) == len(unique) {
		return nil
	}
	seen := make(map[int]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []int
	for _, id := range unique {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return NewReferentialError("product not found", missingRefs("product", missing)...)
}

// adjustStock applies a relative update; the stock value is never read back.
func adjustStock(tx *gorm.DB, productId int, expr clause.Expr) error {
	res := tx.Model(&Product{}).Where("id = ?", productId).UpdateColumn("stock", expr)
	if res.Error != nil {
		return NewPersistenceError("failed to update stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewReferentialError("product not found", fmt.Sprintf("product %d", productId))
	}
	return nil
}

func invoiceWriteError(message string, err error) *DomainError {
	if IsDuplicateKey(err) {
		return NewPersistenceError(message, fmt.Errorf("duplicate invoice number: %w", err))
	}
	return NewPersistenceError(message, err)
}

// obtainInvoiceLock serializes concurrent submissions of one invoice number.
// Without redis it proceeds unlocked and the unique index decides.
func obtainInvoiceLock(ctx context.Context, key string) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}
	lock, err := locker.Obtain(ctx, key, 30*time.Second, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, NewPersistenceError("failed to create invoice", fmt.Errorf("duplicate invoice number: %s is already being saved", key))
	}
	if err != nil {
		config.LogErrorCtx(ctx, "SalesInvoice", "obtainInvoiceLock", "redis lock unavailable", key, err)
		return func() {}, nil
	}
	return func() { _ = lock.Release(context.WithoutCancel(ctx)) }, nil
}

func GetSalesInvoice(ctx context.Context, id int) (*SalesInvoice, error) {
	var result SalesInvoice
	err := config.GetDB().WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("BillingDetail").
		Preload("ShippingDetail").
		Preload("TransportDetail").
		First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func PaginateSalesInvoices(ctx context.Context, filter SalesInvoiceFilter) (*Page[SalesInvoice], error) {
	params := filter.ListParams
	params.normalize()
	dbCtx := config.GetDB().WithContext(ctx).Model(&SalesInvoice{})
	if params.Search != "" {
		dbCtx = dbCtx.Where("invoice_no LIKE ?", likePattern(params.Search))
	}
	if filter.Fy != "" {
		dbCtx = dbCtx.Where("fy = ?", filter.Fy)
	}
	if filter.CustomerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", filter.CustomerId)
	}
	if filter.Status != "" {
		if !InvoiceStatus(filter.Status).IsValid() {
			return nil, NewValidationError("invalid status filter", "status")
		}
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		from, err := utils.ParseInvoiceDate(filter.From)
		if err != nil {
			return nil, NewValidationError("invalid date", "from")
		}
		dbCtx = dbCtx.Where("invoice_date >= ?", from)
	}
	if filter.To != "" {
		to, err := utils.ParseInvoiceDate(filter.To)
		if err != nil {
			return nil, NewValidationError("invalid date", "to")
		}
		dbCtx = dbCtx.Where("invoice_date <= ?", to)
	}
	return FetchPage[SalesInvoice](dbCtx, params, "invoice_date DESC, id DESC")
}

// UpdateSalesInvoiceStatus changes status and payment mode only.
// Cancelled invoices are final.
func UpdateSalesInvoiceStatus(ctx context.Context, id int, input *SalesInvoiceStatusInput) (*SalesInvoice, error) {
	if !input.Status.IsValid() {
		return nil, NewValidationError("invalid status", "status")
	}
	if input.PaymentMode == "" {
		input.PaymentMode = PaymentModeDefault
	}
	if !input.PaymentMode.IsValid() {
		return nil, NewValidationError("invalid payment mode", "payment_mode")
	}

	db := config.GetDB()
	var invoice SalesInvoice
	err := db.WithContext(ctx).First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if invoice.Status == InvoiceStatusCancelled && input.Status != InvoiceStatusCancelled {
		return nil, NewValidationError("cancelled invoice cannot be reopened", "status")
	}
	now := time.Now().Unix()
	err = db.WithContext(ctx).Model(&invoice).Updates(map[string]interface{}{
		"status":       input.Status,
		"payment_mode": input.PaymentMode,
		"updated_at":   now,
	}).Error
	if err != nil {
		return nil, NewPersistenceError("failed to update sales invoice", err)
	}
	invoice.Status = input.Status
	invoice.PaymentMode = input.PaymentMode
	invoice.UpdatedAt = now
	return &invoice, nil
}
