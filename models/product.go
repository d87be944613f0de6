package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID         int             `gorm:"primary_key" json:"id"`
	Name       string          `gorm:"size:150;not null;unique" json:"name"`
	Hsn        string          `gorm:"size:8;index" json:"hsn"`
	CategoryId *int            `gorm:"index" json:"category_id"`
	Model      string          `gorm:"size:100" json:"model"`
	Company    string          `gorm:"size:100" json:"company"`
	Rate       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"rate"`
	GstRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_rate"`
	Stock      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"stock"`
	Unit       string          `gorm:"size:20" json:"unit"`
	IsActive   *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name       string          `json:"name" validate:"required,max=150"`
	Hsn        string          `json:"hsn" validate:"omitempty,min=4,max=8,numeric"`
	CategoryId *int            `json:"category_id"`
	Model      string          `json:"model" validate:"max=100"`
	Company    string          `json:"company" validate:"max=100"`
	Rate       decimal.Decimal `json:"rate"`
	GstRate    decimal.Decimal `json:"gst_rate"`
	// opening stock, ignored on update
	Stock    decimal.Decimal `json:"stock"`
	Unit     string          `json:"unit" validate:"max=20"`
	IsActive *bool           `json:"is_active"`
}

// ProductFilter narrows PaginateProducts.
type ProductFilter struct {
	ListParams
	CategoryId int  `form:"category_id"`
	LowStock   bool `form:"low_stock"`
}

var allowedGstRates = []string{"0", "0.25", "3", "5", "12", "18", "28"}

func (input *NewProduct) validate(ctx context.Context, id int) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Product](ctx, "name", input.Name, id); err != nil {
		return NewValidationError(err.Error(), "name")
	}
	if input.Rate.IsNegative() {
		return NewValidationError("rate must not be negative", "rate")
	}
	if input.Stock.IsNegative() {
		return NewValidationError("stock must not be negative", "stock")
	}
	validRate := false
	for _, r := range allowedGstRates {
		if input.GstRate.Equal(decimal.RequireFromString(r)) {
			validRate = true
			break
		}
	}
	if !validRate {
		return NewValidationError("unsupported gst rate", "gst_rate")
	}
	if input.CategoryId != nil && *input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, *input.CategoryId); err != nil {
			return NewReferentialError("category not found", "category_id")
		}
	} else {
		input.CategoryId = nil
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	product := Product{
		Name:       input.Name,
		Hsn:        input.Hsn,
		CategoryId: input.CategoryId,
		Model:      input.Model,
		Company:    input.Company,
		Rate:       input.Rate,
		GstRate:    input.GstRate,
		Stock:      input.Stock,
		Unit:       input.Unit,
		IsActive:   utils.NewTrueIfNil(input.IsActive),
	}
	if err := config.GetDB().WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct never touches stock; only invoices move it.
func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"Name":       input.Name,
		"Hsn":        input.Hsn,
		"CategoryId": input.CategoryId,
		"Model":      input.Model,
		"Company":    input.Company,
		"Rate":       input.Rate,
		"GstRate":    input.GstRate,
		"Unit":       input.Unit,
	}
	if input.IsActive != nil {
		updates["IsActive"] = *input.IsActive
	}
	if err := db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Product](id); err != nil {
		return nil, err
	}
	return &product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	return DeleteModel[Product](ctx, id,
		referenceCheck{Model: &SalesInvoiceItem{}, Column: "product_id", Label: "sales invoice"},
		referenceCheck{Model: &PurchaseInvoiceItem{}, Column: "product_id", Label: "purchase invoice"},
	)
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return GetResource[Product](ctx, id)
}

func GetProductsByIds(ctx context.Context, ids []int) ([]*Product, error) {
	var results []*Product
	if len(ids) == 0 {
		return results, nil
	}
	err := config.GetDB().WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	return results, err
}

func PaginateProducts(ctx context.Context, filter ProductFilter) (*Page[Product], error) {
	params := filter.ListParams
	params.normalize()
	dbCtx := config.GetDB().WithContext(ctx).Model(&Product{})
	if params.Search != "" {
		p := likePattern(params.Search)
		dbCtx = dbCtx.Where("(name LIKE ? OR hsn LIKE ? OR model LIKE ? OR company LIKE ?)", p, p, p, p)
	}
	if filter.CategoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", filter.CategoryId)
	}
	if filter.LowStock {
		dbCtx = dbCtx.Where("stock <= ?", config.LowStockThreshold())
	}
	return FetchPage[Product](dbCtx, params, "name")
}

// evictProducts drops cached copies after stock moved.
func evictProducts(ids []int) {
	for _, id := range utils.UniqueSlice(ids) {
		if err := utils.RemoveRedisItem[Product](id); err != nil {
			config.LogError(config.GetLogger(), "Product", "evictProducts", "remove cache", id, err)
		}
	}
}
