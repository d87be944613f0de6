package models

import (
	"context"
	"errors"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"gorm.io/gorm"
)

type Vendor struct {
	ID        int `gorm:"primary_key" json:"id"`
	PartyInfo `gorm:"embedded"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func CreateVendor(ctx context.Context, input *NewParty) (*Vendor, error) {
	if err := validateParty[Vendor](ctx, input, 0); err != nil {
		return nil, err
	}
	vendor := Vendor{PartyInfo: input.toInfo()}
	if err := config.GetDB().WithContext(ctx).Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func UpdateVendor(ctx context.Context, id int, input *NewParty) (*Vendor, error) {
	if err := validateParty[Vendor](ctx, input, id); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var vendor Vendor
	err := db.WithContext(ctx).First(&vendor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&vendor).Updates(input.updates()).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vendor](id); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func DeleteVendor(ctx context.Context, id int) (*Vendor, error) {
	return DeleteModel[Vendor](ctx, id,
		referenceCheck{Model: &PurchaseInvoice{}, Column: "vendor_id", Label: "purchase invoice"},
	)
}

func GetVendor(ctx context.Context, id int) (*Vendor, error) {
	return GetResource[Vendor](ctx, id)
}

func GetVendorsByIds(ctx context.Context, ids []int) ([]*Vendor, error) {
	var results []*Vendor
	if len(ids) == 0 {
		return results, nil
	}
	err := config.GetDB().WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	return results, err
}

func PaginateVendors(ctx context.Context, params ListParams) (*Page[Vendor], error) {
	params.normalize()
	dbCtx := config.GetDB().WithContext(ctx).Model(&Vendor{})
	if params.Search != "" {
		cond, args := partySearch(params.Search)
		dbCtx = dbCtx.Where(cond, args...)
	}
	return FetchPage[Vendor](dbCtx, params, "name")
}
