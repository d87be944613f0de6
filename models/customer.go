package models

import (
	"context"
	"errors"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"gorm.io/gorm"
)

type Customer struct {
	ID        int `gorm:"primary_key" json:"id"`
	PartyInfo `gorm:"embedded"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func CreateCustomer(ctx context.Context, input *NewParty) (*Customer, error) {
	if err := validateParty[Customer](ctx, input, 0); err != nil {
		return nil, err
	}
	customer := Customer{PartyInfo: input.toInfo()}
	if err := config.GetDB().WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewParty) (*Customer, error) {
	if err := validateParty[Customer](ctx, input, id); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var customer Customer
	err := db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&customer).Updates(input.updates()).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Customer](id); err != nil {
		return nil, err
	}
	return &customer, nil
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {
	return DeleteModel[Customer](ctx, id,
		referenceCheck{Model: &SalesInvoice{}, Column: "customer_id", Label: "sales invoice"},
	)
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return GetResource[Customer](ctx, id)
}

// GetCustomersByIds is the batch read behind the customer loader.
func GetCustomersByIds(ctx context.Context, ids []int) ([]*Customer, error) {
	var results []*Customer
	if len(ids) == 0 {
		return results, nil
	}
	err := config.GetDB().WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	return results, err
}

func PaginateCustomers(ctx context.Context, params ListParams) (*Page[Customer], error) {
	params.normalize()
	dbCtx := config.GetDB().WithContext(ctx).Model(&Customer{})
	if params.Search != "" {
		cond, args := partySearch(params.Search)
		dbCtx = dbCtx.Where(cond, args...)
	}
	return FetchPage[Customer](dbCtx, params, "name")
}
