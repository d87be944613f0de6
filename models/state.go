package models

import (
	"context"
	"errors"
	"strings"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"gorm.io/gorm"
)

// State is a GST state; Code is the two-digit prefix of a GSTIN.
type State struct {
	ID       int    `gorm:"primary_key" json:"id"`
	Name     string `gorm:"size:50;not null;unique" json:"name"`
	Code     string `gorm:"size:2;not null;unique" json:"code"`
	IsActive *bool  `gorm:"not null;default:true" json:"is_active"`
}

type NewState struct {
	Name     string `json:"name" validate:"required,max=50"`
	Code     string `json:"code" validate:"required,len=2,numeric"`
	IsActive *bool  `json:"is_active"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewState) validate(ctx context.Context, id int) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[State](ctx, "code", input.Code, id); err != nil {
		return NewValidationError(err.Error(), "code")
	}
	if err := utils.ValidateUnique[State](ctx, "name", input.Name, id); err != nil {
		return NewValidationError(err.Error(), "name")
	}
	return nil
}

func CreateState(ctx context.Context, input *NewState) (*State, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	state := State{
		Name:     input.Name,
		Code:     input.Code,
		IsActive: utils.NewTrueIfNil(input.IsActive),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&state).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[State](); err != nil {
		return nil, err
	}
	return &state, nil
}

func UpdateState(ctx context.Context, id int, input *NewState) (*State, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var state State
	err := db.WithContext(ctx).First(&state, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"Name": input.Name,
		"Code": input.Code,
	}
	if input.IsActive != nil {
		updates["IsActive"] = *input.IsActive
	}
	if err := db.WithContext(ctx).Model(&state).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisBoth[State](id); err != nil {
		return nil, err
	}
	return &state, nil
}

func DeleteState(ctx context.Context, id int) (*State, error) {
	return DeleteModel[State](ctx, id,
		referenceCheck{Model: &Customer{}, Column: "state_id", Label: "customer"},
		referenceCheck{Model: &Vendor{}, Column: "state_id", Label: "vendor"},
	)
}

func GetState(ctx context.Context, id int) (*State, error) {
	return GetResource[State](ctx, id)
}

// ListStates is served from the StateList cache when present.
func ListStates(ctx context.Context) ([]*State, error) {
	return utils.ListModel[State](ctx)
}
