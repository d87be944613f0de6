package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"gorm.io/gorm"
)

// referenceCheck describes another table that may point at the row being deleted.
type referenceCheck struct {
	Model  any
	Column string
	Label  string
}

// DeleteModel removes T by id unless one of refs still points at it.
func DeleteModel[T any](ctx context.Context, id int, refs ...referenceCheck) (*T, error) {
	db := config.GetDB()
	var result T
	err := db.WithContext(ctx).First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		var count int64
		if err := db.WithContext(ctx).Model(ref.Model).Where(ref.Column+" = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: used by %s", utils.ErrorReferenced, ref.Label)
		}
	}

	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisBoth[T](id); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResource reads T from redis, falling back to the db and caching the row.
func GetResource[T any](ctx context.Context, id int) (*T, error) {
	return utils.GetModel[T](ctx, id)
}

// ToggleActiveModel flips is_active and drops the cached copies.
func ToggleActiveModel[T any](ctx context.Context, id int, isActive bool) (*T, error) {
	db := config.GetDB()
	var result T
	err := db.WithContext(ctx).First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&result).Update("is_active", isActive).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisBoth[T](id); err != nil {
		return nil, err
	}
	return &result, nil
}
