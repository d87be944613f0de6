package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshank05/nextjs-sub001/config"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// cache misses for the same key share one database read
var cacheFill singleflight.Group

/* DB fetching */

// fetch model from db
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {
	dbCtx := config.GetDB().WithContext(ctx)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// fetch all models ordered by id
func FetchAllModels[T any](ctx context.Context, associations ...string) ([]*T, error) {
	dbCtx := config.GetDB().WithContext(ctx)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// read model list, redis or db, cache result
func ListModel[T any](ctx context.Context, associations ...string) ([]*T, error) {
	results, err := RetrieveRedisList[T]()
	if err != nil {
		return nil, err
	}
	if results != nil {
		return results, nil
	}
	v, err, _ := cacheFill.Do(GetTypeName[T]()+"List", func() (interface{}, error) {
		fetched, err := FetchAllModels[T](ctx, associations...)
		if err != nil {
			return nil, err
		}
		return fetched, StoreRedisList[T](fetched)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*T), nil
}

// read one model, redis or db, cache result
func GetModel[T any](ctx context.Context, id int) (*T, error) {
	result, err := RetrieveRedis[T](id)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	v, err, _ := cacheFill.Do(fmt.Sprintf("%s:%d", GetTypeName[T](), id), func() (interface{}, error) {
		fetched, err := FetchModel[T](ctx, id)
		if err != nil {
			return nil, err
		}
		return fetched, StoreRedis[T](fetched, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}
