package utils

import (
	"context"
	"errors"
	"reflect"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	_ = validate.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || IsValidGSTIN(v)
	})
}

// ValidateStruct runs `validate` tags on a pointer to struct.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// check if id exists, return RecordNotFound Error
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

type ValidationRule[ID comparable] struct {
	Model   interface{}
	Ids     []ID
	Message string
	Filter  Filter
}

type Filter struct {
	Cond   string
	Values []interface{}
}

func MassValidateResourceIds[ID comparable](ctx context.Context, rules []ValidationRule[ID]) error {
	db := config.GetDB()
	for _, rule := range rules {
		if len(rule.Ids) <= 0 {
			continue
		}
		unqIds := UniqueSlice(rule.Ids)

		var count int64
		q := db.WithContext(ctx).Model(rule.Model).Where("id IN ?", unqIds)
		if rule.Filter.Cond != "" {
			q = q.Where(rule.Filter.Cond, rule.Filter.Values...)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(unqIds)) {
			return errors.New(rule.Message)
		}
	}
	return nil
}

func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if exceptId == nil || reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, column+" = ? AND NOT id = ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// ResourceCountWhere counts T rows matching condition.
func ResourceCountWhere[T any](ctx context.Context, condition string, value ...interface{}) (int64, error) {
	var model T
	var count int64
	err := config.GetDB().WithContext(ctx).Model(&model).Where(condition, value...).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
