package models

import (
	"context"
	"strings"

	"github.com/dshank05/nextjs-sub001/utils"
)

// PartyInfo is the contact block shared by customers and vendors.
type PartyInfo struct {
	Name     string `gorm:"size:100;not null;unique" json:"name"`
	Gstin    string `gorm:"size:15;index" json:"gstin"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Address  string `gorm:"type:text" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	StateId  *int   `gorm:"index" json:"state_id"`
	Pincode  string `gorm:"size:6" json:"pincode"`
	IsActive *bool  `gorm:"not null;default:true" json:"is_active"`
}

type NewParty struct {
	Name     string `json:"name" validate:"required,max=100"`
	Gstin    string `json:"gstin" validate:"omitempty,gstin"`
	Phone    string `json:"phone" validate:"max=20"`
	Email    string `json:"email" validate:"omitempty,email,max=100"`
	Address  string `json:"address"`
	City     string `json:"city" validate:"max=100"`
	StateId  *int   `json:"state_id"`
	Pincode  string `json:"pincode" validate:"omitempty,len=6,numeric"`
	IsActive *bool  `json:"is_active"`
}

// validateParty checks tags, name uniqueness within T, state existence and phone.
func validateParty[T any](ctx context.Context, input *NewParty, id int) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Gstin = strings.ToUpper(strings.TrimSpace(input.Gstin))
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[T](ctx, "name", input.Name, id); err != nil {
		return NewValidationError(err.Error(), "name")
	}
	if input.StateId != nil && *input.StateId > 0 {
		if err := utils.ValidateResourceId[State](ctx, *input.StateId); err != nil {
			return NewReferentialError("state not found", "state_id")
		}
	} else {
		input.StateId = nil
	}
	if strings.TrimSpace(input.Phone) != "" {
		phone, err := utils.NormalizePhoneNumber(input.Phone, utils.CountryCode)
		if err != nil {
			return NewValidationError("invalid phone number", "phone")
		}
		input.Phone = phone
	}
	return nil
}

func (input *NewParty) toInfo() PartyInfo {
	return PartyInfo{
		Name:     input.Name,
		Gstin:    input.Gstin,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
		City:     input.City,
		StateId:  input.StateId,
		Pincode:  input.Pincode,
		IsActive: utils.NewTrueIfNil(input.IsActive),
	}
}

func (input *NewParty) updates() map[string]interface{} {
	m := map[string]interface{}{
		"Name":    input.Name,
		"Gstin":   input.Gstin,
		"Phone":   input.Phone,
		"Email":   input.Email,
		"Address": input.Address,
		"City":    input.City,
		"StateId": input.StateId,
		"Pincode": input.Pincode,
	}
	if input.IsActive != nil {
		m["IsActive"] = *input.IsActive
	}
	return m
}

func partySearch(search string) (string, []interface{}) {
	p := likePattern(search)
	return "(name LIKE ? OR gstin LIKE ? OR phone LIKE ?)", []interface{}{p, p, p}
}
