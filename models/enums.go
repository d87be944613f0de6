package models

type InvoiceStatus string

const (
	InvoiceStatusOpen      InvoiceStatus = "open"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

type PaymentMode string

const (
	PaymentModeDefault PaymentMode = "default"
	PaymentModeCash    PaymentMode = "cash"
	PaymentModeBank    PaymentMode = "bank"
	PaymentModeUpi     PaymentMode = "upi"
	PaymentModeCheque  PaymentMode = "cheque"
)

func (p PaymentMode) IsValid() bool {
	switch p {
	case PaymentModeDefault, PaymentModeCash, PaymentModeBank, PaymentModeUpi, PaymentModeCheque:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleStaff
}
