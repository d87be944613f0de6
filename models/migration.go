package models

import (
	"github.com/dshank05/nextjs-sub001/config"
)

func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&State{}, &Category{},
		&Customer{}, &Vendor{}, &Product{},
		&SalesInvoice{}, &SalesInvoiceItem{},
		&InvoiceBillingDetail{}, &InvoiceShippingDetail{}, &InvoiceTransportDetail{},
		&PurchaseInvoice{}, &PurchaseInvoiceItem{},
		&User{},
	)
}

// MigrateUsers is the subset needed by the provisioning command.
func MigrateUsers() error {
	return config.GetDB().AutoMigrate(&User{})
}
