package models_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/testsupport"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func TestPaginateCustomers_SearchAndCount(t *testing.T) {
	mock := testsupport.MockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `customers` WHERE (name LIKE ? OR gstin LIKE ? OR phone LIKE ?)")).
		WithArgs("%acme%", "%acme%", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `customers` WHERE (name LIKE ? OR gstin LIKE ? OR phone LIKE ?) ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Acme Traders").AddRow(2, "Acme Steel"))

	page, err := models.PaginateCustomers(context.Background(), models.ListParams{Search: " acme ", Limit: 2})
	if err != nil {
		t.Fatalf("PaginateCustomers: %v", err)
	}
	if page.Total != 12 || len(page.Items) != 2 || page.Items[1].Name != "Acme Steel" {
		t.Fatalf("unexpected page %+v", page)
	}
	if !page.HasMore() {
		t.Fatal("10 more rows remain")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPaginate_EmptyResultSkipsSelect(t *testing.T) {
	mock := testsupport.MockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `vendors`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := models.PaginateVendors(context.Background(), models.ListParams{Limit: 500, Offset: -3})
	if err != nil {
		t.Fatal(err)
	}
	if page.Limit != 100 || page.Offset != 0 || len(page.Items) != 0 {
		t.Fatalf("limits not clamped: %+v", page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteCategory_RefusedWhileProductsReferenceIt(t *testing.T) {
	mock := testsupport.MockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE `categories`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Pumps"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `products` WHERE category_id = ?")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	_, err := models.DeleteCategory(context.Background(), 3)
	if !errors.Is(err, utils.ErrorReferenced) {
		t.Fatalf("expected referenced error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateCustomer_TagValidationRunsBeforeQueries(t *testing.T) {
	mock := testsupport.MockDB(t)
	_, err := models.CreateCustomer(context.Background(), &models.NewParty{
		Name:    "Acme",
		Gstin:   "NOT-A-GSTIN",
		Pincode: "12",
	})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validator errors, got %v", err)
	}
	fields := utils.ProcessValidationErrors(err)
	if fields["Gstin"] != "gstin" || fields["Pincode"] != "len" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateProduct_RejectsUnknownGstRate(t *testing.T) {
	mock := testsupport.MockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `products` WHERE name = ?")).
		WithArgs("Pump").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	input := &models.NewProduct{Name: "Pump", GstRate: decimal.NewFromInt(7)}
	_, err := models.CreateProduct(context.Background(), input)
	if models.ErrorKindOf(err) != models.ErrorKindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
