package reports

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/testsupport"
	"github.com/shopspring/decimal"
)

func TestGetMonthlySales_BucketsByMonth(t *testing.T) {
	mock := testsupport.MockDB(t)
	apr := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Unix()
	may := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC).Unix()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT invoice_date, total_taxable_value, total_tax, total FROM `sales_invoices`")).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_date", "total_taxable_value", "total_tax", "total"}).
			AddRow(apr, "1000", "180", "1180").
			AddRow(apr, "500", "90", "590").
			AddRow(may, "100", "5", "105"))

	months, err := GetMonthlySales(context.Background(), "2024-25")
	if err != nil {
		t.Fatalf("GetMonthlySales: %v", err)
	}
	if len(months) != 12 || months[0].Month != "2024-04" || months[11].Month != "2025-03" {
		t.Fatalf("unexpected buckets %v", months)
	}
	if months[0].InvoiceCount != 2 || !months[0].Total.Equal(decimal.NewFromInt(1770)) {
		t.Fatalf("april %+v", months[0])
	}
	if months[1].InvoiceCount != 1 || !months[2].Total.IsZero() {
		t.Fatalf("may/june %+v %+v", months[1], months[2])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetDashboardStats_RejectsBadFy(t *testing.T) {
	testsupport.MockDB(t)
	_, err := GetDashboardStats(context.Background(), "this-year")
	if models.ErrorKindOf(err) != models.ErrorKindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
