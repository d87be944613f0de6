package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/testsupport"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceBody = `{
	"invoice_no": 1001,
	"invoice_date": "2024-04-01",
	"total_taxable_value": 1000,
	"total": 1180,
	"invoiceItems": [{"product": 55, "qty": 2, "rate": 500, "subtotal": 1000}]
}`

var (
	selectProducts = regexp.QuoteMeta("SELECT `id` FROM `products` WHERE id IN (?)")
	insertInvoice  = regexp.QuoteMeta("INSERT INTO `sales_invoices`")
	insertItem     = regexp.QuoteMeta("INSERT INTO `sales_invoice_items`")
	decrementStock = regexp.QuoteMeta("UPDATE `products` SET `stock`=stock - ? WHERE id = ?")
)

func testRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mock := testsupport.MockDB(t)
	return newRouter(config.GetLogger(), func() bool { return true }), mock
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := utils.JwtGenerate(1, "tester", role)
		require.NoError(t, err)
		req.Header.Set("token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateInvoice_Created(t *testing.T) {
	r, mock := testRouter(t)
	mock.ExpectBegin()
	mock.ExpectQuery(selectProducts).WithArgs(55).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
	mock.ExpectExec(insertInvoice).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(insertItem).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(decrementStock).WithArgs(testsupport.DecimalArg("2"), 55).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doRequest(t, r, http.MethodPost, "/invoices", invoiceBody, "staff")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 12, got["id"])
	assert.Equal(t, "1001", got["invoice_no"])
	assert.Equal(t, "1180", got["total"])
	assert.Equal(t, "open", got["status"])
	assert.NotContains(t, got, "items")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_MissingFields(t *testing.T) {
	r, mock := testRouter(t)
	w := doRequest(t, r, http.MethodPost, "/invoices", `{"invoice_date": "2024-04-01"}`, "staff")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "validation_error", body.Status)
	assert.Contains(t, body.Message, "invoice_no, total_taxable_value, total")
	require.Len(t, body.Details, 3)
	assert.Equal(t, "invoice_no", body.Details[0].Field)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_UnknownProduct(t *testing.T) {
	r, mock := testRouter(t)
	mock.ExpectBegin()
	mock.ExpectQuery(selectProducts).WithArgs(55).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	w := doRequest(t, r, http.MethodPost, "/invoices", invoiceBody, "staff")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "referential_error", body.Status)
	assert.Contains(t, body.Message, "product 55")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_UnknownCustomer(t *testing.T) {
	r, mock := testRouter(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `customers` WHERE id = ?")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	body := strings.Replace(invoiceBody, `"invoice_no": 1001,`, `"invoice_no": 1001, "select_customer": "4",`, 1)
	w := doRequest(t, r, http.MethodPost, "/invoices", body, "staff")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	got := decodeError(t, w)
	assert.Equal(t, "referential_error", got.Status)
	assert.Contains(t, got.Message, "customer 4")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_DuplicateNumber(t *testing.T) {
	r, mock := testRouter(t)
	mock.ExpectBegin()
	mock.ExpectQuery(selectProducts).WithArgs(55).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
	mock.ExpectExec(insertInvoice).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1001' for key 'invoice_no'"})
	mock.ExpectRollback()

	w := doRequest(t, r, http.MethodPost, "/invoices", invoiceBody, "staff")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "persistence_error", body.Status)
	assert.Contains(t, body.Diagnostic, "duplicate invoice number")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_MalformedJSON(t *testing.T) {
	r, _ := testRouter(t)
	w := doRequest(t, r, http.MethodPost, "/invoices", `{"invoice_no": [1]}`, "staff")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r, _ := testRouter(t)
	for _, path := range []string{"/invoices", "/purchases", "/customers", "/dashboard"} {
		w := doRequest(t, r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestGetInvoice_BadIdAndNotFound(t *testing.T) {
	r, mock := testRouter(t)
	w := doRequest(t, r, http.MethodGet, "/invoices/abc", "", "staff")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sales_invoices` WHERE `sales_invoices`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w = doRequest(t, r, http.MethodGet, "/invoices/5", "", "staff")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategory_ConflictAndAdminOnly(t *testing.T) {
	r, mock := testRouter(t)

	w := doRequest(t, r, http.MethodDelete, "/categories/3", "", "staff")
	assert.Equal(t, http.StatusForbidden, w.Code)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE `categories`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Pumps"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `products` WHERE category_id = ?")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w = doRequest(t, r, http.MethodDelete, "/categories/3", "", "admin")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListInvoices_AttachesCustomerNames(t *testing.T) {
	r, mock := testRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `sales_invoices` WHERE fy = ?")).
		WithArgs("2024-25").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sales_invoices` WHERE fy = ? ORDER BY invoice_date DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_no", "customer_id"}).
			AddRow(2, "1002", 4).
			AddRow(1, "1001", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `customers` WHERE id IN (?)")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(4, "Acme Traders"))

	w := doRequest(t, r, http.MethodGet, "/invoices?fy=2024-25", "", "staff")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Items []struct {
			InvoiceNo    string `json:"invoice_no"`
			CustomerName string `json:"customer_name"`
		} `json:"items"`
		Total   int64 `json:"total"`
		HasMore bool  `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Acme Traders", got.Items[0].CustomerName)
	assert.Equal(t, "", got.Items[1].CustomerName)
	assert.EqualValues(t, 2, got.Total)
	assert.False(t, got.HasMore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadinessGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(config.GetLogger(), func() bool { return false })

	w := doRequest(t, r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, r, http.MethodPost, "/login", `{}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLogin_RejectsBlankCredentials(t *testing.T) {
	r, mock := testRouter(t)
	w := doRequest(t, r, http.MethodPost, "/login", `{"username": " ", "password": ""}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_RecoversMiddlewarePanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := newRouter(config.GetLogger(), func() bool {
		calls++
		if calls == 1 {
			panic("readiness check exploded")
		}
		return true
	})

	w := doRequest(t, r, http.MethodPost, "/login", `{}`, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	w = doRequest(t, r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
