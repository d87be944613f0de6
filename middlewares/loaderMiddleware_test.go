package middlewares

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dshank05/nextjs-sub001/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLoader_BatchesAndOrders(t *testing.T) {
	mock := testsupport.MockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `customers` WHERE id IN (?,?,?)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Beta Steel").AddRow(1, "Acme Traders"))

	ctx := WithLoaders(context.Background(), NewLoaders())
	customers, errs := GetCustomers(ctx, []int{1, 2, 9})
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, customers, 3)
	assert.Equal(t, "Acme Traders", customers[0].Name)
	assert.Equal(t, "Beta Steel", customers[1].Name)
	assert.Nil(t, customers[2])

	// cached by the loader, no second query
	again, err := GetCustomer(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Beta Steel", again.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
