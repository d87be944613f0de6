package middlewares

import (
	"context"

	"github.com/dshank05/nextjs-sub001/models"
	"github.com/graph-gophers/dataloader/v7"
)

type customerReader struct{}

func (r *customerReader) getCustomers(ctx context.Context, ids []int) []*dataloader.Result[*models.Customer] {
	results, err := models.GetCustomersByIds(ctx, ids)
	if err != nil {
		return handleError[*models.Customer](len(ids), err)
	}
	return generateLoaderResults(results, ids, func(c *models.Customer) int { return c.ID })
}

func GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	loaders := For(ctx)
	return loaders.customerLoader.Load(ctx, id)()
}

func GetCustomers(ctx context.Context, ids []int) ([]*models.Customer, []error) {
	loaders := For(ctx)
	return loaders.customerLoader.LoadMany(ctx, ids)()
}
