package middlewares

import (
	"context"

	"github.com/dshank05/nextjs-sub001/models"
	"github.com/graph-gophers/dataloader/v7"
)

type vendorReader struct{}

func (r *vendorReader) getVendors(ctx context.Context, ids []int) []*dataloader.Result[*models.Vendor] {
	results, err := models.GetVendorsByIds(ctx, ids)
	if err != nil {
		return handleError[*models.Vendor](len(ids), err)
	}
	return generateLoaderResults(results, ids, func(v *models.Vendor) int { return v.ID })
}

func GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	loaders := For(ctx)
	return loaders.vendorLoader.Load(ctx, id)()
}

func GetVendors(ctx context.Context, ids []int) ([]*models.Vendor, []error) {
	loaders := For(ctx)
	return loaders.vendorLoader.LoadMany(ctx, ids)()
}
