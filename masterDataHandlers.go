package main

import (
	"context"
	"net/http"

	"github.com/dshank05/nextjs-sub001/middlewares"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/gin-gonic/gin"
)

// resource bundles the model operations behind one master-data route group.
type resource[T, I any] struct {
	create func(context.Context, *I) (*T, error)
	update func(context.Context, int, *I) (*T, error)
	remove func(context.Context, int) (*T, error)
	get    func(context.Context, int) (*T, error)
	list   gin.HandlerFunc
}

func registerResource[T, I any](g *gin.RouterGroup, path string, res resource[T, I]) {
	rg := g.Group(path)
	rg.POST("", func(c *gin.Context) {
		var input I
		if !bindJSON(c, &input) {
			return
		}
		result, err := res.create(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	})
	rg.GET("", res.list)
	rg.GET("/:id", func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		result, err := res.get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
	rg.PUT("/:id", func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input I
		if !bindJSON(c, &input) {
			return
		}
		result, err := res.update(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
	rg.DELETE("/:id", middlewares.RequireAdmin(), func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		result, err := res.remove(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func pageHandler[T any](paginate func(context.Context, models.ListParams) (*models.Page[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if !bindQuery(c, &params) {
			return
		}
		page, err := paginate(c.Request.Context(), params)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newListResponse(page, page.Items))
	}
}

func allHandler[T any](list func(context.Context) ([]*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ProductFilter
		if !bindQuery(c, &filter) {
			return
		}
		page, err := models.PaginateProducts(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newListResponse(page, page.Items))
	}
}

func registerMasterData(g *gin.RouterGroup) {
	registerResource(g, "/customers", resource[models.Customer, models.NewParty]{
		create: models.CreateCustomer,
		update: models.UpdateCustomer,
		remove: models.DeleteCustomer,
		get:    models.GetCustomer,
		list:   pageHandler(models.PaginateCustomers),
	})
	registerResource(g, "/vendors", resource[models.Vendor, models.NewParty]{
		create: models.CreateVendor,
		update: models.UpdateVendor,
		remove: models.DeleteVendor,
		get:    models.GetVendor,
		list:   pageHandler(models.PaginateVendors),
	})
	registerResource(g, "/products", resource[models.Product, models.NewProduct]{
		create: models.CreateProduct,
		update: models.UpdateProduct,
		remove: models.DeleteProduct,
		get:    models.GetProduct,
		list:   listProductsHandler(),
	})
	registerResource(g, "/categories", resource[models.Category, models.NewCategory]{
		create: models.CreateCategory,
		update: models.UpdateCategory,
		remove: models.DeleteCategory,
		get:    models.GetCategory,
		list:   allHandler(models.ListCategories),
	})
	registerResource(g, "/states", resource[models.State, models.NewState]{
		create: models.CreateState,
		update: models.UpdateState,
		remove: models.DeleteState,
		get:    models.GetState,
		list:   allHandler(models.ListStates),
	})
}
