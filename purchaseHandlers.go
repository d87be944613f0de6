package main

import (
	"net/http"

	"github.com/dshank05/nextjs-sub001/middlewares"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/gin-gonic/gin"
)

type purchaseInvoiceRow struct {
	*models.PurchaseInvoice
	VendorName string `json:"vendor_name"`
}

func createPurchaseInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchaseInvoice
		if !bindJSON(c, &input) {
			return
		}
		invoice, err := models.CreatePurchaseInvoice(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, invoice)
	}
}

func listPurchaseInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.PurchaseInvoiceFilter
		if !bindQuery(c, &filter) {
			return
		}
		ctx := c.Request.Context()
		page, err := models.PaginatePurchaseInvoices(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}

		ids := make([]int, 0, len(page.Items))
		for _, inv := range page.Items {
			ids = append(ids, inv.VendorId)
		}
		ids = utils.UniqueSlice(ids)
		vendors, errs := middlewares.GetVendors(ctx, ids)
		names := make(map[int]string, len(ids))
		for i, vendor := range vendors {
			if errs != nil && errs[i] != nil {
				respondError(c, errs[i])
				return
			}
			if vendor != nil {
				names[ids[i]] = vendor.Name
			}
		}

		rows := make([]purchaseInvoiceRow, 0, len(page.Items))
		for _, inv := range page.Items {
			rows = append(rows, purchaseInvoiceRow{PurchaseInvoice: inv, VendorName: names[inv.VendorId]})
		}
		c.JSON(http.StatusOK, newListResponse(page, rows))
	}
}

func getPurchaseInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		invoice, err := models.GetPurchaseInvoice(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}
