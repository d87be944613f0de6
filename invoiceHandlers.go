package main

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/dshank05/nextjs-sub001/middlewares"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/models/reports"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type salesInvoiceRow struct {
	*models.SalesInvoice
	CustomerName string `json:"customer_name"`
}

func createSalesInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSalesInvoice
		if !bindJSON(c, &input) {
			return
		}
		invoice, err := models.CreateSalesInvoice(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, invoice)
	}
}

func listSalesInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.SalesInvoiceFilter
		if !bindQuery(c, &filter) {
			return
		}
		ctx := c.Request.Context()
		page, err := models.PaginateSalesInvoices(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}

		ids := make([]int, 0, len(page.Items))
		for _, inv := range page.Items {
			if inv.CustomerId != nil {
				ids = append(ids, *inv.CustomerId)
			}
		}
		names := make(map[int]string)
		ids = utils.UniqueSlice(ids)
		customers, errs := middlewares.GetCustomers(ctx, ids)
		for i, customer := range customers {
			if errs != nil && errs[i] != nil {
				respondError(c, errs[i])
				return
			}
			if customer != nil {
				names[ids[i]] = customer.Name
			}
		}

		rows := make([]salesInvoiceRow, 0, len(page.Items))
		for _, inv := range page.Items {
			row := salesInvoiceRow{SalesInvoice: inv}
			if inv.CustomerId != nil {
				row.CustomerName = names[*inv.CustomerId]
			}
			rows = append(rows, row)
		}
		c.JSON(http.StatusOK, newListResponse(page, rows))
	}
}

func getSalesInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		invoice, err := models.GetSalesInvoice(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

func updateSalesInvoiceStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.SalesInvoiceStatusInput
		if !bindJSON(c, &input) {
			return
		}
		invoice, err := models.UpdateSalesInvoiceStatus(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

func exportSalesRegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fy := c.Query("fy")
		var buf bytes.Buffer
		if err := reports.ExportSalesRegister(c.Request.Context(), fy, &buf); err != nil {
			respondError(c, err)
			return
		}
		if fy == "" {
			fy = "current"
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-register-%s.xlsx"`, fy))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
