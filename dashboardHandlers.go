package main

import (
	"net/http"

	"github.com/dshank05/nextjs-sub001/models/reports"
	"github.com/gin-gonic/gin"
)

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := reports.GetDashboardStats(c.Request.Context(), c.Query("fy"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func monthlySalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		months, err := reports.GetMonthlySales(c.Request.Context(), c.Query("fy"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": months})
	}
}
