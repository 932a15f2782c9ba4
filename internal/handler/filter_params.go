package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

// filterFromQuery reads the shared list-view filter parameters. Absent
// parameters come back empty and leave that dimension unconstrained.
func filterFromQuery(c *gin.Context) (models.FilterConfig, string) {
	category := c.Query("type")
	if category == "" {
		category = c.Query("category")
	}
	cfg := models.FilterConfig{
		Status:   c.Query("status"),
		Category: category,
		Priority: c.Query("priority"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
	}
	return cfg, c.Query("q")
}

func pageFromQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	return page, pageSize
}
