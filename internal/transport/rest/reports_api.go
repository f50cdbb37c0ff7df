package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	reportsports "github.com/averost/commerce-api/internal/domains/reports/ports"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
)

// ReportAPI serves the read-only reporting surface.
type ReportAPI struct {
	service reportsports.Service
}

func NewReportAPI(service reportsports.Service) ReportAPI {
	return ReportAPI{service: service}
}

type topCustomerResponse struct {
	CustomerID     string          `json:"customerId"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	OrderCount     int64           `json:"orderCount"`
}

// Get /reports/top-customers
func (api *ReportAPI) TopCustomers(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sharederrors.DefaultResponder.BadRequest(c, "limit must be an integer")
			return
		}
		limit = parsed
	}
	customers, err := api.service.TopCustomers(c.Request.Context(), limit)
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	out := make([]topCustomerResponse, 0, len(customers))
	for _, customer := range customers {
		out = append(out, topCustomerResponse{
			CustomerID:     customer.CustomerID,
			Name:           customer.Name,
			Email:          customer.Email,
			TotalPurchases: customer.TotalPurchases,
			OrderCount:     customer.OrderCount,
		})
	}
	c.JSON(http.StatusOK, out)
}

type citySalesResponse struct {
	City       string          `json:"city"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Get /reports/sales-by-city
func (api *ReportAPI) SalesByCity(c *gin.Context) {
	sales, err := api.service.SalesByCity(c.Request.Context())
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	out := make([]citySalesResponse, 0, len(sales))
	for _, row := range sales {
		out = append(out, citySalesResponse{City: row.City, OrderCount: row.OrderCount, Revenue: row.Revenue})
	}
	c.JSON(http.StatusOK, out)
}

type stockReportResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Stock     int64  `json:"stock"`
	Status    string `json:"status"`
}

// Get /reports/stock
func (api *ReportAPI) StockReport(c *gin.Context) {
	rows, err := api.service.StockReport(c.Request.Context())
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	out := make([]stockReportResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, stockReportResponse{
			ProductID: row.ProductID,
			Name:      row.Name,
			SKU:       row.SKU,
			Stock:     row.Stock,
			Status:    row.Status,
		})
	}
	c.JSON(http.StatusOK, out)
}

type monthlySalesResponse struct {
	Month     int             `json:"month"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Get /reports/monthly-sales?year=2025
func (api *ReportAPI) MonthlySales(c *gin.Context) {
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sharederrors.DefaultResponder.BadRequest(c, "year must be an integer")
			return
		}
		year = parsed
	}
	sales, err := api.service.MonthlySales(c.Request.Context(), year)
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	out := make([]monthlySalesResponse, 0, len(sales))
	for _, row := range sales {
		out = append(out, monthlySalesResponse{
			Month:     row.Month,
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   row.Revenue,
		})
	}
	c.JSON(http.StatusOK, out)
}
