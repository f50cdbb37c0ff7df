// Package rest wires the HTTP surface of the commerce API with gin.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/averost/commerce-api/internal/domains/catalog/ports"
	ordersports "github.com/averost/commerce-api/internal/domains/orders/ports"
	recordsports "github.com/averost/commerce-api/internal/domains/records/ports"
	reportsports "github.com/averost/commerce-api/internal/domains/reports/ports"
	usersports "github.com/averost/commerce-api/internal/domains/users/ports"
)

// Handlers groups the per-context APIs mounted on the router.
type Handlers struct {
	UserAPI    UserAPI
	ProductAPI ProductAPI
	OrderAPI   OrderAPI
	RecordAPI  RecordAPI
	ReportAPI  ReportAPI
	ContentAPI ContentAPI
	Health     HealthAPI
}

// NewHandlers builds the handler set from the bounded-context services.
func NewHandlers(
	users usersports.Service,
	catalog catalogports.Service,
	orders ordersports.Service,
	orderWorkflows ordersports.WorkflowOrchestrator,
	records recordsports.Service,
	reports reportsports.Service,
	content ContentGateway,
	health HealthChecker,
) Handlers {
	return Handlers{
		UserAPI:    NewUserAPI(users),
		ProductAPI: NewProductAPI(catalog),
		OrderAPI:   NewOrderAPI(orders, orderWorkflows),
		RecordAPI:  NewRecordAPI(records),
		ReportAPI:  NewReportAPI(reports),
		ContentAPI: NewContentAPI(content),
		Health:     NewHealthAPI(health),
	}
}

// NewRouter mounts all routes on a fresh gin engine. Auth endpoints and
// the health probe stay public; everything else sits behind the session
// middleware.
func NewRouter(handlers Handlers, users usersports.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handlers, users)
}

// NewRouterWithGinEngine mounts the routes on an existing engine, used
// by provider contract tests that supply their own.
func NewRouterWithGinEngine(router *gin.Engine, handlers Handlers, users usersports.Service) *gin.Engine {
	router.GET("/health", handlers.Health.Check)
	router.POST("/auth/register", handlers.UserAPI.Register)
	router.POST("/auth/login/email", handlers.UserAPI.LoginByEmail)
	router.POST("/auth/login/username", handlers.UserAPI.LoginByUsername)

	protected := router.Group("/", RequireSession(users))
	{
		protected.GET("/data", handlers.RecordAPI.List)
		protected.POST("/data", handlers.RecordAPI.Allocate)

		protected.GET("/external/posts", handlers.ContentAPI.GetPosts)
		protected.POST("/external/posts", handlers.ContentAPI.CreatePost)

		protected.POST("/orders", handlers.OrderAPI.PlaceOrder)

		protected.GET("/reports/top-customers", handlers.ReportAPI.TopCustomers)
		protected.GET("/reports/sales-by-city", handlers.ReportAPI.SalesByCity)
		protected.GET("/reports/stock", handlers.ReportAPI.StockReport)
		protected.GET("/reports/monthly-sales", handlers.ReportAPI.MonthlySales)

		protected.GET("/products", handlers.ProductAPI.List)
		protected.POST("/products", handlers.ProductAPI.Create)
		protected.GET("/products/sku/:sku", handlers.ProductAPI.GetBySKU)
		protected.GET("/products/id/:id", handlers.ProductAPI.GetByID)
		protected.PUT("/products/:id", handlers.ProductAPI.Update)
		protected.DELETE("/products/:id", handlers.ProductAPI.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	return router
}
