package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ordersdomain "github.com/averost/commerce-api/internal/domains/orders/domain"
	ordersports "github.com/averost/commerce-api/internal/domains/orders/ports"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
)

// OrderAPI serves order placement. When a workflow orchestrator is
// wired, placement goes through it so transient rollbacks get retried;
// otherwise the service runs the transaction directly.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

type placeOrderRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
	ProductID  string `json:"productId" binding:"required"`
	Quantity   int64  `json:"quantity" binding:"required"`
	City       string `json:"city" binding:"required"`
}

type orderResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	ProductID  string          `json:"productId"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	City       string          `json:"city"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type receiptResponse struct {
	Order   orderResponse          `json:"order"`
	Product receiptProductSnapshot `json:"product"`
}

type receiptProductSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
	SKU   string          `json:"sku"`
}

// Post /orders
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload placeOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	receipt, err := api.placeOrder(c.Request.Context(), ordersdomain.PurchaseRequest{
		CustomerID: payload.CustomerID,
		ProductID:  payload.ProductID,
		Quantity:   payload.Quantity,
		City:       payload.City,
	})
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receiptResponse{
		Order: orderResponse{
			ID:         receipt.Order.ID,
			CustomerID: receipt.Order.CustomerID,
			ProductID:  receipt.Order.ProductID,
			Quantity:   receipt.Order.Quantity,
			TotalPrice: receipt.Order.TotalPrice,
			City:       receipt.Order.City,
			CreatedAt:  receipt.Order.CreatedAt,
		},
		Product: receiptProductSnapshot{
			ID:    receipt.Product.ID,
			Name:  receipt.Product.Name,
			Price: receipt.Product.Price,
			Stock: receipt.Product.Stock,
			SKU:   receipt.Product.SKU,
		},
	})
}

func (api *OrderAPI) placeOrder(ctx context.Context, req ordersdomain.PurchaseRequest) (*ordersdomain.Receipt, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, req)
	}
	return api.service.PlaceOrder(ctx, req)
}
