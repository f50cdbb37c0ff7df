package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/averost/commerce-api/internal/domains/catalog/domain"
	catalogports "github.com/averost/commerce-api/internal/domains/catalog/ports"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
)

// ProductAPI serves the catalog CRUD surface.
type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

type createProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
	SKU         string          `json:"sku" binding:"required"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	Category    *string          `json:"category"`
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category,omitempty"`
	SKU         string          `json:"sku"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		SKU:         p.SKU,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Post /products
func (api *ProductAPI) Create(c *gin.Context) {
	var payload createProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	product, err := api.service.Create(c.Request.Context(), catalogdomain.NewProductInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Category:    payload.Category,
		SKU:         payload.SKU,
	})
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// Get /products
func (api *ProductAPI) List(c *gin.Context) {
	products, err := api.service.List(c.Request.Context())
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	c.JSON(http.StatusOK, out)
}

// Get /products/id/:id
func (api *ProductAPI) GetByID(c *gin.Context) {
	product, err := api.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// Get /products/sku/:sku
func (api *ProductAPI) GetBySKU(c *gin.Context) {
	product, err := api.service.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// Put /products/:id
func (api *ProductAPI) Update(c *gin.Context) {
	var payload updateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	product, err := api.service.Update(c.Request.Context(), c.Param("id"), catalogdomain.ProductUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Category:    payload.Category,
	})
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// Delete /products/:id
func (api *ProductAPI) Delete(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
