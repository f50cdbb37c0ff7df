package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averost/commerce-api/internal/clients/http/content"
	catalogmemory "github.com/averost/commerce-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/averost/commerce-api/internal/domains/catalog/application"
	ordersmemory "github.com/averost/commerce-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/averost/commerce-api/internal/domains/orders/application"
	ordersdomain "github.com/averost/commerce-api/internal/domains/orders/domain"
	recordsmemory "github.com/averost/commerce-api/internal/domains/records/adapters/memory"
	recordsapp "github.com/averost/commerce-api/internal/domains/records/application"
	reportsdomain "github.com/averost/commerce-api/internal/domains/reports/domain"
	usersmemory "github.com/averost/commerce-api/internal/domains/users/adapters/memory"
	usersapp "github.com/averost/commerce-api/internal/domains/users/application"
)

type fakeReportsService struct {
	topCustomers []reportsdomain.TopCustomer
}

func (f *fakeReportsService) TopCustomers(ctx context.Context, limit int) ([]reportsdomain.TopCustomer, error) {
	return f.topCustomers, nil
}

func (f *fakeReportsService) SalesByCity(ctx context.Context) ([]reportsdomain.CitySales, error) {
	return []reportsdomain.CitySales{{City: "Jakarta", OrderCount: 2, Revenue: decimal.NewFromInt(500)}}, nil
}

func (f *fakeReportsService) StockReport(ctx context.Context) ([]reportsdomain.StockReportRow, error) {
	return []reportsdomain.StockReportRow{
		{ProductID: "p1", Name: "Widget", SKU: "W-1", Stock: 0, Status: reportsdomain.StockStatusOut},
	}, nil
}

func (f *fakeReportsService) MonthlySales(ctx context.Context, year int) ([]reportsdomain.MonthlyProductSales, error) {
	return nil, nil
}

type fakeContentGateway struct {
	posts []content.Post
	err   error
}

func (f *fakeContentGateway) GetPosts(ctx context.Context) ([]content.Post, error) {
	return f.posts, f.err
}

func (f *fakeContentGateway) CreatePost(ctx context.Context, post content.NewPost) (*content.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &content.Post{UserID: post.UserID, ID: 99, Title: post.Title, Body: post.Body}, nil
}

type testEnv struct {
	router *gin.Engine
	orders *ordersmemory.Coordinator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	coordinator := ordersmemory.NewCoordinator()
	orderService := ordersapp.NewService(coordinator)
	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(), time.Hour)
	catalogService := catalogapp.NewService(catalogmemory.NewRepository())
	recordService := recordsapp.NewService(recordsmemory.NewGenerator())

	handlers := NewHandlers(
		userService,
		catalogService,
		orderService,
		nil,
		recordService,
		&fakeReportsService{},
		&fakeContentGateway{posts: []content.Post{{ID: 1, Title: "hello"}}},
		HealthCheckFunc(func(ctx context.Context) error { return nil }),
	)
	return &testEnv{
		router: NewRouter(handlers, userService),
		orders: coordinator,
	}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "ana@example.com",
		"username": "ana",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/login/email", "", gin.H{
		"email":    "ana@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/data"},
		{http.MethodPost, "/orders"},
		{http.MethodGet, "/products"},
		{http.MethodGet, "/reports/stock"},
		{http.MethodGet, "/external/posts"},
	}
	for _, p := range paths {
		rec := env.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}

	rec := env.do(t, http.MethodGet, "/data", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/auth/login/email", "", gin.H{
		"email":    "ana@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginByUsername(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/auth/login/username", "", gin.H{
		"username": "ana",
		"password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_DuplicateEmailIs409(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "ana@example.com",
		"username": "other",
		"password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceOrder_Statuses(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	env.orders.SeedProduct(ordersdomain.ProductSnapshot{
		ID: "prod-1", Name: "Widget", Price: decimal.NewFromInt(100), Stock: 5, SKU: "W-1",
	})
	env.orders.SeedCustomer("cust-1")

	rec := env.do(t, http.MethodPost, "/orders", token, gin.H{
		"customerId": "cust-1", "productId": "prod-1", "quantity": 3, "city": "Jakarta",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt struct {
		Order struct {
			TotalPrice decimal.Decimal `json:"totalPrice"`
		} `json:"order"`
		Product struct {
			Stock int64 `json:"stock"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.True(t, receipt.Order.TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, int64(2), receipt.Product.Stock)

	// Remaining stock 2 cannot satisfy quantity 3.
	rec = env.do(t, http.MethodPost, "/orders", token, gin.H{
		"customerId": "cust-1", "productId": "prod-1", "quantity": 3, "city": "Jakarta",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/orders", token, gin.H{
		"customerId": "cust-1", "productId": "ghost", "quantity": 1, "city": "Jakarta",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/orders", token, gin.H{
		"customerId": "cust-1", "productId": "prod-1", "quantity": -1, "city": "Jakarta",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/products", token, gin.H{
		"name": "Keyboard", "price": "129.90", "stock": 10, "sku": "KB-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(t, http.MethodPost, "/products", token, gin.H{
		"name": "Other", "price": "10.00", "stock": 1, "sku": "KB-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/id/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/sku/KB-01", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/products/"+created.ID, token, gin.H{"stock": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Stock int64 `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, int64(3), updated.Stock)

	rec = env.do(t, http.MethodDelete, "/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/id/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordAllocationAndListing(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	for i := 1; i <= 3; i++ {
		rec := env.do(t, http.MethodPost, "/data", token, gin.H{
			"payload": gin.H{"n": i},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var allocated struct {
			UniqueCode    string `json:"uniqueCode"`
			RunningNumber int64  `json:"runningNumber"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &allocated))
		assert.Equal(t, fmt.Sprintf("DATA-%06d", i), allocated.UniqueCode)
	}

	rec := env.do(t, http.MethodGet, "/data", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []struct {
		RunningNumber int64 `json:"runningNumber"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, int64(3), listed[0].RunningNumber)
}

func TestReportsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodGet, "/reports/top-customers?limit=5", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/reports/top-customers?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/reports/sales-by-city", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/reports/stock", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stock []struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stock))
	require.Len(t, stock, 1)
	assert.Equal(t, "Out of Stock", stock[0].Status)

	rec = env.do(t, http.MethodGet, "/reports/monthly-sales?year=2025", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentProxy(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodGet, "/external/posts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []content.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)

	rec = env.do(t, http.MethodPost, "/external/posts", token, gin.H{
		"userId": 7, "title": "draft", "body": "text",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/external/posts", token, gin.H{"userId": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentProxy_UpstreamFailureIs502(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(), time.Hour)
	handlers := NewHandlers(
		userService,
		catalogapp.NewService(catalogmemory.NewRepository()),
		ordersapp.NewService(ordersmemory.NewCoordinator()),
		nil,
		recordsapp.NewService(recordsmemory.NewGenerator()),
		&fakeReportsService{},
		&fakeContentGateway{err: errors.New("connection refused")},
		nil,
	)
	env := &testEnv{router: NewRouter(handlers, userService)}
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodGet, "/external/posts", token, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
