package catalogserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/apexretail/catalog-server/internal/domains/catalog/application"
	catalogdomain "github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	ordermemory "github.com/apexretail/catalog-server/internal/domains/orders/adapters/memory"
	ordersapp "github.com/apexretail/catalog-server/internal/domains/orders/application"
	ordersdomain "github.com/apexretail/catalog-server/internal/domains/orders/domain"
	reviewcustomers "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/customers"
	reviewmemory "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/memory"
	reviewsapp "github.com/apexretail/catalog-server/internal/domains/reviews/application"
)

type testServer struct {
	engine    *gin.Engine
	stores    *catalogmemory.StoreRepository
	products  *catalogmemory.ProductRepository
	inventory *catalogmemory.InventoryRepository
	customers *ordermemory.CustomerRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := catalogmemory.NewStoreRepository()
	inventory := catalogmemory.NewInventoryRepository()
	products := catalogmemory.NewProductRepository(inventory)
	customers := ordermemory.NewCustomerRepository()

	catalogService := catalogapp.NewService(stores, products, inventory)
	orderService := ordersapp.NewService(
		ordermemory.NewRepository(stores, products, inventory, customers),
		customers,
		ordersapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
	)
	reviewService := reviewsapp.NewService(reviewmemory.NewRepository(), reviewcustomers.NewDirectory(customers))

	handlers := ApiHandleFunctions{
		StoreAPI:     NewStoreAPI(catalogService, orderService, nil),
		InventoryAPI: NewInventoryAPI(catalogService),
		ProductAPI:   NewProductAPI(catalogService),
		ReviewAPI:    NewReviewAPI(reviewService),
		CustomerAPI:  NewCustomerAPI(orderService),
	}
	engine := NewRouterWithGinEngine(gin.New(), handlers)
	return &testServer{
		engine:    engine,
		stores:    stores,
		products:  products,
		inventory: inventory,
		customers: customers,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope["message"]
}

func (s *testServer) seedCatalog(t *testing.T) (storeID, productID int64) {
	t.Helper()
	ctx := context.Background()
	store, err := s.stores.Save(ctx, &catalogdomain.Store{Name: "Downtown", Address: "12 Main St"})
	require.NoError(t, err)
	product, err := s.products.Save(ctx, &catalogdomain.Product{
		Name: "Espresso Beans", Category: "Coffee", Price: 12.5, SKU: "SKU-1001",
	})
	require.NoError(t, err)
	_, err = s.inventory.Save(ctx, &catalogdomain.Inventory{
		ProductID: product.ID, StoreID: store.ID, StockLevel: 10,
	})
	require.NoError(t, err)
	return store.ID, product.ID
}

func TestAddStoreEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/store", `{"name":"Downtown","address":"12 Main St"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Store created successfully with ID: 1", s.message(t, rec))

	rec = s.do(t, http.MethodPost, "/store", `{"name":"","address":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Error creating store", s.message(t, rec))
}

func TestValidateStoreEndpoint(t *testing.T) {
	s := newTestServer(t)
	storeID, _ := s.seedCatalog(t)

	rec := s.do(t, http.MethodGet, "/store/validate/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
	require.Equal(t, int64(1), storeID)

	rec = s.do(t, http.MethodGet, "/store/validate/42", "")
	require.Equal(t, "false", strings.TrimSpace(rec.Body.String()))
}

func TestSaveInventoryEndpoint(t *testing.T) {
	s := newTestServer(t)
	storeID, productID := s.seedCatalog(t)
	_ = storeID

	// Pair already holds a row from seeding.
	rec := s.do(t, http.MethodPost, "/inventory", `{"productId":1,"storeId":1,"stockLevel":5}`)
	require.Equal(t, "Data is already present", s.message(t, rec))

	// Fresh pair.
	rec = s.do(t, http.MethodPost, "/store", `{"name":"Uptown","address":"9 Hill Rd"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/inventory", `{"productId":1,"storeId":2,"stockLevel":5}`)
	require.Equal(t, "Data saved successfully", s.message(t, rec))

	// Negative stock violates the domain invariant.
	rec = s.do(t, http.MethodPost, "/inventory", `{"productId":1,"storeId":3,"stockLevel":-1}`)
	require.Equal(t, "Error saving data", s.message(t, rec))
	_ = productID
}

func TestUpdateInventoryEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedCatalog(t)

	rec := s.do(t, http.MethodPut, "/inventory",
		`{"product":{"id":99},"inventory":{"productId":99,"storeId":1,"stockLevel":3}}`)
	require.Equal(t, "Product does not exist", s.message(t, rec))

	rec = s.do(t, http.MethodPut, "/inventory",
		`{"product":{"id":1},"inventory":{"productId":1,"storeId":77,"stockLevel":3}}`)
	require.Equal(t, "No data available", s.message(t, rec))

	rec = s.do(t, http.MethodPut, "/inventory",
		`{"product":{"id":1},"inventory":{"productId":1,"storeId":1,"stockLevel":3}}`)
	require.Equal(t, "Successfully updated product", s.message(t, rec))

	row, err := s.inventory.FindByProductAndStore(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(3), row.StockLevel)
}

func TestListAndFilterEndpoints(t *testing.T) {
	s := newTestServer(t)
	storeID, _ := s.seedCatalog(t)

	ctx := context.Background()
	decaf, err := s.products.Save(ctx, &catalogdomain.Product{
		Name: "Decaf Blend", Category: "Coffee", Price: 9, SKU: "SKU-1002",
	})
	require.NoError(t, err)
	_, err = s.inventory.Save(ctx, &catalogdomain.Inventory{
		ProductID: decaf.ID, StoreID: storeID, StockLevel: 4,
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/inventory/1", "")
	var listed struct {
		Products []productView `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Products, 2)

	rec = s.do(t, http.MethodGet, "/inventory/filter/null/Espresso/1", "")
	var filtered struct {
		Product []productView `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered.Product, 1)
	require.Equal(t, "Espresso Beans", filtered.Product[0].Name)

	rec = s.do(t, http.MethodGet, "/inventory/filter/Coffee/null/1", "")
	filtered.Product = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered.Product, 2)

	// Substring match is case-sensitive.
	rec = s.do(t, http.MethodGet, "/inventory/search/espresso/1", "")
	filtered.Product = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Empty(t, filtered.Product)

	rec = s.do(t, http.MethodGet, "/inventory/search/Espresso/1", "")
	filtered.Product = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered.Product, 1)

	rec = s.do(t, http.MethodGet, "/inventory/products/1?category=Coffee&name=Decaf", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Products, 1)
	require.Equal(t, "Decaf Blend", listed.Products[0].Name)
}

func TestRemoveProductEndpoint(t *testing.T) {
	s := newTestServer(t)
	storeID, productID := s.seedCatalog(t)

	rec := s.do(t, http.MethodDelete, "/inventory/42", "")
	require.Equal(t, "Product not present in database", s.message(t, rec))

	rec = s.do(t, http.MethodDelete, "/inventory/1", "")
	require.Equal(t, "Product deleted successfully", s.message(t, rec))

	_, err := s.inventory.FindByProductAndStore(context.Background(), productID, storeID)
	require.Error(t, err)
}

func TestValidateQuantityEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedCatalog(t)

	rec := s.do(t, http.MethodGet, "/inventory/validate/10/1/1", "")
	require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodGet, "/inventory/validate/11/1/1", "")
	require.Equal(t, "false", strings.TrimSpace(rec.Body.String()))

	// Absent pair reads as unavailable.
	rec = s.do(t, http.MethodGet, "/inventory/validate/1/9/9", "")
	require.Equal(t, "false", strings.TrimSpace(rec.Body.String()))

	// Zero quantity is a valid check and any existing row covers it.
	rec = s.do(t, http.MethodGet, "/inventory/validate/0/1/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodGet, "/inventory/validate/0/9/9", "")
	require.Equal(t, "false", strings.TrimSpace(rec.Body.String()))
}

func TestPlaceOrderEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedCatalog(t)

	body := `{"storeId":1,"customer":{"name":"Ada","email":"ada@example.com"},"items":[{"productId":1,"quantity":4}]}`
	rec := s.do(t, http.MethodPost, "/store/placeOrder", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Order placed successfully", s.message(t, rec))

	row, err := s.inventory.FindByProductAndStore(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(6), row.StockLevel)

	// Oversell surfaces under the Error key and leaves stock alone.
	body = `{"storeId":1,"customer":{"name":"Ada","email":"ada@example.com"},"items":[{"productId":1,"quantity":7}]}`
	rec = s.do(t, http.MethodPost, "/store/placeOrder", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Contains(t, envelope, "Error")

	row, err = s.inventory.FindByProductAndStore(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(6), row.StockLevel)
}

func TestPlaceOrderEndpointIdempotency(t *testing.T) {
	s := newTestServer(t)
	s.seedCatalog(t)

	body := `{"storeId":1,"customer":{"name":"Ada","email":"ada@example.com"},"items":[{"productId":1,"quantity":2}]}`
	req := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/store/placeOrder", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Idempotency-Key", "replay-1")
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, r)
		return rec
	}

	require.Equal(t, "Order placed successfully", s.message(t, req()))
	require.Equal(t, "Order placed successfully", s.message(t, req()))

	row, err := s.inventory.FindByProductAndStore(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(8), row.StockLevel)
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/product",
		`{"name":"Espresso Beans","category":"Coffee","price":12.5,"sku":"SKU-1001"}`)
	require.Equal(t, "Product added successfully", s.message(t, rec))

	rec = s.do(t, http.MethodPost, "/product",
		`{"name":"Espresso Beans","category":"Coffee","price":12.5,"sku":"SKU-2002"}`)
	require.Equal(t, "Product already present in database", s.message(t, rec))

	rec = s.do(t, http.MethodPut, "/product",
		`{"id":1,"name":"Espresso Beans","category":"Coffee","price":13.0,"sku":"SKU-1001"}`)
	require.Equal(t, "Product updated successfully", s.message(t, rec))

	rec = s.do(t, http.MethodPut, "/product",
		`{"id":99,"name":"Ghost","category":"None","price":1,"sku":"SKU-9999"}`)
	require.Equal(t, "Product not present in database", s.message(t, rec))

	rec = s.do(t, http.MethodGet, "/product/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view productView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, 13.0, view.Price)

	rec = s.do(t, http.MethodGet, "/product/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.seedCatalog(t)

	ada, err := s.customers.Save(context.Background(), &ordersdomain.Customer{
		Name: "Ada", Email: "ada@example.com",
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/reviews",
		`{"storeId":1,"productId":1,"customerId":1,"rating":4,"comment":"solid"}`)
	require.Equal(t, "Review added successfully", s.message(t, rec))
	require.Equal(t, int64(1), ada.ID)

	// Reviewer id 99 was never registered.
	rec = s.do(t, http.MethodPost, "/reviews",
		`{"storeId":1,"productId":1,"customerId":99,"rating":2,"comment":"meh"}`)
	require.Equal(t, "Review added successfully", s.message(t, rec))

	rec = s.do(t, http.MethodPost, "/reviews",
		`{"storeId":1,"productId":1,"customerId":1,"rating":6}`)
	require.Equal(t, "Error adding review", s.message(t, rec))

	rec = s.do(t, http.MethodGet, "/reviews/1/1", "")
	var listed struct {
		Reviews []struct {
			Rating       int    `json:"rating"`
			Comment      string `json:"comment"`
			CustomerName string `json:"customerName"`
		} `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Reviews, 2)
	require.Equal(t, "Ada", listed.Reviews[0].CustomerName)
	require.Equal(t, "Unknown", listed.Reviews[1].CustomerName)
}

func TestCustomerEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/customer", `{"name":"Ada","email":"ada@example.com"}`)
	require.Equal(t, "Customer created successfully with ID: 1", s.message(t, rec))

	rec = s.do(t, http.MethodPost, "/customer", `{"email":"no-name@example.com"}`)
	require.Equal(t, "Error creating customer", s.message(t, rec))
}

func TestMalformedJSONReturnsProblem(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/store", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestRequestCorrelationHeader(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/store/validate/1", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/store/validate/1", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
