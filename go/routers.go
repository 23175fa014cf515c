package catalogserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the catalog routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(requestCorrelation())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc returns 404 for an unimplemented route.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
}

// requestCorrelation attaches an X-Request-ID to every request, minting one
// when the client did not supply it.
func requestCorrelation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// ApiHandleFunctions bundles the per-resource handler sets.
type ApiHandleFunctions struct {
	StoreAPI     StoreAPI
	InventoryAPI InventoryAPI
	ProductAPI   ProductAPI
	ReviewAPI    ReviewAPI
	CustomerAPI  CustomerAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"AddStore",
			http.MethodPost,
			"/store",
			handleFunctions.StoreAPI.AddStore,
		},
		{
			"ValidateStore",
			http.MethodGet,
			"/store/validate/:storeId",
			handleFunctions.StoreAPI.ValidateStore,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/store/placeOrder",
			handleFunctions.StoreAPI.PlaceOrder,
		},
		{
			"SaveInventory",
			http.MethodPost,
			"/inventory",
			handleFunctions.InventoryAPI.SaveInventory,
		},
		{
			"UpdateInventory",
			http.MethodPut,
			"/inventory",
			handleFunctions.InventoryAPI.UpdateInventory,
		},
		{
			"GetAllProducts",
			http.MethodGet,
			"/inventory/:storeId",
			handleFunctions.InventoryAPI.GetAllProducts,
		},
		{
			"FilterProducts",
			http.MethodGet,
			"/inventory/filter/:category/:name/:storeId",
			handleFunctions.InventoryAPI.FilterProducts,
		},
		{
			"SearchProduct",
			http.MethodGet,
			"/inventory/search/:name/:storeId",
			handleFunctions.InventoryAPI.SearchProduct,
		},
		{
			"QueryProducts",
			http.MethodGet,
			"/inventory/products/:storeId",
			handleFunctions.InventoryAPI.QueryProducts,
		},
		{
			"RemoveProduct",
			http.MethodDelete,
			"/inventory/:id",
			handleFunctions.InventoryAPI.RemoveProduct,
		},
		{
			"ValidateQuantity",
			http.MethodGet,
			"/inventory/validate/:quantity/:storeId/:productId",
			handleFunctions.InventoryAPI.ValidateQuantity,
		},
		{
			"AddProduct",
			http.MethodPost,
			"/product",
			handleFunctions.ProductAPI.AddProduct,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/product",
			handleFunctions.ProductAPI.UpdateProduct,
		},
		{
			"GetProduct",
			http.MethodGet,
			"/product/:id",
			handleFunctions.ProductAPI.GetProduct,
		},
		{
			"GetReviews",
			http.MethodGet,
			"/reviews/:storeId/:productId",
			handleFunctions.ReviewAPI.GetReviews,
		},
		{
			"AddReview",
			http.MethodPost,
			"/reviews",
			handleFunctions.ReviewAPI.AddReview,
		},
		{
			"CreateCustomer",
			http.MethodPost,
			"/customer",
			handleFunctions.CustomerAPI.CreateCustomer,
		},
	}
}
