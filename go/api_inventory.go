package catalogserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	catalogports "github.com/apexretail/catalog-server/internal/domains/catalog/ports"
)

// absentFilter is the path segment clients send for a filter they do not
// want applied.
const absentFilter = "null"

// InventoryAPI wires HTTP transport with the catalog bounded context.
type InventoryAPI struct {
	service catalogports.Service
}

// NewInventoryAPI creates an InventoryAPI backed by the provided service.
func NewInventoryAPI(service catalogports.Service) InventoryAPI {
	return InventoryAPI{service: service}
}

// inventoryPayload is the POST /inventory body.
type inventoryPayload struct {
	ProductID  int64 `json:"productId"`
	StoreID    int64 `json:"storeId"`
	StockLevel int64 `json:"stockLevel"`
}

// combinedPayload is the PUT /inventory body: the referenced product plus
// the stock row to overwrite.
type combinedPayload struct {
	Product struct {
		ID int64 `json:"id"`
	} `json:"product"`
	Inventory inventoryPayload `json:"inventory"`
}

// productView is the JSON projection of a product in list responses.
type productView struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	SKU      string  `json:"sku"`
}

func toProductViews(products []*catalogdomain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, SKU: p.SKU,
		})
	}
	return views
}

// Post /inventory
// Create a stock row for a (product, store) pair
func (api *InventoryAPI) SaveInventory(c *gin.Context) {
	var payload inventoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	_, err := api.service.CreateInventory(c.Request.Context(), &catalogdomain.Inventory{
		ProductID:  payload.ProductID,
		StoreID:    payload.StoreID,
		StockLevel: payload.StockLevel,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messageEnvelope("Data saved successfully"))
	case errors.Is(err, catalogports.ErrInventoryConflict):
		c.JSON(http.StatusOK, messageEnvelope("Data is already present"))
	default:
		c.JSON(http.StatusOK, messageEnvelope("Error saving data"))
	}
}

// Put /inventory
// Overwrite the stock level of an existing row
func (api *InventoryAPI) UpdateInventory(c *gin.Context) {
	var payload combinedPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	_, err := api.service.UpdateStock(c.Request.Context(), catalogports.UpdateStockInput{
		ProductID:  payload.Product.ID,
		StoreID:    payload.Inventory.StoreID,
		StockLevel: payload.Inventory.StockLevel,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messageEnvelope("Successfully updated product"))
	case errors.Is(err, catalogports.ErrProductNotFound):
		c.JSON(http.StatusOK, messageEnvelope("Product does not exist"))
	case errors.Is(err, catalogports.ErrInventoryNotFound):
		c.JSON(http.StatusOK, messageEnvelope("No data available"))
	default:
		c.JSON(http.StatusOK, messageEnvelope("Error updating inventory"))
	}
}

// Get /inventory/:storeId
// List products stocked at a store
func (api *InventoryAPI) GetAllProducts(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	products, err := api.service.ProductsForStore(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductViews(products)})
}

// Get /inventory/filter/:category/:name/:storeId
// Filter a store's products by category and name substring
func (api *InventoryAPI) FilterProducts(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	filter := catalogports.ProductFilter{}
	if category := c.Param("category"); category != absentFilter {
		filter.Category = &category
	}
	if name := c.Param("name"); name != absentFilter {
		filter.Name = &name
	}
	products, err := api.service.Filter(c.Request.Context(), storeID, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toProductViews(products)})
}

// Get /inventory/search/:name/:storeId
// Search a store's products by name substring
func (api *InventoryAPI) SearchProduct(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	products, err := api.service.SearchByName(c.Request.Context(), storeID, c.Param("name"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toProductViews(products)})
}

// Get /inventory/products/:storeId
// Query-parameter form of the store product filter
func (api *InventoryAPI) QueryProducts(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	filter := catalogports.ProductFilter{}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = &category
	}
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		filter.Name = &name
	}
	products, err := api.service.Filter(c.Request.Context(), storeID, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductViews(products)})
}

// Delete /inventory/:id
// Remove a product's stock rows (and optionally the product itself)
func (api *InventoryAPI) RemoveProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := api.service.RemoveProduct(c.Request.Context(), productID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messageEnvelope("Product deleted successfully"))
	case errors.Is(err, catalogports.ErrProductNotFound):
		c.JSON(http.StatusOK, messageEnvelope("Product not present in database"))
	default:
		c.JSON(http.StatusOK, messageEnvelope("Error deleting product"))
	}
}

// Get /inventory/validate/:quantity/:storeId/:productId
// Check whether the store holds at least the requested quantity
func (api *InventoryAPI) ValidateQuantity(c *gin.Context) {
	quantity, ok := parseCountParam(c, "quantity")
	if !ok {
		return
	}
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	available, err := api.service.CheckAvailability(c.Request.Context(), productID, storeID, quantity)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, available)
}
