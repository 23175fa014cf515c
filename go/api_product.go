package catalogserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	catalogports "github.com/apexretail/catalog-server/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with product registration.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// productPayload is the POST and PUT /product body.
type productPayload struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	SKU      string  `json:"sku"`
}

func (p productPayload) toDomain() *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		SKU:      p.SKU,
	}
}

// Post /product
// Register a new product
func (api *ProductAPI) AddProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	payload.ID = 0
	_, err := api.service.CreateProduct(c.Request.Context(), payload.toDomain())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messageEnvelope("Product added successfully"))
	case errors.Is(err, catalogports.ErrProductConflict):
		c.JSON(http.StatusOK, messageEnvelope("Product already present in database"))
	default:
		c.JSON(http.StatusOK, messageEnvelope("Error adding product"))
	}
}

// Put /product
// Update an existing product
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	_, err := api.service.UpdateProduct(c.Request.Context(), payload.toDomain())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messageEnvelope("Product updated successfully"))
	case errors.Is(err, catalogports.ErrProductNotFound):
		c.JSON(http.StatusOK, messageEnvelope("Product not present in database"))
	default:
		c.JSON(http.StatusOK, messageEnvelope("Error updating product"))
	}
}

// Get /product/:id
// Fetch a single product
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if errors.Is(err, catalogports.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, productView{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
		SKU:      product.SKU,
	})
}
