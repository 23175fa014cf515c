package catalogserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/apexretail/catalog-server/internal/domains/orders/domain"
	ordersports "github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

// CustomerAPI wires HTTP transport with customer registration.
type CustomerAPI struct {
	service ordersports.Service
}

// NewCustomerAPI creates a CustomerAPI backed by the orders service.
func NewCustomerAPI(service ordersports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// customerPayload is the POST /customer body.
type customerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Post /customer
// Register a customer ahead of order placement
func (api *CustomerAPI) CreateCustomer(c *gin.Context) {
	var payload customerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.CreateCustomer(c.Request.Context(), &ordersdomain.Customer{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
	})
	if err != nil {
		c.JSON(http.StatusOK, messageEnvelope("Error creating customer"))
		return
	}
	c.JSON(http.StatusOK, messageEnvelope(fmt.Sprintf("Customer created successfully with ID: %d", saved.ID)))
}
