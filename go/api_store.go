package catalogserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	catalogports "github.com/apexretail/catalog-server/internal/domains/catalog/ports"
	ordersdomain "github.com/apexretail/catalog-server/internal/domains/orders/domain"
	ordersports "github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

// StoreAPI wires HTTP transport with store registration and order placement.
type StoreAPI struct {
	catalog   catalogports.Service
	orders    ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewStoreAPI creates a StoreAPI backed by the provided services. workflows
// may be nil, in which case orders are placed inline.
func NewStoreAPI(catalog catalogports.Service, orders ordersports.Service, workflows ordersports.WorkflowOrchestrator) StoreAPI {
	return StoreAPI{catalog: catalog, orders: orders, workflows: workflows}
}

// storePayload is the POST /store body.
type storePayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// orderLinePayload is one requested item of an order.
type orderLinePayload struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// placeOrderPayload is the POST /store/placeOrder body. Either customerId
// names an existing customer or the customer block identifies one by email.
type placeOrderPayload struct {
	StoreID    int64 `json:"storeId"`
	CustomerID int64 `json:"customerId"`
	Customer   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Items []orderLinePayload `json:"items"`
}

// Post /store
// Register a new store
func (api *StoreAPI) AddStore(c *gin.Context) {
	var payload storePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.catalog.CreateStore(c.Request.Context(), &catalogdomain.Store{
		Name:    payload.Name,
		Address: payload.Address,
	})
	if err != nil {
		c.JSON(http.StatusOK, messageEnvelope("Error creating store"))
		return
	}
	c.JSON(http.StatusOK, messageEnvelope(fmt.Sprintf("Store created successfully with ID: %d", saved.ID)))
}

// Get /store/validate/:storeId
// Check whether a store exists
func (api *StoreAPI) ValidateStore(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	exists, err := api.catalog.StoreExists(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, exists)
}

// Post /store/placeOrder
// Place an order against a store's inventory
func (api *StoreAPI) PlaceOrder(c *gin.Context) {
	var payload placeOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	lines := make([]ordersdomain.Line, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, ordersdomain.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	input := ordersports.PlaceOrderInput{
		Draft: ordersdomain.Draft{
			StoreID:    payload.StoreID,
			CustomerID: payload.CustomerID,
			Customer: ordersdomain.CustomerDetails{
				Name:  payload.Customer.Name,
				Email: payload.Customer.Email,
				Phone: payload.Customer.Phone,
			},
			Lines: lines,
		},
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}
	if _, err := api.placeOrder(c, input); err != nil {
		c.JSON(http.StatusOK, gin.H{"Error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messageEnvelope("Order placed successfully"))
}

func (api *StoreAPI) placeOrder(c *gin.Context, input ordersports.PlaceOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(c.Request.Context(), input)
	}
	return api.orders.PlaceOrder(c.Request.Context(), input)
}
