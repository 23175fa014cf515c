package catalogserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewsdomain "github.com/apexretail/catalog-server/internal/domains/reviews/domain"
	reviewsports "github.com/apexretail/catalog-server/internal/domains/reviews/ports"
)

// ReviewAPI wires HTTP transport with the reviews bounded context.
type ReviewAPI struct {
	service reviewsports.Service
}

// NewReviewAPI creates a ReviewAPI backed by the provided service.
func NewReviewAPI(service reviewsports.Service) ReviewAPI {
	return ReviewAPI{service: service}
}

// reviewPayload is the POST /reviews body.
type reviewPayload struct {
	StoreID    int64  `json:"storeId"`
	ProductID  int64  `json:"productId"`
	CustomerID int64  `json:"customerId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// Get /reviews/:storeId/:productId
// List reviews for a product at a store
func (api *ReviewAPI) GetReviews(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	views, err := api.service.ListReviews(c.Request.Context(), storeID, productID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": views})
}

// Post /reviews
// Add a review for a product at a store
func (api *ReviewAPI) AddReview(c *gin.Context) {
	var payload reviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	_, err := api.service.AddReview(c.Request.Context(), &reviewsdomain.Review{
		StoreID:    payload.StoreID,
		ProductID:  payload.ProductID,
		CustomerID: payload.CustomerID,
		Rating:     payload.Rating,
		Comment:    payload.Comment,
	})
	if err != nil {
		c.JSON(http.StatusOK, messageEnvelope("Error adding review"))
		return
	}
	c.JSON(http.StatusOK, messageEnvelope("Review added successfully"))
}
