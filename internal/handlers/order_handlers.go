package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshmart/grocery-api/internal/metrics"
	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/service"
)

//
// --- Order Handlers (owner only) ---
//

// PlaceOrderInput is the body of POST /orders.
type PlaceOrderInput struct {
	Items                []models.CartLine `json:"items" binding:"required,min=1,dive"`
	DeliveryStreet       string            `json:"delivery_street" binding:"required,max=255"`
	DeliveryCity         string            `json:"delivery_city" binding:"required,max=100"`
	DeliveryState        string            `json:"delivery_state" binding:"required,max=100"`
	DeliveryPostalCode   string            `json:"delivery_postal_code" binding:"required,max=20"`
	DeliveryCountry      string            `json:"delivery_country" binding:"max=100"`
	DeliveryInstructions *string           `json:"delivery_instructions"`
	PaymentMethod        string            `json:"payment_method" binding:"max=20"`
}

// PlaceOrder is the handler for POST /orders.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.PlaceOrder(c.Request.Context(), user.ID, service.Checkout{
		Address: models.DeliveryAddress{
			Street:       input.DeliveryStreet,
			City:         input.DeliveryCity,
			State:        input.DeliveryState,
			PostalCode:   input.DeliveryPostalCode,
			Country:      input.DeliveryCountry,
			Instructions: input.DeliveryInstructions,
		},
		Items:         input.Items,
		PaymentMethod: input.PaymentMethod,
	})
	metrics.RecordOrder(metrics.OperationPlace, outcome(err))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders is the handler for GET /orders.
func (h *Handlers) ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.Orders.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder is the handler for GET /orders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrder(c.Request.Context(), user.ID, orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder is the handler for POST /orders/:id/cancel.
func (h *Handlers) CancelOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.Orders.CancelOrder(c.Request.Context(), user.ID, orderID)
	metrics.RecordOrder(metrics.OperationCancel, outcome(err))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case service.KindOf(err) != 0:
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
