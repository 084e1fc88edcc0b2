package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/service"
)

//
// --- Address Handlers (owner only) ---
//

// CreateAddressInput is the body of POST /addresses.
type CreateAddressInput struct {
	Label                string  `json:"label" binding:"required,max=50"`
	Street               string  `json:"street" binding:"required,max=255"`
	City                 string  `json:"city" binding:"required,max=100"`
	State                string  `json:"state" binding:"required,max=100"`
	PostalCode           string  `json:"postal_code" binding:"required,max=20"`
	Country              string  `json:"country" binding:"max=100"`
	IsDefault            bool    `json:"is_default"`
	DeliveryInstructions *string `json:"delivery_instructions"`
}

// ListAddresses is the handler for GET /addresses.
func (h *Handlers) ListAddresses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	addresses, err := h.Addresses.List(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// CreateAddress is the handler for POST /addresses.
func (h *Handlers) CreateAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address, err := h.Addresses.Create(c.Request.Context(), user.ID, service.AddressInput{
		Label:                input.Label,
		Street:               input.Street,
		City:                 input.City,
		State:                input.State,
		PostalCode:           input.PostalCode,
		Country:              input.Country,
		IsDefault:            input.IsDefault,
		DeliveryInstructions: input.DeliveryInstructions,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

// GetAddress is the handler for GET /addresses/:id.
func (h *Handlers) GetAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := paramID(c, "id", "address")
	if !ok {
		return
	}

	address, err := h.Addresses.Get(c.Request.Context(), user.ID, addressID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// UpdateAddress is the handler for PUT /addresses/:id. Only the fields
// present in the body change.
func (h *Handlers) UpdateAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := paramID(c, "id", "address")
	if !ok {
		return
	}

	var patch models.AddressPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address, err := h.Addresses.Update(c.Request.Context(), user.ID, addressID, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// DeleteAddress is the handler for DELETE /addresses/:id.
func (h *Handlers) DeleteAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := paramID(c, "id", "address")
	if !ok {
		return
	}

	if err := h.Addresses.Delete(c.Request.Context(), user.ID, addressID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDefaultAddress is the handler for POST /addresses/:id/set-default.
func (h *Handlers) SetDefaultAddress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := paramID(c, "id", "address")
	if !ok {
		return
	}

	address, err := h.Addresses.SetDefault(c.Request.Context(), user.ID, addressID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}
