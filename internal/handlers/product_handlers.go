package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshmart/grocery-api/internal/service"
)

//
// --- Catalog Handlers (public) ---
//

// ProductListQuery holds the query string of GET /products.
type ProductListQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Skip     int    `form:"skip,default=0" binding:"min=0"`
	Limit    int    `form:"limit,default=100" binding:"min=1,max=100"`
}

// ListProducts is the handler for GET /products.
func (h *Handlers) ListProducts(c *gin.Context) {
	var query ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.Catalog.List(c.Request.Context(), service.ProductQuery{
		Category: query.Category,
		Search:   query.Search,
		Skip:     query.Skip,
		Limit:    query.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct is the handler for GET /products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	productID, ok := paramID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.Catalog.Get(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProductsByCategory is the handler for GET /products/category/:name.
func (h *Handlers) ListProductsByCategory(c *gin.Context) {
	products, err := h.Catalog.ListByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListCategories is the handler for GET /categories.
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
