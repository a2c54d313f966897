package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/models"
)

// MarketHandler handles the public marketplace surface: the active product
// catalog and point-funded purchases.
type MarketHandler struct {
	productService core.ProductService
	ledgerService  core.LedgerService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(ps core.ProductService, ls core.LedgerService) *MarketHandler {
	return &MarketHandler{productService: ps, ledgerService: ls}
}

// ListProducts handles GET /market/products
func (h *MarketHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), false)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Purchase handles POST /market/purchase
func (h *MarketHandler) Purchase(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.ledgerService.Purchase(c.Request.Context(), userID.(string), req.ProductID, req.Quantity, c.GetString("userEmail"), req.ReceiptID)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Purchase completed successfully", Data: result})
}
