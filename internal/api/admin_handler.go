package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/models"
)

// AdminHandler handles the privileged surface: manual point grants and
// adjustments, user lookup, and product catalog management. All routes are
// expected to sit behind both the auth and admin middleware.
type AdminHandler struct {
	ledgerService  core.LedgerService
	adminService   core.AdminService
	productService core.ProductService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ls core.LedgerService, as core.AdminService, ps core.ProductService) *AdminHandler {
	return &AdminHandler{ledgerService: ls, adminService: as, productService: ps}
}

// GrantPoints handles POST /admin/points/grant
func (h *AdminHandler) GrantPoints(c *gin.Context) {
	var req models.GrantPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.ledgerService.Grant(c.Request.Context(), req.Email, req.Amount, c.GetString("userEmail"), req.Note)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Points granted successfully", Data: result})
}

// AdjustPoints handles POST /admin/points/adjust
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	var req models.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.ledgerService.Adjust(c.Request.Context(), req.Email, req.Delta, c.GetString("userEmail"), req.Note)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Points adjusted successfully", Data: result})
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	max := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			max = parsed
		}
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), max)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// SearchUsers handles GET /admin/users/search?q=
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'q' is required"})
		return
	}

	users, err := h.adminService.SearchUsers(c.Request.Context(), term, 0)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListAllProducts handles GET /admin/products. Unlike the marketplace
// listing this one includes inactive products.
func (h *AdminHandler) ListAllProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), true)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /admin/products/:productId
func (h *AdminHandler) GetProduct(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:productId
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:productId
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
