package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/models"
)

// WalletHandler handles the authenticated user's own wallet: balance,
// history, certificates and code redemption.
type WalletHandler struct {
	walletService      core.WalletService
	ledgerService      core.LedgerService
	certificateService core.CertificateService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ws core.WalletService, ls core.LedgerService, cs core.CertificateService) *WalletHandler {
	return &WalletHandler{walletService: ws, ledgerService: ls, certificateService: cs}
}

// mapLedgerErrorToStatus maps errors from core.LedgerService to HTTP status
// codes and ErrorResponse. Not-found conditions are 404, validation problems
// 400, and state conflicts (a code already spent, stock gone, balance too
// low) 409 so clients can distinguish "retry won't help" from "bad input".
func mapLedgerErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrCodeNotFound),
		errors.Is(err, core.ErrProductNotFound),
		errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrEmptyCode),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCodeAmount),
		errors.Is(err, core.ErrInvalidPrice),
		errors.Is(err, core.ErrInvalidProduct):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrCodeAlreadyUsed),
		errors.Is(err, core.ErrCodeInactive),
		errors.Is(err, core.ErrCodeExpired),
		errors.Is(err, core.ErrAlreadyRedeemed),
		errors.Is(err, core.ErrProductInactive),
		errors.Is(err, core.ErrInsufficientStock),
		errors.Is(err, core.ErrInsufficientPoints),
		errors.Is(err, core.ErrDuplicateReceipt),
		errors.Is(err, core.ErrWouldGoNegative):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrNotAuthenticated):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: err.Error()}
	default:
		log.Printf("Internal Server Error: %v", err) // Log the actual error for server-side review
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// historyLimit parses the optional ?limit= query parameter. Invalid or
// missing values fall through to the service default.
func historyLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

// GetPoints handles GET /wallet/points
func (h *WalletHandler) GetPoints(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	balance, err := h.walletService.Balance(c.Request.Context(), userID.(string))
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// GetRedemptions handles GET /wallet/redemptions
func (h *WalletHandler) GetRedemptions(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	redemptions, err := h.walletService.Redemptions(c.Request.Context(), userID.(string), historyLimit(c))
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, redemptions)
}

// GetPurchases handles GET /wallet/purchases
func (h *WalletHandler) GetPurchases(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	purchases, err := h.walletService.Purchases(c.Request.Context(), userID.(string), historyLimit(c))
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// GetGrants handles GET /wallet/grants
func (h *WalletHandler) GetGrants(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	grants, err := h.walletService.AdminGrants(c.Request.Context(), userID.(string), historyLimit(c))
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, grants)
}

// GetCertificates handles GET /wallet/certificates
func (h *WalletHandler) GetCertificates(c *gin.Context) {
	email := c.GetString("userEmail")
	if email == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authenticated email not found in context"})
		return
	}

	certificates, err := h.certificateService.GetByEmail(c.Request.Context(), email)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, certificates)
}

// RedeemCode handles POST /wallet/redeem
func (h *WalletHandler) RedeemCode(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.ledgerService.Redeem(c.Request.Context(), userID.(string), req.Code, c.GetString("userEmail"))
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Code redeemed successfully", Data: result})
}

// PreviewCode handles GET /codes/:code
func (h *WalletHandler) PreviewCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Code is required"})
		return
	}

	info, err := h.ledgerService.PreviewCode(c.Request.Context(), code)
	if err != nil {
		mapLedgerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
