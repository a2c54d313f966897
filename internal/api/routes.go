package api

import (
	"net/http" // For http.StatusOK in health check

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/db" // For db.GetFirebaseAuthClient()
	"wallet-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// It's expected that global middleware (Logging, Recovery, CORS) are applied to the `router`
// instance *before* this function is called, typically in `main.go`.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	ledgerService core.LedgerService,
	walletService core.WalletService,
	productService core.ProductService,
	adminService core.AdminService,
	certificateService core.CertificateService,
) {
	// --- Initialize Middleware requiring dependencies ---
	// Get Firebase Auth client. This must be available after db.InitFirestore().
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		// This is a critical failure. The application cannot secure routes.
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirestore() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)
	adminMW := middleware.NewAdminMiddleware(adminService, logger)

	// --- Initialize Handlers ---
	walletHandler := NewWalletHandler(walletService, ledgerService, certificateService)
	marketHandler := NewMarketHandler(productService, ledgerService)
	adminHandler := NewAdminHandler(ledgerService, adminService, productService)

	// --- Define API Route Groups ---
	apiV1 := router.Group("/api/v1")
	{
		// --- Wallet Endpoints ---
		// Everything about the caller's own wallet requires authentication.
		walletRouteGroup := apiV1.Group("/wallet", authMW.VerifyToken())
		{
			walletRouteGroup.GET("/points", walletHandler.GetPoints)
			walletRouteGroup.GET("/redemptions", walletHandler.GetRedemptions)
			walletRouteGroup.GET("/purchases", walletHandler.GetPurchases)
			walletRouteGroup.GET("/grants", walletHandler.GetGrants)
			walletRouteGroup.GET("/certificates", walletHandler.GetCertificates)
			walletRouteGroup.POST("/redeem", walletHandler.RedeemCode)
		}

		// --- Code Preview ---
		// GET /api/v1/codes/{code} - read-only status check before redeeming.
		apiV1.GET("/codes/:code", authMW.VerifyToken(), walletHandler.PreviewCode)

		// --- Marketplace Endpoints ---
		marketRouteGroup := apiV1.Group("/market", authMW.VerifyToken())
		{
			marketRouteGroup.GET("/products", marketHandler.ListProducts)
			marketRouteGroup.POST("/purchase", marketHandler.Purchase)
		}

		// --- Admin Endpoints ---
		// Gated twice: a verified token AND the admin capability.
		adminRouteGroup := apiV1.Group("/admin", authMW.VerifyToken(), adminMW.RequireAdmin())
		{
			adminRouteGroup.POST("/points/grant", adminHandler.GrantPoints)
			adminRouteGroup.POST("/points/adjust", adminHandler.AdjustPoints)

			adminRouteGroup.GET("/users", adminHandler.ListUsers)
			adminRouteGroup.GET("/users/search", adminHandler.SearchUsers)

			productsRouteGroup := adminRouteGroup.Group("/products")
			{
				productsRouteGroup.GET("", adminHandler.ListAllProducts)
				productsRouteGroup.POST("", adminHandler.CreateProduct)
				productsRouteGroup.GET("/:productId", adminHandler.GetProduct)
				productsRouteGroup.PUT("/:productId", adminHandler.UpdateProduct)
				productsRouteGroup.DELETE("/:productId", adminHandler.DeleteProduct)
			}
		}
	}

	// --- General Health Check Endpoint ---
	// This endpoint is typically public and does not go under /api/v1 group.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Wallet backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
