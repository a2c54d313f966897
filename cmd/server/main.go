package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wallet-backend-go/internal/api"
	"wallet-backend-go/internal/config"
	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/middleware"
	"wallet-backend-go/pkg/cache"
	"wallet-backend-go/pkg/events"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	// Using NewDevelopment for more verbose, human-readable output during development.
	// For production, consider zap.NewProduction() or a custom configuration.
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync() // Flushes buffer, if any. IMPORTANT for buffered loggers.
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (includes Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	// --- 4. Retrieve initialized clients ---
	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()

	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firestore and Firebase Auth clients retrieved successfully.")

	// --- 5. Initialize Repositories and the Ledger Store ---
	ledgerStore := db.NewFirestoreLedgerStore(firestoreClient)
	historyRepo := db.NewFirestoreHistoryRepository(firestoreClient)
	productRepo := db.NewFirestoreProductRepository(firestoreClient)
	adminRepo := db.NewFirestoreAdminRepository(firestoreClient)
	certificateRepo := db.NewFirestoreCertificateRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize Optional Integrations (cache, event queue) ---
	// Redis is optional; without it the catalog cache runs in-process.
	var productCache cache.Cache
	if appConfig.RedisAddr != "" {
		productCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.String("address", appConfig.RedisAddr), zap.Error(err))
		}
		zapLogger.Info("Redis cache connected", zap.String("address", appConfig.RedisAddr))
	} else {
		productCache = cache.NewMemoryCache()
		zapLogger.Warn("REDIS_ADDR not configured; using in-process product cache.")
	}

	// RabbitMQ is optional; without it ledger events are dropped.
	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		eventPublisher, err = events.NewRabbitMQPublisher(events.NewRabbitMQPublisherConfig{
			URL: appConfig.RabbitMQURL,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer eventPublisher.Close()
		zapLogger.Info("RabbitMQ event publisher connected.")
	} else {
		eventPublisher = events.NewNopPublisher()
		zapLogger.Warn("RABBITMQ_URL not configured; ledger events will not be published.")
	}

	// --- 7. Initialize Services ---
	ledgerService := core.NewLedgerService(ledgerStore, eventPublisher, zapLogger)
	walletService := core.NewWalletService(historyRepo)
	productService := core.NewProductService(productRepo, productCache, appConfig.ProductCacheTTL(), zapLogger)
	adminService := core.NewAdminService(adminRepo, certificateRepo)
	certificateService := core.NewCertificateService(certificateRepo)
	zapLogger.Info("Core services initialized successfully.")

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode) // Default or "debug"
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	// Using gin.New() to have control over the middleware stack (e.g., not using gin.DefaultLogger if using custom Zap logger).
	router := gin.New()
	zapLogger.Info("Gin engine created.")

	// --- 9. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))      // Log every request; should be early.
	router.Use(middleware.RecoveryMiddleware(zapLogger)) // Recover from panics; should be after logger, before other handlers.

	// Apply CORS middleware only if ClientURL is configured, otherwise log a warning.
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		zapLogger,
		ledgerService,
		walletService,
		productService,
		adminService,
		certificateService,
	)
	// SetupRoutes logs its own success message.

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	// Goroutine for starting the server, so it doesn't block graceful shutdown logic.
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received on the quitChannel.
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Give active connections time to finish before the server is forced to close.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
