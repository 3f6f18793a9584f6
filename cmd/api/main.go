package main

import (
	"os"
	"os/signal"
	"syscall"

	"magazine-pro-api/internal/handler"
	"magazine-pro-api/internal/middleware"
	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/repository"
	"magazine-pro-api/internal/service"
	"magazine-pro-api/internal/ws"
	"magazine-pro-api/pkg/database"
	"magazine-pro-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	logger.Init("magazine-pro-api", os.Getenv("ENVIRONMENT") != "production")
	logger.SetLevel(os.Getenv("LOG_LEVEL"))
	if envErr != nil {
		logger.Logger.Warn().Msg(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(&model.Role{}, &model.User{}, &model.Product{}, &model.Batch{}, &model.AuditLog{})

	// 3. Seed default roles and the admin account
	seedRolesAndAdmin(db)

	// 4. Setup WebSocket Hub (the per-table change feed)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Optional Redis for the per-user scan history cache
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		logger.Logger.Info().Str("addr", addr).Msg("Scan history cache enabled")
	}

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(productRepo, batchRepo, auditRepo, db, wsHub)
	adminService := service.NewAdminService(productRepo, batchRepo, auditRepo, db, wsHub)
	dashService := service.NewDashboardService(productRepo, batchRepo, auditRepo)
	authService := service.NewAuthService(userRepo, roleRepo)
	scanHistory := service.NewScanHistory(rdb)

	ledgerHandler := handler.NewLedgerHandler(ledgerService, scanHistory)
	adminHandler := handler.NewAdminHandler(adminService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Magazine Pro API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Product catalog
	protected.Get("/products", ledgerHandler.GetProducts)
	protected.Post("/products", ledgerHandler.CreateProduct)
	protected.Get("/products/barcode/:code", ledgerHandler.GetProductByBarcode)
	protected.Get("/products/:id", ledgerHandler.GetProduct)
	protected.Put("/products/:id", ledgerHandler.UpdateProduct)
	protected.Delete("/products/:id", ledgerHandler.DeleteProduct)
	protected.Post("/products/:id/adjust", ledgerHandler.AdjustStock)

	// Scanning
	protected.Post("/scans", ledgerHandler.Scan)
	protected.Get("/scans/recent", ledgerHandler.GetScanHistory)

	// Audit trail
	protected.Get("/audit-logs", ledgerHandler.GetAuditLogs)

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)
	protected.Get("/dashboard/expiring", dashHandler.GetExpiringBatches)

	// Admin surface (server-side role gate)
	admin := protected.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.Post("/import", adminHandler.Import)
	admin.Get("/export", adminHandler.Export)
	admin.Post("/clear", adminHandler.ClearAll)

	// WebSocket change feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Logger.Info().Msg("Server exited")
}

// seedRolesAndAdmin creates the default roles and the admin user if they
// don't exist
func seedRolesAndAdmin(db *gorm.DB) {
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := roleRepo.SeedDefaults(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to seed roles")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}

	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return
	}

	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Admin role missing, skipping admin seed")
		return
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	admin := &model.User{
		Email:    adminEmail,
		FullName: "Administrator",
		RoleID:   &adminRole.ID,
		IsActive: true,
	}
	if err := admin.SetPassword(adminPassword); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to hash admin password")
		return
	}

	if err := userRepo.Create(admin); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to create admin user")
	} else {
		logger.Logger.Info().Str("email", adminEmail).Msg("Admin user created")
	}
}
