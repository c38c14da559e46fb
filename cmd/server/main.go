package main

import (
	"log"

	"github.com/elvinq/carbazar/internal/audit"
	"github.com/elvinq/carbazar/internal/config"
	"github.com/elvinq/carbazar/internal/database"
	"github.com/elvinq/carbazar/internal/handler"
	"github.com/elvinq/carbazar/internal/middleware"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/internal/service"
	"github.com/elvinq/carbazar/internal/storage"
	"github.com/elvinq/carbazar/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// First-run reconciliation: the marketplace must always have an admin.
	created, err := database.EnsureAdmin(database.DB, cfg)
	if err != nil {
		logger.Log.Fatal("Admin bootstrap failed", zap.Error(err))
	}
	if created {
		logger.Log.Info("Seed admin created", zap.String("email", cfg.AdminEmail))
	}

	auditLog, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		logger.Log.Fatal("Failed to open audit log", zap.Error(err))
	}
	defer auditLog.Close()

	fileStore := storage.NewFileStore(cfg.UploadDir)

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	carRepo := repository.NewCarRepository(database.DB)
	imageRepo := repository.NewCarImageRepository(database.DB)

	// Services
	guard := service.NewGuard(userRepo)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	carService := service.NewCarService(carRepo, guard, auditLog)
	imageService := service.NewImageService(carRepo, imageRepo, guard, fileStore)
	adminService := service.NewAdminService(userRepo, carRepo, auditLog)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	carHandler := handler.NewCarHandler(carService)
	imageHandler := handler.NewImageHandler(imageService)
	adminHandler := handler.NewAdminHandler(adminService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(cors.Default())

	// Uploaded images are served straight from the upload root.
	router.Static(storage.URLPrefix, fileStore.Root())

	// Public auth routes, rate limited when Redis is configured.
	auth := router.Group("/api/auth")
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		limiter := middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			BlockTime:   cfg.RateLimitBlockTime,
		})
		auth.Use(limiter.Middleware())
	} else {
		logger.Log.Warn("REDIS_URL not set, auth rate limiting disabled")
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Public listing reads
	router.GET("/api/cars", carHandler.GetAll)
	router.GET("/api/cars/:id", carHandler.GetByID)

	// Mutations require a bearer token
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/cars", carHandler.Create)
		protected.PUT("/cars/:id", carHandler.Update)
		protected.DELETE("/cars/:id", carHandler.Delete)

		protected.POST("/cars/:id/images", imageHandler.Upload)
		protected.PUT("/cars/:id/images/reorder", imageHandler.Reorder)
		protected.PUT("/cars/:id/images/:imageId/main", imageHandler.SetMain)
		protected.DELETE("/cars/:id/images/:imageId", imageHandler.Delete)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminMiddleware())
	{
		admin.PUT("/users/:id/block", adminHandler.BlockUser)
		admin.PUT("/cars/:id/active", adminHandler.SetCarActive)
		admin.GET("/cars", adminHandler.GetAllCars)
	}

	logger.Log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(cfg.ServerPort); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}
