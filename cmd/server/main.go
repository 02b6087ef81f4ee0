package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleethub/internal/config"
	"fleethub/internal/handlers"
	"fleethub/internal/middleware"
	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/repositories/mongodb"
	"fleethub/internal/services"
	"fleethub/pkg/cache"
	"fleethub/pkg/database"
	"fleethub/pkg/logger"
	"fleethub/pkg/storage"
	"fleethub/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Redis cache is optional; the vendor repository degrades to
	// uncached reads when it is absent.
	var vendorCache mongodb.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			defer redisCache.Close()
			vendorCache = redisCache
		}
	}

	storageProvider, err := newStorageProvider(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage provider")
	}

	// Repositories
	vendorRepo := mongodb.NewVendorRepository(db.Database, vendorCache, log)
	userRepo := mongodb.NewUserRepository(db.Database)
	driverRepo := mongodb.NewDriverRepository(db.Database)
	vehicleRepo := mongodb.NewVehicleRepository(db.Database)
	txRunner := mongodb.NewTransactionRunner(db.Client)

	if err := seedRootVendor(context.Background(), vendorRepo, userRepo, log); err != nil {
		log.WithError(err).Fatal("Failed to seed root vendor")
	}

	// Services
	authService := services.NewAuthService(userRepo, vendorRepo, cfg.Security.JWTSecret, log)
	vendorService := services.NewVendorService(vendorRepo, userRepo, driverRepo, vehicleRepo, txRunner, log)
	driverService := services.NewDriverService(driverRepo, vehicleRepo, vendorRepo, txRunner, log)
	vehicleService := services.NewVehicleService(vehicleRepo, driverRepo, vendorRepo, txRunner, log)
	assignmentService := services.NewAssignmentService(driverRepo, vehicleRepo, vendorRepo, txRunner, log)
	documentService := services.NewDocumentService(driverRepo, vehicleRepo, vendorRepo, storageProvider, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	vendorHandler := handlers.NewVendorHandler(vendorService)
	driverHandler := handlers.NewDriverHandler(driverService, assignmentService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, assignmentService)
	documentHandler := handlers.NewDocumentHandler(documentService)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.WithError(err).Fatal("Failed to set trusted proxies")
		}
	}

	authenticate := middleware.Authenticate(userRepo, vendorRepo, cfg.Security.JWTSecret, log)

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, authenticate)
		routes.SetupVendorRoutes(v1, vendorHandler, authenticate)
		routes.SetupDriverRoutes(v1, driverHandler, documentHandler, authenticate)
		routes.SetupVehicleRoutes(v1, vehicleHandler, documentHandler, authenticate)
		routes.SetupComplianceRoutes(v1, documentHandler, authenticate)
	}

	// Locally stored documents are served straight from disk
	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func newStorageProvider(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return storage.NewS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case "local", "":
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// seedRootVendor creates the root of the vendor hierarchy and its admin user
// on first boot. Subsequent boots are no-ops.
func seedRootVendor(ctx context.Context, vendorRepo interfaces.VendorRepository, userRepo interfaces.UserRepository, log *logger.Logger) error {
	adminEmail := os.Getenv("ROOT_ADMIN_EMAIL")
	adminPassword := os.Getenv("ROOT_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Debug("Root admin credentials not configured, skipping seed")
		return nil
	}

	if _, err := userRepo.GetByEmail(ctx, adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return err
	}

	rootName := os.Getenv("ROOT_VENDOR_NAME")
	if rootName == "" {
		rootName = "Head Office"
	}

	vendor := &models.Vendor{
		Name:        rootName,
		Level:       models.VendorLevelSuper,
		LevelValue:  models.LevelValueSuper,
		Ancestors:   []primitive.ObjectID{},
		Permissions: models.FullPermissions(),
	}
	if err := vendorRepo.Create(ctx, vendor); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleSuperVendor,
		VendorID:     vendor.ID,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"vendor_id": vendor.ID.Hex(),
		"email":     adminEmail,
	}).Info("Seeded root vendor and admin user")
	return nil
}
