package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/repository"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack Category API
// @version         1.0
// @description     Manages the hierarchy of expense categories used to classify spending.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, &logger.FileSink{
		Path:       appConfig.LogFile,
		MaxSizeMB:  appConfig.LogMaxSizeMB,
		MaxBackups: appConfig.LogMaxBackups,
		MaxAgeDays: appConfig.LogMaxAgeDays,
	})
	defer logger.Sync()
	log := logger.Get()

	store, auditService, closeStore, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer closeStore()

	validator.Register()

	categoryHandler := handlers.NewCategoryHandler(services.NewCategoryService(store), auditService)

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": appConfig.DBDriver})
	})

	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())
	categoryHandler.RegisterRoutes(protected)

	log.Infow("starting fintrack category service", "port", appConfig.Port, "driver", appConfig.DBDriver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// openStore builds the category store and audit sink for the configured
// driver. The returned func releases the database connection, if any.
func openStore(appConfig *config.Config) (repository.CategoryStore, services.AuditServicer, func(), error) {
	if appConfig.DBDriver == config.DriverMemory {
		logger.Get().Warn("using in-memory category store; data is lost on exit")
		return repository.NewMemoryCategoryStore(), services.NewLogAuditService(), func() {}, nil
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return nil, nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	closeStore := func() {
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnw("failed to close database", "error", err)
		}
	}
	db := dbManager.DB()
	return repository.NewGormCategoryStore(db), services.NewAuditService(db), closeStore, nil
}
