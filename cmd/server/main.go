package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/oreshkin/stockwise/internal/cart"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/handler"
	"github.com/oreshkin/stockwise/internal/middleware"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/service"
	"github.com/oreshkin/stockwise/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting stockwise service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Item{},
		&entity.Order{},
		&entity.OrderLine{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_items_category ON items(category)",
		"CREATE INDEX IF NOT EXISTS idx_items_name ON items(name)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration warning", zap.String("sql", sql), zap.Error(err))
		}
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg, rdb, zapLogger)
	carts := cart.NewStore(rdb, zapLogger)

	var images *storage.ImageStore
	if cfg.MinIO.Endpoint != "" {
		images, err = storage.NewImageStore(context.Background(), cfg.MinIO)
		if err != nil {
			zapLogger.Warn("MinIO unavailable, image uploads disabled", zap.Error(err))
		}
	}

	handlers := handler.NewHandlers(services, carts, images, cfg)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// Legacy unversioned endpoints kept for the web client.
	r.GET("/api/health", h.Auth.Health)
	r.POST("/api/auth/vk", h.Auth.LoginVK)
	r.POST("/api/auth/refresh", h.Auth.Refresh)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/vk", h.Auth.LoginVK)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			categories := authorized.Group("/categories")
			{
				categories.GET("", h.Category.List)
				categories.GET("/:id", h.Category.Get)
				categories.POST("", h.Category.Create)
				categories.DELETE("/:id", middleware.RequireRole(entity.RoleSuperAdmin), h.Category.Delete)
			}

			items := authorized.Group("/items")
			{
				items.GET("", h.Inventory.List)
				items.GET("/export", h.Inventory.Export)
				items.GET("/:id", h.Inventory.Get)
				items.POST("", h.Inventory.Create)
				items.PUT("/:id", h.Inventory.Update)
				items.DELETE("/:id", middleware.RequireRole(entity.RoleSuperAdmin), h.Inventory.Delete)
			}

			cartGroup := authorized.Group("/cart")
			{
				cartGroup.GET("", h.Cart.Get)
				cartGroup.DELETE("", h.Cart.Clear)
				cartGroup.POST("/items", h.Cart.Add)
				cartGroup.PUT("/items/:id", h.Cart.UpdateQuantity)
				cartGroup.DELETE("/items/:id", h.Cart.Remove)
			}

			orders := authorized.Group("/orders")
			{
				orders.POST("", h.Order.Checkout)
				orders.GET("", h.Order.List)
				orders.GET("/:id", h.Order.Get)
				orders.PATCH("/:id/status", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.ChangeStatus)
				orders.POST("/:id/complete", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.Complete)
				orders.PUT("/:id/notes", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.UpdateNotes)
				orders.PUT("/:id", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.Edit)
			}

			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.Me)
				users.PUT("/me", h.User.UpdateMe)
				users.GET("", middleware.RequireRole(entity.RoleSuperAdmin), h.User.List)
				users.PUT("/:id/role", middleware.RequireRole(entity.RoleSuperAdmin), h.User.SetRole)
			}

			upload := authorized.Group("/upload")
			{
				upload.POST("/image", h.Upload.Upload)
			}
		}
	}
}
