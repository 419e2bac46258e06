package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SantiagoPrada3/jass-sub000/internal/config"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/handler"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/service"
	"github.com/SantiagoPrada3/jass-sub000/internal/middleware"
	"github.com/SantiagoPrada3/jass-sub000/internal/shared/legacy"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
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

	zapLogger.Info("Starting jass-admin service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Organization{},
		&entity.Zone{},
		&entity.Street{},
		&entity.User{},
		&entity.Incident{},
		&entity.IncidentResolution{},
		&entity.MaterialUsed{},
		&entity.ProductCategory{},
		&entity.Supplier{},
		&entity.Product{},
		&entity.InventoryMovement{},
		&entity.Purchase{},
		&entity.PurchaseItem{},
		&entity.DistributionSchedule{},
		&entity.WaterBox{},
		&entity.Payment{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	if err := seedAdminUser(db, zapLogger); err != nil {
		zapLogger.Warn("Admin seed failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	minioClient := initMinio(cfg.MinIO, zapLogger)

	repos := repository.NewRepositories(db)

	authSvc := service.NewAuthService(repos.User, rdb, cfg)
	orgSvc := service.NewOrganizationService(repos.Organization, repos.Zone, repos.Street)
	userSvc := service.NewUserService(repos.User)
	incidentSvc := service.NewIncidentService(db, repos.Incident, repos.Resolution, repos.Product, repos.Movement, zapLogger)
	if cfg.Legacy.BaseURL != "" {
		incidentSvc.SetLegacyClient(legacy.NewClient(cfg.Legacy.BaseURL, cfg.Legacy.APIKey, cfg.Legacy.Timeout))
		zapLogger.Info("Legacy gateway mirror enabled", zap.String("base_url", cfg.Legacy.BaseURL))
	}
	inventorySvc := service.NewInventoryService(db, repos.Product, repos.Movement, repos.Purchase, zapLogger)
	distributionSvc := service.NewDistributionService(repos.Distribution, repos.Zone)
	billingSvc := service.NewBillingService(db, repos.WaterBox, repos.Payment)
	reportSvc := service.NewReportService(repos.Incident, repos.Payment, repos.Product, minioClient, cfg.MinIO.Bucket, zapLogger)
	dashboardSvc := service.NewDashboardService(repos.Incident, repos.Product, repos.Payment, rdb, zapLogger)
	incidentSvc.SetDashboard(dashboardSvc)
	billingSvc.SetDashboard(dashboardSvc)

	handlers := handler.NewHandlers(
		authSvc, orgSvc, userSvc, incidentSvc, inventorySvc,
		distributionSvc, billingSvc, reportSvc, dashboardSvc,
	)

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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
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

// initMinio returns nil when object storage is not configured; reports then
// stream directly to the response instead of producing download links.
func initMinio(cfg config.MinIOConfig, zapLogger *zap.Logger) *minio.Client {
	if cfg.Endpoint == "" {
		zapLogger.Info("MinIO not configured, report storage disabled")
		return nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		zapLogger.Warn("MinIO init failed, report storage disabled", zap.Error(err))
		return nil
	}
	return client
}

// seedAdminUser guarantees a usable admin account on a fresh database.
func seedAdminUser(db *gorm.DB, zapLogger *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).Where("role = ?", entity.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := config.GetEnvOrDefault("ADMIN_INITIAL_PASSWORD", "cambiar.admin.2026")
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     "admin",
		PasswordHash: hash,
		FullName:     "Administrador del Sistema",
		Role:         entity.RoleAdmin,
		RecordStatus: entity.RecordStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	zapLogger.Info("Seeded initial admin user", zap.String("username", "admin"))
	return nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": Version})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/change-password", h.Auth.ChangePassword)

			admin := authorized.Group("", middleware.RequireRole(entity.RoleAdmin))
			{
				admin.POST("/organizations", h.Organization.CreateOrganization)
				admin.PUT("/organizations/:id", h.Organization.UpdateOrganization)
				admin.DELETE("/organizations/:id", h.Organization.DeleteOrganization)
				admin.POST("/organizations/:id/restore", h.Organization.RestoreOrganization)

				admin.POST("/users", h.User.CreateUser)
				admin.PUT("/users/:id", h.User.UpdateUser)
				admin.DELETE("/users/:id", h.User.DeactivateUser)
				admin.POST("/users/:id/restore", h.User.ReactivateUser)
			}

			authorized.GET("/organizations", h.Organization.ListOrganizations)
			authorized.GET("/organizations/:id", h.Organization.GetOrganization)

			authorized.GET("/users", h.User.ListUsers)
			authorized.GET("/users/:id", h.User.GetUser)

			zones := authorized.Group("/zones")
			{
				zones.GET("", h.Organization.ListZones)
				zones.GET("/:id", h.Organization.GetZone)
				zones.POST("", h.Organization.CreateZone)
				zones.PUT("/:id", h.Organization.UpdateZone)
				zones.DELETE("/:id", h.Organization.DeleteZone)
				zones.POST("/:id/restore", h.Organization.RestoreZone)
				zones.GET("/:id/streets", h.Organization.ListStreets)
			}

			streets := authorized.Group("/streets")
			{
				streets.POST("", h.Organization.CreateStreet)
				streets.PUT("/:id", h.Organization.UpdateStreet)
				streets.DELETE("/:id", h.Organization.DeleteStreet)
			}

			incidents := authorized.Group("/incidents")
			{
				incidents.GET("", h.Incident.ListIncidents)
				incidents.GET("/:id", h.Incident.GetIncident)
				incidents.POST("", h.Incident.SubmitIncident)
				incidents.PUT("/:id", h.Incident.UpdateIncident)
				incidents.POST("/:id/assign", h.Incident.AssignIncident)
				incidents.DELETE("/:id", h.Incident.DeleteIncident)
				incidents.POST("/:id/restore", h.Incident.RestoreIncident)
			}

			products := authorized.Group("/products")
			{
				products.GET("", h.Inventory.ListProducts)
				products.GET("/low-stock", h.Inventory.LowStock)
				products.GET("/:id", h.Inventory.GetProduct)
				products.POST("", h.Inventory.CreateProduct)
				products.PUT("/:id", h.Inventory.UpdateProduct)
				products.DELETE("/:id", h.Inventory.DeleteProduct)
				products.POST("/:id/restore", h.Inventory.RestoreProduct)
				products.GET("/:id/movements", h.Inventory.ProductMovements)
				products.POST("/:id/adjust", h.Inventory.AdjustStock)
			}

			authorized.GET("/product-categories", h.Inventory.ListCategories)
			authorized.POST("/product-categories", h.Inventory.CreateCategory)

			suppliers := authorized.Group("/suppliers")
			{
				suppliers.GET("", h.Inventory.ListSuppliers)
				suppliers.GET("/:id", h.Inventory.GetSupplier)
				suppliers.POST("", h.Inventory.CreateSupplier)
				suppliers.PUT("/:id", h.Inventory.UpdateSupplier)
			}

			purchases := authorized.Group("/purchases")
			{
				purchases.GET("", h.Inventory.ListPurchases)
				purchases.GET("/:id", h.Inventory.GetPurchase)
				purchases.POST("", h.Inventory.CreatePurchase)
				purchases.POST("/:id/confirm", h.Inventory.ConfirmPurchase)
				purchases.POST("/:id/cancel", h.Inventory.CancelPurchase)
			}

			distribution := authorized.Group("/distribution")
			{
				distribution.GET("/schedules", h.Distribution.ListSchedules)
				distribution.GET("/schedules/:id", h.Distribution.GetSchedule)
				distribution.POST("/schedules", h.Distribution.CreateSchedule)
				distribution.PUT("/schedules/:id", h.Distribution.UpdateSchedule)
				distribution.DELETE("/schedules/:id", h.Distribution.DeleteSchedule)
				distribution.POST("/schedules/:id/restore", h.Distribution.RestoreSchedule)
				distribution.GET("/timetable", h.Distribution.WeeklyTimetable)
			}

			boxes := authorized.Group("/water-boxes")
			{
				boxes.GET("", h.Billing.ListBoxes)
				boxes.GET("/:id", h.Billing.GetBox)
				boxes.POST("", h.Billing.CreateBox)
				boxes.PUT("/:id", h.Billing.UpdateBox)
				boxes.DELETE("/:id", h.Billing.DeleteBox)
				boxes.POST("/:id/restore", h.Billing.RestoreBox)
				boxes.GET("/:id/payments", h.Billing.BoxPayments)
				boxes.GET("/:id/debt", h.Billing.BoxDebt)
			}

			payments := authorized.Group("/payments")
			{
				payments.GET("", h.Billing.ListPayments)
				payments.GET("/:id", h.Billing.GetPayment)
				payments.POST("", h.Billing.RegisterPayment)
				payments.POST("/:id/void", h.Billing.VoidPayment)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("/incidents", h.Report.ExportIncidents)
				reports.GET("/payments", h.Report.ExportPayments)
				reports.GET("/stock", h.Report.ExportStock)
			}

			authorized.GET("/dashboard", h.Dashboard.GetDashboard)
		}
	}
}
