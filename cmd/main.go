package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"access-service/internal/cache"
	"access-service/internal/config"
	"access-service/internal/entitlements"
	"access-service/internal/events"
	"access-service/internal/handlers"
	"access-service/internal/middleware"
	"access-service/internal/models"
	"access-service/internal/repository"
	"access-service/internal/services"
)

// @title Access Service API
// @version 1.0.0
// @description Plan entitlement and organization access service for the healthcare platform

// @contact.name Platform API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Check if running health check
	if len(os.Args) > 1 && os.Args[1] == "health" {
		resp, err := http.Get("http://localhost:8080/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := db.AutoMigrate(
		&models.Organization{},
		&models.Department{},
		&models.User{},
		&models.AccessAuditLog{},
	); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Set database for health checks
	handlers.SetDB(db)

	// Initialize Redis entitlement cache
	entCache, err := cache.NewEntitlementCache(
		cfg.RedisHost,
		cfg.RedisPort,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.CacheTTL,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize entitlement cache: %v. Continuing without caching.", err)
	} else if entCache.IsAvailable() {
		log.Println("Entitlement cache initialized successfully")
		defer entCache.Close()
	} else {
		log.Println("Entitlement cache unavailable (Redis not connected). Continuing without caching.")
	}

	// Initialize NATS events publisher; events degrade to no-ops when the
	// broker is not configured or unreachable
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logrus.StandardLogger())
		if err != nil {
			log.Printf("Warning: Failed to initialize events publisher: %v (events won't be published)", err)
			publisher = nil
		} else {
			log.Println("NATS events publisher initialized")
			defer publisher.Close()
		}
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize the single entitlement evaluator shared by route guards,
	// navigation and the staff assignment validator
	evaluator := entitlements.NewEvaluator()

	// Initialize services
	resolver := services.NewContextResolver(userRepo, orgRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo, deptRepo, evaluator, entCache)
	hierarchyService := services.NewHierarchyService(orgRepo, auditRepo, entCache, publisher)
	staffService := services.NewStaffService(userRepo, deptRepo, auditRepo, evaluator, publisher)

	// Initialize handlers
	orgHandler := handlers.NewOrganizationHandler(orgService, hierarchyService)
	staffHandler := handlers.NewStaffHandler(staffService)
	meHandler := handlers.NewMeHandler(resolver, orgService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Setup middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Environment, cfg.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public onboarding route: creates an organization and its first admin,
	// so it cannot require an existing identity
	router.POST("/api/v1/organizations/register", orgHandler.Register)

	// Protected API routes: identity first, then the acting organization
	// context resolved per request
	api := router.Group("/api/v1")
	api.Use(middleware.IdentityMiddleware(cfg.JWTSecret))
	api.Use(middleware.OrganizationContextMiddleware(resolver))
	{
		me := api.Group("/me")
		{
			me.GET("/context", meHandler.GetContext)
			me.GET("/features", meHandler.GetFeatures)
			me.POST("/switch-organization", meHandler.SwitchOrganization)
		}

		// Staff routes are guarded by the assignment validator itself, not a
		// feature gate: basic organizations must still be able to create the
		// staff their plan licenses
		staff := api.Group("/staff")
		{
			staff.GET("/assignable-roles", staffHandler.AssignableRoles)
			staff.POST("", staffHandler.Create)
			staff.GET("", staffHandler.List)
			staff.GET("/:id", staffHandler.Get)
			staff.PUT("/:id", staffHandler.Update)
			staff.DELETE("/:id", staffHandler.Deactivate)
		}

		orgs := api.Group("/organizations")
		{
			orgs.GET("", orgHandler.List)
			orgs.GET("/:id", orgHandler.Get)
			orgs.GET("/:id/children", orgHandler.ListChildren)
			orgs.GET("/:id/departments", orgHandler.ListDepartments)
			orgs.POST("/:id/departments", orgHandler.CreateDepartment)

			// Directory and hierarchy administration requires the
			// multi-tenancy feature
			admin := orgs.Group("")
			admin.Use(middleware.RequireFeature(evaluator, entitlements.FeatureMultiTenancy))
			{
				admin.POST("", orgHandler.Create)
				admin.PUT("/:id", orgHandler.Update)
				admin.POST("/:id/link", orgHandler.Link)
				admin.DELETE("/:id/link", orgHandler.Unlink)
			}
		}

		audit := api.Group("/audit")
		audit.Use(middleware.RequireFeature(evaluator, entitlements.FeatureAuditLog))
		{
			audit.GET("", auditHandler.List)
		}
	}

	log.Printf("Starting access-service on port %s (environment: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
