package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/urbanthreads/storefront-api/docs"
	"github.com/urbanthreads/storefront-api/internal/api/handler"
	"github.com/urbanthreads/storefront-api/internal/api/middleware"
	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
	"github.com/urbanthreads/storefront-api/internal/core/service"
	"github.com/urbanthreads/storefront-api/internal/infrastructure/config"
	mongodb "github.com/urbanthreads/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/urbanthreads/storefront-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered. Two
// route groups carry credentials: /admin behind the local-token verifier
// with the admin role required, and the customer routes behind the
// bearer-assertion verifier. Catalog reads stay public.
func NewRouter(cfg *config.Config, mc *mongodb.Client, rdb *redis.Client, ids ports.IdentityVerifier, sink ports.DecisionSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	db := mc.Database()

	// Credential stores: one collection per role, one unified shape.
	adminRepo := mongodb.NewIdentityRepository(db, "admins")
	userRepo := mongodb.NewIdentityRepository(db, "users")

	productRepo := mongodb.NewProductRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	offerRepo := mongodb.NewOfferRepository(db)
	statsRepo := mongodb.NewStatsRepository(db)

	adminAuth := service.NewAuthService(adminRepo, ids, domain.RoleAdmin, cfg.JWTSecret, cfg.TokenTTL, log)
	userAuth := service.NewAuthService(userRepo, ids, domain.RoleCustomer, cfg.JWTSecret, cfg.TokenTTL, log)

	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, log)
	orderSvc := service.NewOrderService(orderRepo, productRepo, log)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo)
	offerSvc := service.NewOfferService(offerRepo)

	throttle := redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)

	authHandler := handler.NewAuthHandler(adminAuth, adminRepo, throttle, log)
	userHandler := handler.NewUserHandler(userAuth, userRepo, ids, throttle, log)
	adminHandler := handler.NewAdminHandler(userRepo, statsRepo)
	productHandler := handler.NewProductHandler(catalogSvc)
	categoryHandler := handler.NewCategoryHandler(catalogSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	offerHandler := handler.NewOfferHandler(offerSvc)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"mongo": mc,
		"redis": redisPinger{rdb},
	})

	localGate := middleware.Authenticate(service.NewLocalTokenVerifier(adminAuth, adminRepo), sink)
	bearerGate := middleware.Authenticate(service.NewBearerAssertionVerifier(ids, userRepo), sink)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// Public surface.
	e.GET("/healthz", healthHandler.Live)
	e.GET("/readyz", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	e.GET("/products", productHandler.List)
	e.GET("/products/:id", productHandler.Get)
	e.GET("/products/:id/reviews", reviewHandler.ListByProduct)
	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:id", categoryHandler.Get)
	e.GET("/offers", offerHandler.ListLive)

	e.POST("/setup/create-admin", authHandler.CreateFirstAdmin)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/users/register", userHandler.Register)
	e.POST("/users/login", userHandler.Login)

	// Local session tokens.
	e.GET("/auth/verify", authHandler.Verify, localGate)

	// Customer routes: external bearer assertions.
	users := e.Group("/users", bearerGate)
	users.GET("/me", userHandler.Me)
	users.PUT("/profile", userHandler.UpdateProfile)

	orders := e.Group("/orders", bearerGate)
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	e.POST("/products/:id/reviews", reviewHandler.Create, bearerGate)
	e.DELETE("/reviews/:id", reviewHandler.Delete, bearerGate)

	// Back office: local tokens plus the admin role.
	admin := e.Group("/admin", localGate, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/active", adminHandler.SetUserActive)
	admin.GET("/statistics", adminHandler.Statistics)
	admin.GET("/orders", orderHandler.List)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/offers", offerHandler.ListAll)
	admin.GET("/offers/:id", offerHandler.Get)
	admin.POST("/offers", offerHandler.Create)
	admin.PUT("/offers/:id", offerHandler.Update)
	admin.DELETE("/offers/:id", offerHandler.Delete)
	admin.DELETE("/reviews/:id", reviewHandler.Delete)

	return e
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
