package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tilldesk/tilldesk-backend/internal/modules/analytics"
	"github.com/tilldesk/tilldesk-backend/internal/modules/auth"
	"github.com/tilldesk/tilldesk-backend/internal/modules/business"
	"github.com/tilldesk/tilldesk-backend/internal/modules/category"
	"github.com/tilldesk/tilldesk-backend/internal/modules/customer"
	"github.com/tilldesk/tilldesk-backend/internal/modules/order"
	"github.com/tilldesk/tilldesk-backend/internal/modules/pos"
	"github.com/tilldesk/tilldesk-backend/internal/modules/product"
	"github.com/tilldesk/tilldesk-backend/internal/modules/user"
	"github.com/tilldesk/tilldesk-backend/internal/platform/cache"
	"github.com/tilldesk/tilldesk-backend/internal/platform/database"
	"github.com/tilldesk/tilldesk-backend/internal/platform/metrics"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}

	db, err := database.Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}
	log.Info().Msg("database connected and migrated")

	var redisCache *cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err = cache.New(addr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisCache.Close()
		log.Info().Str("addr", addr).Msg("redis connected")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// ── Identity & Tenant ───────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	authService := auth.NewService(userRepo, jwtSecret)
	auth.NewHandler(authService).RegisterRoutes(router)
	authMw := auth.Middleware(authService)

	businessRepo := business.NewPostgresRepository(db)
	businessService := business.NewService(businessRepo)
	business.NewHandler(businessService, authMw).RegisterRoutes(router)

	// ── Catalog ─────────────────────────────────────────────
	categoryRepo := category.NewPostgresRepository(db)
	categoryService := category.NewService(categoryRepo)
	category.NewHandler(categoryService, businessService, authMw).RegisterRoutes(router)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	product.NewHandler(productService, businessService, authMw).RegisterRoutes(router)

	// ── Customers & Orders ──────────────────────────────────
	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)
	customer.NewHandler(customerService, businessService, authMw).RegisterRoutes(router)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo)
	order.NewHandler(orderService, businessService, authMw).RegisterRoutes(router)

	// ── POS Register ────────────────────────────────────────
	cartStore := pos.NewCartStore()
	posService := pos.NewService(cartStore, productService, orderService,
		log.With().Str("component", "pos").Logger())
	pos.NewHandler(posService, businessService, authMw).RegisterRoutes(router)

	// ── Analytics ───────────────────────────────────────────
	analyticsRepo := analytics.NewPostgresRepository(db)
	analyticsService := analytics.NewService(analyticsRepo, redisCache)
	analytics.NewHandler(analyticsService, businessService, authMw).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("tilldesk API server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
