package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/cache"
	"github.com/herevemarket/admin_console/internal/config"
	"github.com/herevemarket/admin_console/internal/database"
	"github.com/herevemarket/admin_console/internal/handler"
	"github.com/herevemarket/admin_console/internal/middleware"
	"github.com/herevemarket/admin_console/internal/repository"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/session"
	"github.com/herevemarket/admin_console/internal/sse"
	"github.com/herevemarket/admin_console/internal/view"
	"github.com/herevemarket/admin_console/internal/worker"
	"github.com/herevemarket/admin_console/pkg/marketapi"
)

const version = "1.0.0"

// main is the entrypoint of the Hereve Market admin console.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("market_api", cfg.API.BaseURL).Msg("starting admin console")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. View state store: Redis when configured, process memory otherwise
	sweepers := map[string]worker.Sweeper{}
	var states cache.StateStore
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		states = cache.NewRedisStateStore(redisClient, cfg.Session.StateTTL)
		log.Info().Msg("redis connected successfully")
	} else {
		mem := cache.NewMemoryStateStore(cfg.Session.StateTTL)
		sweepers["view_state"] = mem
		states = mem
		log.Info().Msg("keeping view state in memory")
	}

	// 4. Audit database (optional)
	sseHub := sse.NewHub()
	var auditSvc *service.AuditService
	if cfg.DB.Enabled() {
		db, err := database.Connect(ctx, &cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db.DB, database.MigrationsURL); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")
		auditSvc = service.NewAuditService(repository.NewAuditRepository(db))
	} else {
		auditSvc = service.NewAuditService(nil)
		log.Info().Msg("audit log disabled: DB_HOST not set")
	}
	recorder := service.MultiRecorder{sse.NewHubNotifier(sseHub), auditSvc}

	// 5. Market API client and services
	api := marketapi.NewClient(marketapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Debug:   cfg.Env != "production",
	})
	authSvc := service.NewAuthService(api)
	ordersSvc := service.NewOrdersService(api, recorder, states)
	productsSvc := service.NewProductsService(api, recorder, states)

	// 6. Views and sessions
	renderer, err := view.NewRenderer(cfg.Display.Location())
	if err != nil {
		log.Error().Err(err).Msg("template parsing failed")
		fmt.Fprintf(os.Stderr, "template parsing failed: %v\n", err)
		os.Exit(1)
	}
	sessions := session.NewManager(cfg.Session.CookieSecure, states)
	pages := &handler.Pages{
		Renderer: renderer,
		Sessions: sessions,
		Audit:    auditSvc.Enabled(),
		Events:   true,
	}

	// 7. Initialize middleware
	loginLimiter := middleware.NewInvalidLoginRateLimiter(5, time.Minute)
	sweepers["login_attempts"] = loginLimiter
	authMw := middleware.NewAuthMiddleware(sessions)
	claimsMw := middleware.NewClaimsMiddleware(sessions)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(api, version),
		Auth:     handler.NewAuthHandler(pages, authSvc, loginLimiter),
		Orders:   handler.NewOrdersHandler(pages, ordersSvc, states),
		Products: handler.NewProductsHandler(pages, productsSvc, states),
		Audit:    handler.NewAuditHandler(pages, auditSvc),
		SSE:      handler.NewSSEHandler(sseHub),
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SameOriginMiddleware(cfg.Session.AllowedHosts...))
	setupRoutes(router, handlers, authMw, claimsMw)

	// 10. Start workers
	go worker.NewSweepWorker(sweepers, cfg.Session.SweepInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when ctx is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers and event streams
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Orders   *handler.OrdersHandler
	Products *handler.ProductsHandler
	Audit    *handler.AuditHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMw *middleware.AuthMiddleware, claimsMw *middleware.ClaimsMiddleware) {
	router.GET("/healthz", handlers.Health.GetHealth)
	router.StaticFS("/admin/static", view.Static())
	router.GET("/admin", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, session.LandingPath) })

	login := router.Group("/admin/login")
	login.Use(authMw.RedirectIfAuthenticated())
	{
		login.GET("", handlers.Auth.LoginPage)
		login.POST("", handlers.Auth.Login)
	}
	router.POST("/admin/logout", handlers.Auth.Logout)

	admin := router.Group("/admin")
	admin.Use(authMw.RequireAuth(), claimsMw.Handle())
	{
		admin.GET("/orders", handlers.Orders.List)
		admin.POST("/orders/:id/delete", handlers.Orders.Delete)

		admin.GET("/products", handlers.Products.List)
		admin.POST("/products", handlers.Products.Create)
		admin.POST("/products/edit", handlers.Products.Update)
		admin.POST("/products/edit/close", handlers.Products.CloseEditor)
		admin.GET("/products/:id/edit", handlers.Products.Edit)
		admin.POST("/products/:id/campaign", handlers.Products.ToggleCampaign)
		admin.POST("/products/:id/quick-save", handlers.Products.QuickSave)
		admin.POST("/products/:id/delete", handlers.Products.Delete)

		admin.GET("/events", handlers.SSE.Stream)
		admin.GET("/audit", handlers.Audit.List)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
