package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/pocket_ledger_app/cmd/docs"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/metrics"
	"github.com/SscSPs/pocket_ledger_app/internal/middleware"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// timeNow is swapped in tests that need a fixed "current month".
var timeNow = time.Now

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// posthog may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthog *utils.PosthogClientWrapper,
) error {
	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("login rate limiter: %w", err)
	}
	apiLimiter, err := middleware.NewLimiter(cfg.APIRateLimit)
	if err != nil {
		return fmt.Errorf("api rate limiter: %w", err)
	}

	r.Use(cors.New(corsConfig(cfg)))
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
		r.GET("/metrics", metrics.Handler())
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public authentication routes
	auth := r.Group("/api/v1/auth")
	loginLimit := middleware.RateLimit(loginLimiter)
	registerAuthRoutes(auth, services, loginLimit)
	registerGoogleOAuthRoutes(auth, services, loginLimit)

	setupAPIV1Routes(r, cfg, services, middleware.GinMiddlewarize(apiLimiter), posthog)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiLimit gin.HandlerFunc,
	posthog *utils.PosthogClientWrapper,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1",
		apiLimit,
		middleware.AuthMiddleware(cfg.JWTSecret, services.Session),
		middleware.PosthogMiddleware(posthog),
	)

	registerSessionRoutes(v1, services)
	registerLedgerRoutes(v1, services.Ledger)
	registerGroupRoutes(v1, services.Group)
	registerRewardRoutes(v1, services.Reward, posthog)
	registerAnalyticsRoutes(v1, services.Analytics)
	registerAdvisorRoutes(v1, services.Advisor)
	registerReceiptRoutes(v1, services.Receipt)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
