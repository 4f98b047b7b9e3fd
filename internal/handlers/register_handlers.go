package handlers

import (
	"fmt"

	"github.com/SscSPs/trust_ledger/cmd/docs"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/SscSPs/trust_ledger/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	useJSONFieldNames()

	if corsMiddleware := newCORS(cfg); corsMiddleware != nil {
		r.Use(corsMiddleware)
	}
	if cfg.RateLimit != "" {
		lim, err := middleware.NewMemoryLimiter(cfg.RateLimit)
		if err != nil {
			return fmt.Errorf("failed to configure rate limiter: %w", err)
		}
		r.Use(middleware.RateLimit(lim))
	}

	r.GET("/", getHome)
	r.GET("/health", getHealth)

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	base := baseHandler{isProduction: cfg.IsProduction}

	registerOwnerRoutes(v1, base, services.Owner)
	registerAccountRoutes(v1, base, services.Account)
	registerTransactionRoutes(v1, base, services.Transaction, cfg.MaxAttachmentBytes)
	registerLedgerRoutes(v1, base, services.Ledger)
}

// newCORS returns nil when no origins are configured, leaving the API same-origin only.
func newCORS(cfg *config.Config) gin.HandlerFunc {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AddAllowMethods("PATCH")
	corsConfig.AddAllowHeaders("Authorization", "X-Request-ID")
	corsConfig.AddExposeHeaders("Content-Disposition", "Content-Length", "X-Request-ID")
	corsConfig.AllowCredentials = true
	return cors.New(corsConfig)
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
