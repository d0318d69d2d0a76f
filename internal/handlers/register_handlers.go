package handlers

import (
	"fmt"

	"github.com/SscSPs/contabilidad_ve/cmd/docs"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/SscSPs/contabilidad_ve/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// The limiter store is shared by the login and API rate limits.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterStore limiter.Store,
) error {
	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit, limiterStore)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	apiLimiter, err := middleware.NewLimiter(cfg.APIRateLimit, limiterStore)
	if err != nil {
		return fmt.Errorf("api rate limit: %w", err)
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, services.User, services.Token, middleware.RateLimit(loginLimiter))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, middleware.GinMiddlewarize(apiLimiter))

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiLimit gin.HandlerFunc,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", apiLimit, middleware.AuthMiddleware(cfg.JWTSecret, jwt.WithIssuer(cfg.JWTIssuer)))

	registerUserRoutes(v1, service.User)
	company := RegisterCompanyRoutes(v1, service.Company)
	RegisterAccountRoutes(company, service.Account)
	RegisterCostCenterRoutes(company, service.CostCenter)
	RegisterPeriodRoutes(company, service.Period)
	RegisterJournalRoutes(company, service.Journal)
	RegisterInvoiceRoutes(company, service.Invoice)
	RegisterReportingRoutes(company, service.Reporting)
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
