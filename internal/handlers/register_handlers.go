package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fintrack-app/fintrack_backend/cmd/docs"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/middleware"
	"github.com/fintrack-app/fintrack_backend/pkg/config"
)

// registerCustomValidators adds binding validators gin's defaults lack.
// "notzero" rejects zero decimal amounts at the binding layer; the service
// re-checks so non-HTTP callers get the same rule.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("notzero", func(fl validator.FieldLevel) bool {
		amount, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && !amount.IsZero()
	})
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceProvider,
) {
	registerCustomValidators()

	registerHomeRoutes(r)

	// Public authentication routes
	registerAuthRoutes(r, cfg, services.AuthSvc)

	// API v1 routes behind the auth middleware
	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceProvider,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.UserSvc)
	registerCategoryRoutes(v1, services.CategorySvc)
	registerTransactionRoutes(v1, services.TransactionSvc)
	registerBalanceRoutes(v1, services.BalanceSvc)
	registerCurrencyRoutes(v1, services.CurrencySvc)
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
