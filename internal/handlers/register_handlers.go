package handlers

import (
	"github.com/Fridah34/bank-management-api/internal/core/services"
	"github.com/Fridah34/bank-management-api/internal/middleware"
	"github.com/Fridah34/bank-management-api/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc *services.Container) {
	RegisterValidations()

	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, svc)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svc *services.Container) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, svc.Account, svc.Ledger)
	registerTransactionRoutes(v1, svc.Ledger)
	registerLoanRoutes(v1, svc.Loan)
	registerAuditRoutes(v1, svc.Audit)
}
