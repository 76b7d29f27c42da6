package attendance

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.POST("/periods",
			middleware.RoleMiddleware(domain.RoleManager, domain.RoleHR, domain.RoleAdmin),
			middleware.RateLimitByUser(5, 10),
			h.Compute,
		)
		attendance.GET("/employees/:employee_id/periods/:year/:month", h.GetForEmployee)
	}
}
