package compensation

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	compensation := r.Group("/compensation")
	compensation.Use(middleware.AuthMiddleware())
	{
		compensation.POST("/breakdown",
			middleware.RateLimitByUser(5, 10),
			handler.Breakdown,
		)
		compensation.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceCompensation, domain.ActionCreate),
			handler.Create,
		)
		compensation.GET("/employees/:employee_id", handler.ListByEmployee)
		compensation.GET("/employees/:employee_id/active", handler.GetActive)
	}
}
