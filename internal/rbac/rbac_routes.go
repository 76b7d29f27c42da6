package rbac

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/me/permissions", middleware.RateLimitByUser(2, 5), handler.MyPermissions)
		group.POST("/check", middleware.RateLimitByUser(5, 10), handler.Check)
	}
}
