package employee

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts /employees. Directory reads are cheap and cached, writes are
// throttled hard since each one invalidates the manager cache.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, logger *zap.Logger) {
	can := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, domain.ResourceEmployee, action)
	}
	readLimit := middleware.RateLimitByUser(3, 10)

	employees := r.Group("/employees", middleware.AuthMiddleware(), middleware.ContextLogger(logger))

	employees.GET("/me/reports", readLimit, handler.MyReports)
	employees.GET("", readLimit, can(domain.ActionRead), handler.GetAll)
	employees.GET("/:id", readLimit, can(domain.ActionRead), handler.GetById)

	employees.POST("", middleware.RateLimitByUser(0.2, 2), can(domain.ActionCreate), handler.Create)
	employees.PUT("/:id", middleware.RateLimitByUser(0.5, 2), can(domain.ActionUpdate), handler.Update)
	employees.DELETE("/:id", middleware.RateLimitByUser(0.05, 1), can(domain.ActionDelete), handler.Delete)
}
