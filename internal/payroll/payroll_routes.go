package payroll

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware())
	{
		payslips.GET("/status", handler.Status)
		payslips.GET("/:id", handler.GetByID)
		if redisClient != nil {
			payslips.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionCreate),
				handler.Generate,
			)
		} else {
			payslips.POST("", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionCreate), handler.Generate)
		}
		payslips.POST("/batch",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionCreate),
			handler.RunBatch,
		)
		payslips.POST("/batch/async",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionCreate),
			handler.EnqueueBatch,
		)
		payslips.POST("/:id/finalize", middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionCreate), handler.Finalize)
		payslips.POST("/:id/mark-paid",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, domain.ActionPay),
			handler.MarkPaid,
		)
	}
}
