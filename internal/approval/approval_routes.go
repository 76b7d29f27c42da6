package approval

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		approvals.GET("", handler.List)
		approvals.GET("/:id", handler.GetByID)

		submit := []gin.HandlerFunc{middleware.RateLimitByUser(1, 5)}
		decide := []gin.HandlerFunc{middleware.RateLimitByUser(2, 5)}
		if rdb != nil {
			submit = append(submit, middleware.Idempotency(rdb))
			decide = append(decide, middleware.Idempotency(rdb))
		}

		approvals.POST("", append(submit, handler.Submit)...)
		approvals.POST("/:id/decide", append(decide, handler.Decide)...)
	}
}
