package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger carrying the request id and, once
// AuthMiddleware has run, the actor.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := resolveRequestID(c)
		c.Header(HeaderRequestID, rid)

		fields := []zap.Field{zap.String("request_id", rid)}
		if actor, ok := contextutil.GetActor(c.Request.Context()); ok {
			fields = append(fields,
				zap.String("actor_id", actor.ID.String()),
				zap.String("actor_role", string(actor.Role)),
			)
		}
		reqLogger := logger.With(fields...)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
