package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	idempotencyLockTTL  = 30 * time.Second
	idempotencyLockKey  = "idempotency_lock_key"
	idempotencyCacheKey = "idempotency_cache_key"
)

var errRequestInFlight = apperror.New(
	apperror.CodeConflict,
	"A request with this idempotency key is still being processed",
	http.StatusConflict,
)

// Idempotency replays the cached response of a POST carrying an Idempotency-Key and
// rejects a retry that arrives while the first call is still running. Handlers write
// the cache entry and release the lock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		actorID := c.GetString(ContextEmployeeID)
		if actor, ok := contextutil.GetActor(ctx); ok {
			actorID = actor.ID.String()
		}

		scope := fmt.Sprintf("%s:%s:%s", c.FullPath(), actorID, idempKey)
		cacheKey := "idem:cache:" + scope
		lockKey := "idem:lock:" + scope

		val, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			response.Success(c, http.StatusOK, json.RawMessage(val), nil)
			c.Abort()
			return
		}
		if !errors.Is(err, redis.Nil) {
			// cache unavailable: run the request without replay protection
			contextutil.GetLogger(ctx, nil).Warn("idempotency cache read failed", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !isNew {
			response.FromError(c, errRequestInFlight)
			c.Abort()
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)

		c.Next()
	}
}
