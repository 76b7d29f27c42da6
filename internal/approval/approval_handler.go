package approval

import (
	"encoding/json"
	"net/http"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("approval.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func getActor(c *gin.Context) (domain.Actor, bool) {
	return contextutil.GetActor(c.Request.Context())
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("approval request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotencyLock drops the in-flight lock taken by the idempotency middleware.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk, ok := c.Get("idempotency_lock_key"); ok {
		if key, _ := lk.(string); key != "" {
			h.rdb.Del(c.Request.Context(), key)
		}
	}
}

func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ck, ok := c.Get("idempotency_cache_key")
	if !ok {
		return
	}
	key, _ := ck.(string)
	if key == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(c.Request.Context(), key, payload, 24*time.Hour).Err()
	}
}

func (h *Handler) Submit(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit approval validation failed", zap.Error(err))
		response.BindingError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide approval validation failed", zap.Error(err))
		response.BindingError(c, err)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("http list approvals validation failed", zap.Error(err))
		response.BindingError(c, err)
		return
	}

	resp, err := h.service.ListBySubject(c.Request.Context(), actor, req.EmployeeID, req.Kind)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(resp, req.Page, req.PageSize)
	response.Success(c, http.StatusOK, page, &meta)
}
