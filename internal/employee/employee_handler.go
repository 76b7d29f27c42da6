package employee

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("create employee binding failed", zap.Error(err))
		response.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists the directory. Query: q, role, manager_id, sort_by, sort_dir, page, page_size.
func (h *Handler) GetAll(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindingError(c, err)
		return
	}
	h.list(c, q.normalized())
}

// MyReports lists the caller's direct reports. Any authenticated employee may ask; the
// answer is empty for non-managers.
func (h *Handler) MyReports(c *gin.Context) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		h.fail(c, apperror.ErrUnauthorized)
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindingError(c, err)
		return
	}
	q.ManagerID = actor.ID.String()
	h.list(c, q.normalized())
}

func (h *Handler) list(c *gin.Context, q ListQuery) {
	all, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	items, meta := response.Paginate(q.Apply(all), q.Page, q.PageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("update employee binding failed", zap.String("employee_id", c.Param("id")), zap.Error(err))
		response.BindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) fail(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	log := contextutil.GetLogger(c.Request.Context(), h.logger)
	if httpErr.Status >= http.StatusInternalServerError {
		log.Error("employee request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		log.Warn("employee request rejected",
			zap.String("path", c.FullPath()),
			zap.String("code", httpErr.Code),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
