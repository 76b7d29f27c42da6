package rbac

import (
	"net/http"
	"sort"
	"strings"

	"go-payroll/internal/domain"
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
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Check answers whether the caller's role holds resource:action. Relationship rules
// (direct manager of the subject) are not part of the answer.
func (h *Handler) Check(c *gin.Context) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(domain.EnforceRequest{
		Role:     actor.Role,
		Resource: req.Resource,
		Action:   req.Action,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, CheckResponse{
		Role:     string(actor.Role),
		Resource: req.Resource,
		Action:   req.Action,
		Allowed:  allowed,
	}, nil)
}

func (h *Handler) MyPermissions(c *gin.Context) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	rules, err := h.service.PermissionsFor(actor.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	seen := make(map[Permission]bool, len(rules))
	perms := make([]Permission, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		p := Permission{Resource: rule[1], Action: rule[2]}
		if seen[p] {
			continue
		}
		seen[p] = true
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool {
		if perms[i].Resource != perms[j].Resource {
			return perms[i].Resource < perms[j].Resource
		}
		return perms[i].Action < perms[j].Action
	})

	response.Success(c, http.StatusOK, PermissionsResponse{
		Role:        string(actor.Role),
		Permissions: perms,
	}, nil)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("rbac request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
