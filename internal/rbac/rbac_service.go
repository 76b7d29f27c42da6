package rbac

import (
	"sync"

	"go-payroll/internal/domain"
	"go-payroll/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	PermissionsFor(role domain.Role) ([][]string, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// NewDefaultService loads the built-in role policy, or the CSV at policyPath when given.
func NewDefaultService(policyPath string, logger ...*zap.Logger) (Service, error) {
	enforcer, err := infra.NewEnforcer(policyPath)
	if err != nil {
		return nil, err
	}
	if policyPath == "" {
		if err := LoadDefaultPolicy(enforcer); err != nil {
			return nil, err
		}
	}
	return NewService(enforcer, logger...), nil
}

func LoadDefaultPolicy(enforcer *casbin.Enforcer) error {
	if _, err := enforcer.AddGroupingPolicies(DefaultRoleHierarchy); err != nil {
		return err
	}
	if _, err := enforcer.AddPolicies(DefaultPolicy); err != nil {
		return err
	}
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(string(req.Role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(req.Role)),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", string(req.Role)),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

// PermissionsFor returns the grants of role including inherited ones.
func (s *service) PermissionsFor(role domain.Role) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enforcer.GetImplicitPermissionsForUser(string(role))
}
