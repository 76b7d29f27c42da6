package compensation

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	Breakdown(ctx context.Context, req BreakdownRequest) (SalaryComponents, error)
	CreateRevision(ctx context.Context, actor domain.Actor, req CreateRevisionRequest) (StructureResponse, error)
	GetActive(ctx context.Context, actor domain.Actor, employeeID string) (StructureResponse, error)
	ListByEmployee(ctx context.Context, actor domain.Actor, employeeID string) ([]StructureResponse, error)
	ActiveComponents(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (SalaryComponents, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	authorizer domain.Authorizer
	policy     CTCPolicy
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, authorizer domain.Authorizer, policy CTCPolicy, logger ...*zap.Logger) Service {
	l := zap.L().Named("compensation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		authorizer: authorizer,
		policy:     policy,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) Breakdown(ctx context.Context, req BreakdownRequest) (SalaryComponents, error) {
	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return SalaryComponents{}, err
	}

	components, err := Decompose(req.AnnualTotal, effectiveDate, s.policy)
	if err != nil {
		s.logger.Debug("ctc breakdown rejected",
			zap.String("annual_total", req.AnnualTotal.String()),
			zap.Error(err),
		)
		return SalaryComponents{}, err
	}
	return components, nil
}

func (s *service) CreateRevision(ctx context.Context, actor domain.Actor, req CreateRevisionRequest) (StructureResponse, error) {
	s.logger.Debug("create compensation revision requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("effective_from", req.EffectiveFrom),
	)

	if err := s.authorize(actor, domain.ActionCreate); err != nil {
		s.logger.Warn("create compensation revision forbidden",
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", string(actor.Role)),
		)
		return StructureResponse{}, err
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return StructureResponse{}, compensationerrors.ErrInvalidEmployeeID
	}
	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return StructureResponse{}, err
	}
	reason := strings.TrimSpace(req.RevisionReason)
	if reason == "" {
		return StructureResponse{}, compensationerrors.ErrRevisionReasonRequired
	}

	// a structure whose residual would be negative is never stored
	components, err := Decompose(req.AnnualTotal, effectiveFrom, s.policy)
	if err != nil {
		s.logger.Warn("create compensation revision rejected",
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return StructureResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create compensation revision begin tx failed", zap.Error(err))
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()

	active, err := qtx.FindActiveByEmployee(ctx, employeeID)
	switch {
	case err == nil:
		if effectiveFrom.Before(active.EffectiveFrom) {
			s.logger.Warn("create compensation revision predates active revision",
				zap.String("employee_id", req.EmployeeID),
				zap.String("active_id", active.ID.String()),
			)
			return StructureResponse{}, compensationerrors.ErrEffectiveDateBeforeActive
		}
		if err := qtx.Supersede(ctx, active.ID, now); err != nil {
			s.logger.Error("supersede compensation revision failed",
				zap.String("structure_id", active.ID.String()),
				zap.Error(err),
			)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return StructureResponse{}, compensationerrors.ErrActiveRevisionConflict
			}
			return StructureResponse{}, mapRepositoryError(err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("create compensation revision lookup failed", zap.Error(err))
		return StructureResponse{}, err
	}

	structure := &CompensationStructure{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		AnnualTotal:    req.AnnualTotal,
		EffectiveFrom:  effectiveFrom,
		Status:         StatusActive,
		RevisionReason: reason,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := qtx.Create(ctx, structure); err != nil {
		s.logger.Error("create compensation revision persist failed", zap.Error(err))
		return StructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create compensation revision commit failed", zap.Error(err))
		return StructureResponse{}, err
	}
	s.logger.Info("create compensation revision success",
		zap.String("structure_id", structure.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	return mapToResponse(*structure, components), nil
}

func (s *service) GetActive(ctx context.Context, actor domain.Actor, employeeID string) (StructureResponse, error) {
	id, err := s.authorizeRead(actor, employeeID)
	if err != nil {
		return StructureResponse{}, err
	}

	structure, err := s.repo.FindActiveByEmployee(ctx, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	return s.toResponse(*structure)
}

func (s *service) ListByEmployee(ctx context.Context, actor domain.Actor, employeeID string) ([]StructureResponse, error) {
	id, err := s.authorizeRead(actor, employeeID)
	if err != nil {
		return nil, err
	}

	structures, err := s.repo.FindAllByEmployee(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]StructureResponse, 0, len(structures))
	for _, st := range structures {
		r, err := s.toResponse(st)
		if err != nil {
			return nil, err
		}
		resp = append(resp, r)
	}
	return resp, nil
}

// ActiveComponents decomposes the revision in force on asOf.
func (s *service) ActiveComponents(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (SalaryComponents, error) {
	structure, err := s.repo.FindApplicableAt(ctx, employeeID, domain.DateOnly(asOf))
	if err != nil {
		return SalaryComponents{}, mapRepositoryError(err)
	}
	return Decompose(structure.AnnualTotal, structure.EffectiveFrom, s.policy)
}

func (s *service) authorize(actor domain.Actor, action string) error {
	allowed, err := s.authorizer.Enforce(domain.EnforceRequest{
		Role:     actor.Role,
		Resource: domain.ResourceCompensation,
		Action:   action,
	})
	if err != nil {
		return err
	}
	if !allowed {
		return compensationerrors.ErrForbidden
	}
	return nil
}

// authorizeRead lets an employee see their own structures; everyone else needs the read permission.
func (s *service) authorizeRead(actor domain.Actor, employeeID string) (uuid.UUID, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, compensationerrors.ErrInvalidEmployeeID
	}
	if actor.ID == id {
		return id, nil
	}
	if err := s.authorize(actor, domain.ActionRead); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *service) toResponse(st CompensationStructure) (StructureResponse, error) {
	components, err := Decompose(st.AnnualTotal, st.EffectiveFrom, s.policy)
	if err != nil {
		s.logger.Error("stored compensation structure no longer decomposes",
			zap.String("structure_id", st.ID.String()),
			zap.Error(err),
		)
		return StructureResponse{}, err
	}
	return mapToResponse(st, components), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, compensationerrors.ErrInvalidEffectiveDate
	}
	return t, nil
}

func mapToResponse(st CompensationStructure, components SalaryComponents) StructureResponse {
	resp := StructureResponse{
		ID:             st.ID.String(),
		EmployeeID:     st.EmployeeID.String(),
		AnnualTotal:    st.AnnualTotal,
		EffectiveFrom:  st.EffectiveFrom.Format("2006-01-02"),
		Status:         st.Status,
		RevisionReason: st.RevisionReason,
		CreatedBy:      st.CreatedBy.String(),
		Components:     components,
	}
	if st.SupersededAt != nil {
		v := st.SupersededAt.Format(time.RFC3339)
		resp.SupersededAt = &v
	}
	return resp
}
