package attendance

import (
	"context"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Compute(ctx context.Context, req ComputeRequest) (AttendancePeriod, error)
	ComputeFromApprovedLeave(ctx context.Context, employeeID uuid.UUID, period domain.Period) (AttendancePeriod, error)
	GetForEmployee(ctx context.Context, actor domain.Actor, employeeID string, year, month int) (AttendancePeriod, error)
}

type service struct {
	repo       Repository
	authorizer domain.Authorizer
	weeklyOff  time.Weekday
	logger     *zap.Logger
}

func NewService(repo Repository, authorizer domain.Authorizer, weeklyOff time.Weekday, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, authorizer: authorizer, weeklyOff: weeklyOff, logger: l}
}

// Compute normalizes caller-supplied intervals.
func (s *service) Compute(ctx context.Context, req ComputeRequest) (AttendancePeriod, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendancePeriod{}, attendanceerrors.ErrInvalidEmployeeID
	}

	intervals := make([]LeaveInterval, 0, len(req.Intervals))
	for _, iv := range req.Intervals {
		start, err := parseDate(iv.StartDate)
		if err != nil {
			return AttendancePeriod{}, err
		}
		end, err := parseDate(iv.EndDate)
		if err != nil {
			return AttendancePeriod{}, err
		}
		intervals = append(intervals, LeaveInterval{Start: start, End: end, Paid: iv.Paid})
	}

	return Normalize(NormalizeInput{
		EmployeeID: employeeID,
		Month:      req.Month,
		Year:       req.Year,
		Intervals:  intervals,
	}, s.weeklyOff)
}

// ComputeFromApprovedLeave builds the month from the employee's approved leave. UNPAID
// leave is unpaid, every other type is paid; intervals are clipped to the month.
func (s *service) ComputeFromApprovedLeave(ctx context.Context, employeeID uuid.UUID, period domain.Period) (AttendancePeriod, error) {
	if err := period.Validate(); err != nil {
		return AttendancePeriod{}, attendanceerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}

	leaves, err := s.repo.FindApprovedLeaves(ctx, employeeID, period.FirstDay(), period.LastDay())
	if err != nil {
		s.logger.Error("load approved leave failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("period", period.Key()),
			zap.Error(err),
		)
		return AttendancePeriod{}, err
	}

	intervals := make([]LeaveInterval, 0, len(leaves))
	for _, l := range leaves {
		if iv, ok := ClipToPeriod(l.Interval(), period); ok {
			intervals = append(intervals, iv)
		}
	}

	result, err := Normalize(NormalizeInput{
		EmployeeID: employeeID,
		Month:      int(period.Month),
		Year:       period.Year,
		Intervals:  intervals,
	}, s.weeklyOff)
	if err != nil {
		return AttendancePeriod{}, err
	}

	s.logger.Debug("attendance computed from approved leave",
		zap.String("employee_id", employeeID.String()),
		zap.String("period", period.Key()),
		zap.Int("leaves", len(leaves)),
		zap.Int("unpaid_leave_days", result.UnpaidLeaveDays),
	)
	return result, nil
}

func (s *service) GetForEmployee(ctx context.Context, actor domain.Actor, employeeID string, year, month int) (AttendancePeriod, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendancePeriod{}, attendanceerrors.ErrInvalidEmployeeID
	}
	if actor.ID != id {
		allowed, err := s.authorizer.Enforce(domain.EnforceRequest{
			Role:     actor.Role,
			Resource: domain.ResourceAttendance,
			Action:   domain.ActionRead,
		})
		if err != nil {
			return AttendancePeriod{}, err
		}
		if !allowed {
			s.logger.Warn("attendance read forbidden",
				zap.String("actor_id", actor.ID.String()),
				zap.String("employee_id", employeeID),
			)
			return AttendancePeriod{}, attendanceerrors.ErrForbidden
		}
	}

	return s.ComputeFromApprovedLeave(ctx, id, domain.Period{Year: year, Month: time.Month(month)})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}
