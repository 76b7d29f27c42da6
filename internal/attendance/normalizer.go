package attendance

import (
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/domain"

	"github.com/google/uuid"
)

// LeaveInterval is an inclusive range of calendar dates.
type LeaveInterval struct {
	Start time.Time
	End   time.Time
	Paid  bool
}

type NormalizeInput struct {
	EmployeeID uuid.UUID
	Month      int
	Year       int
	Intervals  []LeaveInterval
}

// AttendancePeriod summarizes one employee-month.
// UnpaidLeaveDays + EffectiveWorkingDays == WorkingDays.
type AttendancePeriod struct {
	EmployeeID           uuid.UUID `json:"employee_id"`
	Month                int       `json:"month"`
	Year                 int       `json:"year"`
	TotalDays            int       `json:"total_days"`
	WorkingDays          int       `json:"working_days"`
	UnpaidLeaveDays      int       `json:"unpaid_leave_days"`
	EffectiveWorkingDays int       `json:"effective_working_days"`
}

func (p AttendancePeriod) Period() domain.Period {
	return domain.Period{Year: p.Year, Month: time.Month(p.Month)}
}

// Normalize derives the attendance figures for a month. Every day of the month except
// weeklyOff is a working day. Unpaid intervals reduce the effective days; a day covered
// by several unpaid intervals counts once and off-days never count.
func Normalize(in NormalizeInput, weeklyOff time.Weekday) (AttendancePeriod, error) {
	period, err := domain.NewPeriod(in.Year, in.Month)
	if err != nil {
		return AttendancePeriod{}, attendanceerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}

	first, last := period.FirstDay(), period.LastDay()
	unpaid := make(map[int]struct{})

	for i, iv := range in.Intervals {
		start, end := domain.DateOnly(iv.Start), domain.DateOnly(iv.End)
		if start.After(end) {
			return AttendancePeriod{}, attendanceerrors.ErrInvalidPeriod.
				WithMessage("leave interval %d starts after it ends", i)
		}
		if start.Before(first) || end.After(last) {
			return AttendancePeriod{}, attendanceerrors.ErrInvalidPeriod.
				WithMessage("leave interval %d falls outside %s", i, period.Key())
		}
		if iv.Paid {
			continue
		}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if day.Weekday() == weeklyOff {
				continue
			}
			unpaid[day.Day()] = struct{}{}
		}
	}

	total := period.DaysInMonth()
	working := total - countWeekday(first, total, weeklyOff)
	effective := working - len(unpaid)
	if effective < 0 {
		effective = 0
	}

	return AttendancePeriod{
		EmployeeID:           in.EmployeeID,
		Month:                in.Month,
		Year:                 in.Year,
		TotalDays:            total,
		WorkingDays:          working,
		UnpaidLeaveDays:      len(unpaid),
		EffectiveWorkingDays: effective,
	}, nil
}

func countWeekday(first time.Time, days int, wd time.Weekday) int {
	n := 0
	for i := 0; i < days; i++ {
		if first.AddDate(0, 0, i).Weekday() == wd {
			n++
		}
	}
	return n
}

// ClipToPeriod trims an interval to the month. ok is false when nothing is left.
func ClipToPeriod(iv LeaveInterval, p domain.Period) (LeaveInterval, bool) {
	start, end := domain.DateOnly(iv.Start), domain.DateOnly(iv.End)
	if start.Before(p.FirstDay()) {
		start = p.FirstDay()
	}
	if end.After(p.LastDay()) {
		end = p.LastDay()
	}
	if start.After(end) {
		return LeaveInterval{}, false
	}
	return LeaveInterval{Start: start, End: end, Paid: iv.Paid}, true
}
