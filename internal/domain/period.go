package domain

import (
	"fmt"
	"time"
)

const (
	MinSupportedYear = 1900
	MaxSupportedYear = 2999
)

// Period is a payroll calendar month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: time.Month(month)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("month must be between 1 and 12, got %d", int(p.Month))
	}
	if p.Year < MinSupportedYear || p.Year > MaxSupportedYear {
		return fmt.Errorf("year must be between %d and %d, got %d", MinSupportedYear, MaxSupportedYear, p.Year)
	}
	return nil
}

// Key is the canonical YYYY-MM form used in storage and events.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func ParsePeriodKey(key string) (Period, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q, expected YYYY-MM", key)
	}
	return NewPeriod(t.Year(), int(t.Month()))
}

func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

func (p Period) DaysInMonth() int {
	return p.LastDay().Day()
}

func (p Period) Contains(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(p.FirstDay()) && !d.After(p.LastDay())
}

// DateOnly drops the clock and location, keeping the calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
