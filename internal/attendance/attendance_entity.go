package attendance

import "time"

// ApprovedLeave is the slice of an approved leave request that attendance needs,
// read straight off approval_requests.
type ApprovedLeave struct {
	LeaveType string    `gorm:"column:leave_type"`
	StartDate time.Time `gorm:"column:start_date"`
	EndDate   time.Time `gorm:"column:end_date"`
}

func (l ApprovedLeave) Interval() LeaveInterval {
	return LeaveInterval{
		Start: l.StartDate,
		End:   l.EndDate,
		Paid:  l.LeaveType != "UNPAID",
	}
}
