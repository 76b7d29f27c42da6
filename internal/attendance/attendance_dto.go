package attendance

type LeaveIntervalRequest struct {
	StartDate string `json:"start_date" binding:"required,date"`
	EndDate   string `json:"end_date" binding:"required,date"`
	Paid      bool   `json:"paid"`
}

type ComputeRequest struct {
	EmployeeID string                 `json:"employee_id" binding:"required,uuid"`
	Month      int                    `json:"month" binding:"required"`
	Year       int                    `json:"year" binding:"required"`
	Intervals  []LeaveIntervalRequest `json:"intervals" binding:"dive"`
}
