package domain

// EnforceRequest asks whether a role may perform action on resource.
type EnforceRequest struct {
	Role     Role   `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// Resources and actions checked against the role policy.
const (
	ResourceApproval     = "approval"
	ResourceCompensation = "compensation"
	ResourcePayroll      = "payroll"
	ResourceAttendance   = "attendance"
	ResourceEmployee     = "employee"

	ActionRead          = "read"
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionSubmit        = "submit"
	ActionSubmitOthers  = "submit_others"
	ActionDecide        = "decide"
	ActionDecideReports = "decide_reports"
	ActionPlaceHold     = "place_hold"
	ActionPlaceHoldTeam = "place_hold_reports"
	ActionPay           = "pay"
)

// Authorizer is satisfied by the casbin-backed rbac service.
type Authorizer interface {
	Enforce(req EnforceRequest) (bool, error)
}
