package rbac

import "go-payroll/internal/domain"

// DefaultRoleHierarchy lists (role, inherited role) pairs.
var DefaultRoleHierarchy = [][]string{
	{string(domain.RoleManager), string(domain.RoleEmployee)},
	{string(domain.RoleHR), string(domain.RoleEmployee)},
	{string(domain.RoleAdmin), string(domain.RoleHR)},
}

// DefaultPolicy lists (role, resource, action) grants. Relationship checks such as
// "direct manager of the subject" happen in the services on top of these grants.
var DefaultPolicy = [][]string{
	{string(domain.RoleEmployee), domain.ResourceApproval, domain.ActionSubmit},

	{string(domain.RoleManager), domain.ResourceApproval, domain.ActionDecideReports},
	{string(domain.RoleManager), domain.ResourceApproval, domain.ActionPlaceHoldTeam},

	{string(domain.RoleHR), domain.ResourceApproval, domain.ActionRead},
	{string(domain.RoleHR), domain.ResourceApproval, domain.ActionDecide},
	{string(domain.RoleHR), domain.ResourceApproval, domain.ActionSubmitOthers},
	{string(domain.RoleHR), domain.ResourceApproval, domain.ActionPlaceHold},
	{string(domain.RoleHR), domain.ResourceCompensation, domain.ActionRead},
	{string(domain.RoleHR), domain.ResourceCompensation, domain.ActionCreate},
	{string(domain.RoleHR), domain.ResourcePayroll, domain.ActionRead},
	{string(domain.RoleHR), domain.ResourcePayroll, domain.ActionCreate},
	{string(domain.RoleHR), domain.ResourceAttendance, domain.ActionRead},
	{string(domain.RoleHR), domain.ResourceEmployee, domain.ActionRead},
	{string(domain.RoleHR), domain.ResourceEmployee, domain.ActionCreate},
	{string(domain.RoleHR), domain.ResourceEmployee, domain.ActionUpdate},
	{string(domain.RoleHR), domain.ResourceEmployee, domain.ActionDelete},

	{string(domain.RoleAdmin), domain.ResourcePayroll, domain.ActionPay},
}
