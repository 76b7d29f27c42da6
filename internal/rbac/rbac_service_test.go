package rbac_test

import (
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRBACService_DefaultPolicy(t *testing.T) {
	svc, err := rbac.NewDefaultService("")
	require.NoError(t, err)

	cases := []struct {
		role     domain.Role
		resource string
		action   string
		allowed  bool
	}{
		{domain.RoleEmployee, domain.ResourceApproval, domain.ActionSubmit, true},
		{domain.RoleEmployee, domain.ResourceApproval, domain.ActionDecide, false},
		{domain.RoleEmployee, domain.ResourcePayroll, domain.ActionRead, false},
		{domain.RoleManager, domain.ResourceApproval, domain.ActionSubmit, true},
		{domain.RoleManager, domain.ResourceApproval, domain.ActionDecideReports, true},
		{domain.RoleManager, domain.ResourceApproval, domain.ActionDecide, false},
		{domain.RoleManager, domain.ResourceApproval, domain.ActionPlaceHold, false},
		{domain.RoleHR, domain.ResourceApproval, domain.ActionDecide, true},
		{domain.RoleHR, domain.ResourceCompensation, domain.ActionCreate, true},
		{domain.RoleHR, domain.ResourcePayroll, domain.ActionPay, false},
		{domain.RoleAdmin, domain.ResourcePayroll, domain.ActionPay, true},
		{domain.RoleAdmin, domain.ResourceApproval, domain.ActionPlaceHold, true},
		{domain.RoleAdmin, domain.ResourceApproval, domain.ActionSubmit, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+tc.resource+"/"+tc.action, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				Resource: tc.resource,
				Action:   tc.action,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestRBACService_PermissionsFor(t *testing.T) {
	svc, err := rbac.NewDefaultService("")
	require.NoError(t, err)

	perms, err := svc.PermissionsFor(domain.RoleAdmin)
	require.NoError(t, err)
	assert.Contains(t, perms, []string{string(domain.RoleAdmin), domain.ResourcePayroll, domain.ActionPay})
	assert.Contains(t, perms, []string{string(domain.RoleHR), domain.ResourceApproval, domain.ActionDecide})
}
