package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestCapabilityTable(t *testing.T) {
	tests := []struct {
		role   domain.UserRole
		action Action
		want   bool
	}{
		{domain.RoleUser, ActionCreateTicket, true},
		{domain.RoleUser, ActionComment, true},
		{domain.RoleUser, ActionViewDashboard, true},
		{domain.RoleUser, ActionTriageTicket, false},
		{domain.RoleUser, ActionInternalComment, false},
		{domain.RoleUser, ActionViewAllTickets, false},
		{domain.RoleUser, ActionDeleteTicket, false},
		{domain.RoleUser, ActionManageUsers, false},

		{domain.RoleTechnician, ActionTriageTicket, true},
		{domain.RoleTechnician, ActionInternalComment, true},
		{domain.RoleTechnician, ActionViewAllTickets, true},
		{domain.RoleTechnician, ActionDeleteTicket, false},
		{domain.RoleTechnician, ActionManageCategory, false},
		{domain.RoleTechnician, ActionManageSettings, false},

		{domain.RoleAdmin, ActionDeleteTicket, true},
		{domain.RoleAdmin, ActionManageCategory, true},
		{domain.RoleAdmin, ActionManageUsers, true},
		{domain.RoleAdmin, ActionManageSettings, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Can(tt.role, tt.action), "%s / %s", tt.role, tt.action)
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	assert.False(t, Can(domain.UserRole("ghost"), ActionCreateTicket))
}
