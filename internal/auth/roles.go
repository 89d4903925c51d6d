package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Action names a role-gated operation. The same capability table drives both
// route guards and service-level mutation checks.
type Action string

const (
	ActionCreateTicket    Action = "ticket:create"
	ActionTriageTicket    Action = "ticket:triage"
	ActionDeleteTicket    Action = "ticket:delete"
	ActionComment         Action = "ticket:comment"
	ActionInternalComment Action = "ticket:internal_comment"
	ActionViewAllTickets  Action = "ticket:view_all"
	ActionManageCategory  Action = "category:manage"
	ActionManageUsers     Action = "user:manage"
	ActionManageSettings  Action = "settings:manage"
	ActionViewDashboard   Action = "dashboard:view"
)

var capabilities = map[domain.UserRole]map[Action]bool{
	domain.RoleUser: {
		ActionCreateTicket:  true,
		ActionComment:       true,
		ActionViewDashboard: true,
	},
	domain.RoleTechnician: {
		ActionCreateTicket:    true,
		ActionTriageTicket:    true,
		ActionComment:         true,
		ActionInternalComment: true,
		ActionViewAllTickets:  true,
		ActionViewDashboard:   true,
	},
	domain.RoleAdmin: {
		ActionCreateTicket:    true,
		ActionTriageTicket:    true,
		ActionDeleteTicket:    true,
		ActionComment:         true,
		ActionInternalComment: true,
		ActionViewAllTickets:  true,
		ActionManageCategory:  true,
		ActionManageUsers:     true,
		ActionManageSettings:  true,
		ActionViewDashboard:   true,
	},
}

// Can reports whether the role is permitted to perform the action.
func Can(role domain.UserRole, action Action) bool {
	return capabilities[role][action]
}

// Require returns a route guard enforcing the capability.
func Require(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Can(principal.User.Role, action) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present without checking role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
