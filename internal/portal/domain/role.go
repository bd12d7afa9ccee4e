package domain

import "slices"

// Role is the closed set of portal roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Dashboard is the landing path after login when no intended URL is pending.
func (r Role) Dashboard() string {
	if !r.Valid() {
		return "/"
	}
	return "/" + string(r) + "/dashboard"
}

// Permission names a capability granted to one or more roles.
type Permission string

const (
	PermViewProfile       Permission = "view_profile"
	PermManageOwnSessions Permission = "manage_own_sessions"
	PermBorrowInstruments Permission = "borrow_instruments"
	PermManageInstruments Permission = "manage_instruments"
	PermManageRequests    Permission = "manage_requests"
	PermManageUsers       Permission = "manage_users"
	PermViewSecurityLogs  Permission = "view_security_logs"
	PermManageSettings    Permission = "manage_settings"
)

var rolePermissions = map[Role][]Permission{
	RoleStudent: {
		PermViewProfile,
		PermManageOwnSessions,
		PermBorrowInstruments,
	},
	RoleStaff: {
		PermViewProfile,
		PermManageOwnSessions,
		PermBorrowInstruments,
		PermManageInstruments,
		PermManageRequests,
	},
	RoleAdmin: {
		PermViewProfile,
		PermManageOwnSessions,
		PermManageInstruments,
		PermManageRequests,
		PermManageUsers,
		PermViewSecurityLogs,
		PermManageSettings,
	},
}

// Has reports whether the role is granted p.
func (r Role) Has(p Permission) bool {
	return slices.Contains(rolePermissions[r], p)
}

// Permissions returns a copy of the permissions granted to r.
func (r Role) Permissions() []Permission {
	return slices.Clone(rolePermissions[r])
}

// Requirement describes what a route demands of an authenticated caller. An
// empty Requirement admits any authenticated user with a valid role.
type Requirement struct {
	Roles      []Role
	Permission Permission
}

// RequireRoles admits only the listed roles.
func RequireRoles(roles ...Role) Requirement { return Requirement{Roles: roles} }

// RequirePermission admits roles granted p.
func RequirePermission(p Permission) Requirement { return Requirement{Permission: p} }

// Decision is the outcome of an authorization check.
type Decision int

const (
	DecisionDenied Decision = iota
	DecisionAllowed
	DecisionUnknownRole
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionUnknownRole:
		return "unknown_role"
	default:
		return "denied"
	}
}

// Authorize checks role against req. Anything other than DecisionAllowed must
// be treated as a refusal.
func Authorize(role Role, req Requirement) Decision {
	if !role.Valid() {
		return DecisionUnknownRole
	}
	if len(req.Roles) > 0 && !slices.Contains(req.Roles, role) {
		return DecisionDenied
	}
	if req.Permission != "" && !role.Has(req.Permission) {
		return DecisionDenied
	}
	return DecisionAllowed
}
