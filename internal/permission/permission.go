package permission

import "strings"

// Permission is one key of the closed capability set.
type Permission string

const (
	CanManageProducts   Permission = "canManageProducts"
	CanManageCategories Permission = "canManageCategories"
	CanManageOrders     Permission = "canManageOrders"
	CanManageCustomers  Permission = "canManageCustomers"
	CanViewReports      Permission = "canViewReports"
	CanManageSettings   Permission = "canManageSettings"
	CanManageUsers      Permission = "canManageUsers"
	CanViewCustomers    Permission = "canViewCustomers"
)

// All lists every permission in display order.
func All() []Permission {
	return []Permission{
		CanManageProducts,
		CanManageCategories,
		CanManageOrders,
		CanManageCustomers,
		CanViewReports,
		CanManageSettings,
		CanManageUsers,
		CanViewCustomers,
	}
}

func (p Permission) Valid() bool {
	for _, known := range All() {
		if p == known {
			return true
		}
	}
	return false
}

// Set is the boolean permission record attached to a role.
type Set struct {
	CanManageProducts   bool `json:"canManageProducts"`
	CanManageCategories bool `json:"canManageCategories"`
	CanManageOrders     bool `json:"canManageOrders"`
	CanManageCustomers  bool `json:"canManageCustomers"`
	CanViewReports      bool `json:"canViewReports"`
	CanManageSettings   bool `json:"canManageSettings"`
	CanManageUsers      bool `json:"canManageUsers"`
	CanViewCustomers    bool `json:"canViewCustomers"`
}

// Has reports whether p is granted. Unknown keys are never granted.
func (s Set) Has(p Permission) bool {
	switch p {
	case CanManageProducts:
		return s.CanManageProducts
	case CanManageCategories:
		return s.CanManageCategories
	case CanManageOrders:
		return s.CanManageOrders
	case CanManageCustomers:
		return s.CanManageCustomers
	case CanViewReports:
		return s.CanViewReports
	case CanManageSettings:
		return s.CanManageSettings
	case CanManageUsers:
		return s.CanManageUsers
	case CanViewCustomers:
		return s.CanViewCustomers
	}
	return false
}

// Granted returns the keys set to true.
func (s Set) Granted() []Permission {
	granted := make([]Permission, 0, len(All()))
	for _, p := range All() {
		if s.Has(p) {
			granted = append(granted, p)
		}
	}
	return granted
}

// FromList builds a Set from keys, ignoring unknown ones.
func FromList(perms []Permission) Set {
	var s Set
	for _, p := range perms {
		switch p {
		case CanManageProducts:
			s.CanManageProducts = true
		case CanManageCategories:
			s.CanManageCategories = true
		case CanManageOrders:
			s.CanManageOrders = true
		case CanManageCustomers:
			s.CanManageCustomers = true
		case CanViewReports:
			s.CanViewReports = true
		case CanManageSettings:
			s.CanManageSettings = true
		case CanManageUsers:
			s.CanManageUsers = true
		case CanViewCustomers:
			s.CanViewCustomers = true
		}
	}
	return s
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

var systemRoles = map[string]Set{
	RoleAdmin: FromList(All()),
	RoleManager: {
		CanManageProducts:   true,
		CanManageCategories: true,
		CanManageOrders:     true,
		CanManageCustomers:  true,
		CanViewReports:      true,
		CanViewCustomers:    true,
	},
	RoleCashier: {
		CanManageOrders:  true,
		CanViewCustomers: true,
	},
}

var systemRoleDescriptions = map[string]string{
	RoleAdmin:   "Full access to every store function",
	RoleManager: "Runs the floor: catalog, orders and reports",
	RoleCashier: "Takes orders at the register",
}

// SystemRoleNames returns the built-in role names in a stable order.
func SystemRoleNames() []string {
	return []string{RoleAdmin, RoleManager, RoleCashier}
}

// IsSystemRole matches the literal, case-sensitive built-in names.
func IsSystemRole(name string) bool {
	_, ok := systemRoles[name]
	return ok
}

// IsReservedName also catches case variants so custom roles cannot shadow a built-in one.
func IsReservedName(name string) bool {
	return IsSystemRole(strings.ToLower(strings.TrimSpace(name)))
}

// SystemSet returns the fixed set of a built-in role.
func SystemSet(name string) (Set, bool) {
	s, ok := systemRoles[name]
	return s, ok
}

func SystemDescription(name string) string {
	return systemRoleDescriptions[name]
}
