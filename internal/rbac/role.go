// Package rbac holds the role model shared by every tenant-scoped operation:
// the role set, the hierarchy table and the whitelist check.
package rbac

import (
	"fmt"
	"strings"
)

// Role is a tenant role as stored in role_assignments.role.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleCoach       Role = "coach"
	RolePlayer      Role = "player"
)

// AllRoles lists every role from most to least privileged.
var AllRoles = []Role{RoleSuperAdmin, RoleTenantAdmin, RoleCoach, RolePlayer}

// ParseRole converts a stored or user-supplied string into a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ParseRoles converts every element of ss, failing on the first unknown role.
func ParseRoles(ss []string) ([]Role, error) {
	roles := make([]Role, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// Strings converts roles to their stored form.
func Strings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func joinRoles(roles []Role) string {
	return strings.Join(Strings(roles), ", ")
}
