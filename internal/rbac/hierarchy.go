package rbac

import "slices"

// hierarchy maps each role to the roles its holder may act as. It is the only
// place the ordering between roles is written down.
var hierarchy = map[Role][]Role{
	RoleSuperAdmin:  {RoleSuperAdmin, RoleTenantAdmin, RoleCoach, RolePlayer},
	RoleTenantAdmin: {RoleTenantAdmin, RoleCoach, RolePlayer},
	RoleCoach:       {RoleCoach, RolePlayer},
	RolePlayer:      {RolePlayer},
}

// ActsAs reports whether a holder of role may act as target.
func ActsAs(role, target Role) bool {
	return slices.Contains(hierarchy[role], target)
}

// AtLeast returns the whitelist of roles accepted for an operation whose
// minimum role is minimum, ordered from most to least privileged.
func AtLeast(minimum Role) []Role {
	var out []Role
	for _, r := range AllRoles {
		if ActsAs(r, minimum) {
			out = append(out, r)
		}
	}
	return out
}
