package tenant

import "time"

// Tenant represents a row in the tenants table. Every user, team and game
// belongs to exactly one tenant.
type Tenant struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Invite is a reusable sign-up link that binds new users to a tenant.
type Invite struct {
	ID        string
	TenantID  string
	CreatedAt time.Time
}
