package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table.
type Team struct {
	ID        uuid.UUID
	TenantID  string
	Name      string
	Slug      string // unique within the tenant
	CreatedAt time.Time
	UpdatedAt time.Time
}
