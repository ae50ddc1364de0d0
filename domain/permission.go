package domain

import (
	"github.com/fundwit/go-commons/types"
)

// PermissionEntry is a persisted, organization-specific permission rule.
// The (org, role, objectType, action) tuple is unique; absence of a row means
// the built-in default applies. Entries are never deleted, only re-saved.
type PermissionEntry struct {
	OrgID      types.ID   `json:"orgId" gorm:"primary_key;auto_increment:false"`
	Role       Role       `json:"role" gorm:"primary_key"`
	ObjectType ObjectType `json:"objectType" gorm:"primary_key"`
	Action     Action     `json:"action" gorm:"primary_key"`
	Allowed    bool       `json:"allowed"`
}

func (r *PermissionEntry) TableName() string {
	return "permission_entries"
}

type PermissionEntryUpdating struct {
	OrgID      types.ID `json:"orgId" validate:"required"`
	Role       string   `json:"role" validate:"required,oneof=ORG_MANAGER PROJECT_MANAGER PRODUCT_OWNER QA_ENGINEER DEVELOPER"`
	ObjectType string   `json:"objectType" validate:"required,oneof=TEST_SUITE TEST_PLAN TEST_CASE TEST_RUN REPORT"`
	Action     string   `json:"action" validate:"required,oneof=READ EDIT DELETE"`
	Allowed    *bool    `json:"allowed" validate:"required"`
}
