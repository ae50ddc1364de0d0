package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Organization struct {
	ID         types.ID        `json:"id" gorm:"primary_key"`
	Name       string          `json:"name"`
	Identifier string          `json:"identifier"`
	CreatorID  types.ID        `json:"creatorId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
}

type OrganizationCreation struct {
	Name       string `json:"name" validate:"required"`
	Identifier string `json:"identifier" validate:"required,lte=6"`
}

// OrgMember binds a user to an organization with exactly one role.
type OrgMember struct {
	OrgID      types.ID  `json:"orgId" gorm:"primary_key;auto_increment:false"`
	MemberID   types.ID  `json:"memberId" gorm:"primary_key;auto_increment:false"`
	Role       Role      `json:"role"`
	CreateTime time.Time `json:"createTime"`
}

func (r *OrgMember) TableName() string {
	return "org_members"
}

type OrgMemberGrant struct {
	OrgID    types.ID `json:"orgId" validate:"required"`
	MemberID types.ID `json:"memberId" validate:"required"`
	Role     string   `json:"role" validate:"required,oneof=ORG_MANAGER PROJECT_MANAGER PRODUCT_OWNER QA_ENGINEER DEVELOPER"`
}

type OrgMemberDeletion struct {
	OrgID    types.ID `json:"orgId" validate:"required"`
	MemberID types.ID `json:"memberId" validate:"required"`
}

type OrgRole struct {
	OrgID   types.ID `json:"orgId"`
	OrgName string   `json:"orgName"`
	Role    Role     `json:"role"`
}
