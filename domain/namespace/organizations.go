package namespace

import (
	"context"
	"time"

	"testhub/authority"
	"testhub/domain"
	"testhub/event"
	"testhub/idgen"
	"testhub/persistence"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	orgIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateOrganizationFunc = CreateOrganization
	QueryOrganizationsFunc = QueryOrganizations
)

// CreateOrganization creates the tenant, grants the creator the ORG_MANAGER
// role, and seeds the full default permission matrix as persisted entries,
// all in one transaction.
func CreateOrganization(c *domain.OrganizationCreation, s *session.Session) (*domain.Organization, error) {
	now := types.CurrentTimestamp()
	org := domain.Organization{
		ID:         idgen.NextID(orgIdWorker),
		Name:       c.Name,
		Identifier: c.Identifier,
		CreatorID:  s.Identity.ID,
		CreateTime: now,
	}

	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		creatorMembership := domain.OrgMember{OrgID: org.ID, MemberID: s.Identity.ID,
			Role: domain.RoleOrgManager, CreateTime: time.Now()}
		if err := tx.Create(&creatorMembership).Error; err != nil {
			return err
		}

		if err := seedDefaultPermissions(org.ID, tx); err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent("ORGANIZATION", org.ID, org.Name, event.EventCategoryCreated, nil, &s.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &org, nil
}

// seedDefaultPermissions materializes the compiled default matrix for a new
// organization. ORG_MANAGER holds no rows: the bypass is not entry driven.
func seedDefaultPermissions(orgId types.ID, tx *gorm.DB) error {
	for _, role := range domain.Roles {
		if role == domain.RoleOrgManager {
			continue
		}
		for _, objectType := range domain.ObjectTypes {
			for _, action := range domain.Actions {
				entry := domain.PermissionEntry{OrgID: orgId, Role: role, ObjectType: objectType, Action: action,
					Allowed: authority.DefaultAllowed(role, objectType, action)}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func QueryOrganizations(s *session.Session) ([]domain.Organization, error) {
	visibleOrgs := s.VisibleOrgs()
	orgs := []domain.Organization{}
	if len(visibleOrgs) == 0 {
		return orgs, nil
	}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where("id IN (?)", visibleOrgs).Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func QueryOrganizationNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	var orgs []domain.Organization
	err := persistence.ActiveDataSourceManager.GormDB(context.TODO()).
		Model(&domain.Organization{}).Where("id IN (?)", ids).Scan(&orgs).Error
	if err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, org := range orgs {
		result[org.ID] = org.Name
	}
	return result, nil
}
