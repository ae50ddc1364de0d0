package authority

import (
	"testhub/account"
	"testhub/bizerror"
	"testhub/common"
	"testhub/domain"
	"testhub/event"
	"testhub/persistence"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	QueryPermissionsFunc      = QueryPermissions
	UpsertPermissionEntryFunc = UpsertPermissionEntry
)

// QueryPermissions returns the persisted custom entries of an organization.
// Orgs created before custom edits hold exactly the seeded defaults.
func QueryPermissions(orgId types.ID, s *session.Session) ([]domain.PermissionEntry, error) {
	if _, err := account.FindOrgRoleFunc(s.Identity.ID, orgId); err != nil {
		return nil, err
	}

	entries := []domain.PermissionEntry{}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.PermissionEntry{OrgID: orgId}).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertPermissionEntry idempotently replaces the entry for the unique
// (org, role, objectType, action) key. There is no delete path: resetting a
// rule writes the default value back as an explicit record.
func UpsertPermissionEntry(u *domain.PermissionEntryUpdating, s *session.Session) (*domain.PermissionEntry, error) {
	role, ok := domain.ParseRole(u.Role)
	if !ok {
		return nil, &common.ErrBadParam{}
	}
	objectType, ok := domain.ParseObjectType(u.ObjectType)
	if !ok {
		return nil, &common.ErrBadParam{}
	}
	action, ok := domain.ParseAction(u.Action)
	if !ok {
		return nil, &common.ErrBadParam{}
	}

	actorRole, err := account.FindOrgRoleFunc(s.Identity.ID, u.OrgID)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleOrgManager {
		return nil, bizerror.ErrForbidden
	}

	entry := domain.PermissionEntry{OrgID: u.OrgID, Role: role, ObjectType: objectType, Action: action, Allowed: *u.Allowed}
	var ev *event.EventRecord
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		ev, err = event.CreateEvent("PERMISSION_ENTRY", u.OrgID, string(role)+"/"+string(objectType)+"/"+string(action),
			event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "Allowed", PropertyDesc: "Allowed",
				NewValue: boolString(*u.Allowed), NewValueDesc: boolString(*u.Allowed),
			}},
			&s.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &entry, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
