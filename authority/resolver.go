package authority

import (
	"context"
	"errors"

	"testhub/common"
	"testhub/domain"
	"testhub/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	IsAllowedFunc = IsAllowed
)

// IsAllowed decides whether a role may perform an action on an object type
// within one organization. Precedence: manager bypass, then the org's custom
// entry, then the compiled default matrix. Denial is a value; the function
// never fails, a storage breakdown resolves to false.
func IsAllowed(orgId types.ID, role domain.Role, objectType domain.ObjectType, action domain.Action) bool {
	if role == domain.RoleOrgManager {
		return true
	}

	entry := domain.PermissionEntry{}
	err := persistence.ActiveDataSourceManager.GormDB(context.TODO()).
		Where(&domain.PermissionEntry{OrgID: orgId, Role: role, ObjectType: objectType, Action: action}).
		First(&entry).Error
	if err == nil {
		return entry.Allowed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		common.Log.Warnf("permission lookup failed, resolving to deny: %v", err)
		return false
	}

	return DefaultAllowed(role, objectType, action)
}
