package authority

import (
	"testhub/account"
	"testhub/bizerror"
	"testhub/common"
	"testhub/domain"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
)

var (
	RequirePermissionFunc = RequirePermission
)

// RequirePermission is the request-time authorization check called before any
// mutation. It resolves the actor's role inside the target organization and
// consults the resolver. On success the resolved role is returned, so callers
// can branch on it without a second membership lookup.
func RequirePermission(s *session.Session, orgId types.ID, objectType domain.ObjectType, action domain.Action) (domain.Role, error) {
	if _, ok := domain.ParseObjectType(string(objectType)); !ok {
		return "", &common.ErrBadParam{}
	}
	if _, ok := domain.ParseAction(string(action)); !ok {
		return "", &common.ErrBadParam{}
	}

	role, err := account.FindOrgRoleFunc(s.Identity.ID, orgId)
	if err != nil {
		return "", err
	}

	if !IsAllowedFunc(orgId, role, objectType, action) {
		return "", &bizerror.ErrPermissionDenied{Role: string(role), ObjectType: string(objectType), Action: string(action)}
	}
	return role, nil
}
