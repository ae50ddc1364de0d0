package account

import (
	"context"
	"errors"

	"testhub/bizerror"
	"testhub/domain"
	"testhub/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	FindOrgRoleFunc = FindOrgRole
)

// FindOrgRole resolves the role an actor holds inside an organization, the
// membership collaborator of the authorization guard. Absent membership is
// reported as bizerror.ErrNotAMember.
func FindOrgRole(memberId, orgId types.ID) (domain.Role, error) {
	member := domain.OrgMember{}
	err := persistence.ActiveDataSourceManager.GormDB(context.TODO()).
		Where(&domain.OrgMember{OrgID: orgId, MemberID: memberId}).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", bizerror.ErrNotAMember
		}
		return "", err
	}
	return member.Role, nil
}

// LoadOrgRoles collects the memberships of a user with organization names,
// carried in the session for read-path visibility.
func LoadOrgRoles(uid types.ID) ([]domain.OrgRole, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.TODO())

	var memberships []domain.OrgMember
	if err := db.Model(&domain.OrgMember{}).Where(&domain.OrgMember{MemberID: uid}).Scan(&memberships).Error; err != nil {
		return nil, err
	}

	orgRoles := []domain.OrgRole{}
	if len(memberships) == 0 {
		return orgRoles, nil
	}

	var orgIds []types.ID
	for _, m := range memberships {
		orgIds = append(orgIds, m.OrgID)
	}
	var orgs []domain.Organization
	if err := db.Model(&domain.Organization{}).Where("id IN (?)", orgIds).Scan(&orgs).Error; err != nil {
		return nil, err
	}
	orgNames := map[types.ID]string{}
	for _, org := range orgs {
		orgNames[org.ID] = org.Name
	}

	for _, m := range memberships {
		orgRoles = append(orgRoles, domain.OrgRole{OrgID: m.OrgID, OrgName: orgNames[m.OrgID], Role: m.Role})
	}
	return orgRoles, nil
}
