package namespace

import (
	"errors"
	"time"

	"testhub/account"
	"testhub/bizerror"
	"testhub/common"
	"testhub/domain"
	"testhub/persistence"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	QueryOrganizationNamesFunc = QueryOrganizationNames
	QueryAccountNamesFunc      = account.QueryAccountNames
)

type OrgMemberDetail struct {
	domain.OrgMember

	OrgName    string `json:"orgName"`
	MemberName string `json:"memberName"`
}

// GrantOrgMember creates or replaces a membership. Managing memberships is an
// ORG_MANAGER concern; managers can not re-grade themselves, and the grant
// replaces any previous role since a member holds exactly one role per org.
func GrantOrgMember(d *domain.OrgMemberGrant, s *session.Session) error {
	role, ok := domain.ParseRole(d.Role)
	if !ok {
		return &common.ErrBadParam{}
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		actorRole, err := account.FindOrgRoleFunc(s.Identity.ID, d.OrgID)
		if err != nil {
			return err
		}
		if actorRole != domain.RoleOrgManager {
			return bizerror.ErrForbidden
		}
		if s.Identity.ID == d.MemberID {
			return bizerror.ErrSelfGrant
		}

		user := account.User{ID: d.MemberID}
		if err := tx.Model(&account.User{}).Where(&user).First(&user).Error; err != nil {
			return err
		}

		if role != domain.RoleOrgManager {
			demoted, err := isLastManager(tx, d.OrgID, d.MemberID)
			if err != nil {
				return err
			}
			if demoted {
				return bizerror.ErrLastOrgManager
			}
		}

		record := domain.OrgMember{OrgID: d.OrgID, MemberID: d.MemberID, Role: role, CreateTime: time.Now()}
		return tx.Save(&record).Error
	})
}

func RevokeOrgMember(d *domain.OrgMemberDeletion, s *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		actorRole, err := account.FindOrgRoleFunc(s.Identity.ID, d.OrgID)
		if err != nil {
			return err
		}
		if actorRole != domain.RoleOrgManager {
			return bizerror.ErrForbidden
		}

		record := domain.OrgMember{}
		if err := tx.Where("org_id = ? AND member_id = ?", d.OrgID, d.MemberID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if record.Role == domain.RoleOrgManager {
			last, err := isLastManager(tx, d.OrgID, d.MemberID)
			if err != nil {
				return err
			}
			if last {
				return bizerror.ErrLastOrgManager
			}
		}

		return tx.Where("org_id = ? AND member_id = ?", d.OrgID, d.MemberID).Delete(&domain.OrgMember{}).Error
	})
}

// isLastManager reports whether the given member is currently the only
// ORG_MANAGER of the organization.
func isLastManager(tx *gorm.DB, orgId, memberId types.ID) (bool, error) {
	current := domain.OrgMember{}
	err := tx.Where("org_id = ? AND member_id = ?", orgId, memberId).First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if current.Role != domain.RoleOrgManager {
		return false, nil
	}

	var otherManagerCount int
	err = tx.Model(&domain.OrgMember{}).
		Where("org_id = ? AND member_id != ? AND role = ?", orgId, memberId, domain.RoleOrgManager).
		Count(&otherManagerCount).Error
	if err != nil {
		return false, err
	}
	return otherManagerCount == 0, nil
}

func QueryOrgMemberDetails(orgId types.ID, s *session.Session) ([]OrgMemberDetail, error) {
	if _, err := account.FindOrgRoleFunc(s.Identity.ID, orgId); err != nil {
		return nil, err
	}

	var members []domain.OrgMember
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Model(&domain.OrgMember{}).Where(&domain.OrgMember{OrgID: orgId}).Find(&members).Error
	if err != nil {
		return nil, err
	}

	var orgIds []types.ID
	var memberIds []types.ID
	for _, m := range members {
		orgIds = append(orgIds, m.OrgID)
		memberIds = append(memberIds, m.MemberID)
	}

	orgNames, err := QueryOrganizationNamesFunc(orgIds)
	if err != nil {
		return nil, err
	}
	memberNames, err := QueryAccountNamesFunc(memberIds)
	if err != nil {
		return nil, err
	}

	details := []OrgMemberDetail{}
	for _, m := range members {
		detail := OrgMemberDetail{OrgMember: m, OrgName: "Unknown", MemberName: "Unknown"}
		if name, found := orgNames[m.OrgID]; found {
			detail.OrgName = name
		}
		if name, found := memberNames[m.MemberID]; found {
			detail.MemberName = name
		}
		details = append(details, detail)
	}
	return details, nil
}
