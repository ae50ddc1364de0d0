package session

import (
	"context"
	"time"

	"testhub/domain"

	"github.com/fundwit/go-commons/types"
)

type Session struct {
	Token    string           `json:"token"`
	Identity Identity         `json:"identity"`
	OrgRoles []domain.OrgRole `json:"orgRoles"`

	SigningTime time.Time `json:"-"`

	Context context.Context `json:"-"`
}

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

func (s *Session) Clone() Session {
	c := *s
	c.OrgRoles = append([]domain.OrgRole{}, s.OrgRoles...)
	return c
}

// VisibleOrgs lists the organizations the session holder is a member of,
// used by read paths to scope org-wide visibility.
func (s *Session) VisibleOrgs() []types.ID {
	orgIds := []types.ID{}
	for _, r := range s.OrgRoles {
		orgIds = append(orgIds, r.OrgID)
	}
	return orgIds
}

func (s *Session) IsMemberOf(orgId types.ID) bool {
	for _, r := range s.OrgRoles {
		if r.OrgID == orgId {
			return true
		}
	}
	return false
}
