package namespace_test

import (
	"context"
	"errors"
	"time"

	"testhub/account"
	"testhub/bizerror"
	"testhub/common"
	"testhub/domain"
	"testhub/domain/namespace"
	"testhub/event"
	"testhub/persistence"
	"testhub/session"
	"testhub/testinfra"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("org member manage", func() {
	var (
		testDatabase *testinfra.TestDatabase

		managerSession *session.Session
	)

	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("testhub")
		persistence.ActiveDataSourceManager = testDatabase.DS
		db := testDatabase.DS.GormDB(context.TODO())
		Expect(db.AutoMigrate(&account.User{}, &domain.Organization{}, &domain.OrgMember{},
			&domain.PermissionEntry{}, &event.EventRecord{}).Error).To(BeNil())

		Expect(db.Create(&account.User{ID: 10, Name: "ann", Secret: "x"}).Error).To(BeNil())
		Expect(db.Create(&account.User{ID: 20, Name: "bob", Secret: "x"}).Error).To(BeNil())
		Expect(db.Create(&account.User{ID: 30, Name: "cee", Secret: "x"}).Error).To(BeNil())
		Expect(db.Create(&domain.Organization{ID: 1, Name: "acme", Identifier: "ACM"}).Error).To(BeNil())
		Expect(db.Create(&domain.OrgMember{OrgID: 1, MemberID: 10, Role: domain.RoleOrgManager, CreateTime: time.Now()}).Error).To(BeNil())

		managerSession = testinfra.BuildSession(10, domain.OrgRole{OrgID: 1, Role: domain.RoleOrgManager})
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("GrantOrgMember", func() {
		It("should create the membership and replace it on a second grant", func() {
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "DEVELOPER"},
				managerSession)).To(BeNil())

			db := testDatabase.DS.GormDB(context.TODO())
			record := domain.OrgMember{}
			Expect(db.Where("org_id = ? AND member_id = ?", 1, 20).First(&record).Error).To(BeNil())
			Expect(record.Role).To(Equal(domain.RoleDeveloper))

			// a member holds exactly one role per org
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "QA_ENGINEER"},
				managerSession)).To(BeNil())
			var count int
			Expect(db.Model(&domain.OrgMember{}).Where("org_id = ? AND member_id = ?", 1, 20).Count(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
			Expect(db.Where("org_id = ? AND member_id = ?", 1, 20).First(&record).Error).To(BeNil())
			Expect(record.Role).To(Equal(domain.RoleQaEngineer))
		})

		It("should reject unknown roles", func() {
			err := namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "SUPERUSER"}, managerSession)
			badParam := &common.ErrBadParam{}
			Expect(errors.As(err, &badParam)).To(BeTrue())
		})

		It("should be a manager-only operation", func() {
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "DEVELOPER"},
				managerSession)).To(BeNil())

			devSession := testinfra.BuildSession(20, domain.OrgRole{OrgID: 1, Role: domain.RoleDeveloper})
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 30, Role: "DEVELOPER"},
				devSession)).To(Equal(bizerror.ErrForbidden))

			outsider := testinfra.BuildSession(99)
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 30, Role: "DEVELOPER"},
				outsider)).To(Equal(bizerror.ErrNotAMember))
		})

		It("should refuse self grants", func() {
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 10, Role: "DEVELOPER"},
				managerSession)).To(Equal(bizerror.ErrSelfGrant))
		})

		It("should refuse grants to unknown users", func() {
			err := namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 404, Role: "DEVELOPER"}, managerSession)
			Expect(err).NotTo(BeNil())
		})

		It("should strip granting power from a demoted manager", func() {
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "ORG_MANAGER"},
				managerSession)).To(BeNil())

			// with a second manager in place the demotion goes through
			secondManager := testinfra.BuildSession(20, domain.OrgRole{OrgID: 1, Role: domain.RoleOrgManager})
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 10, Role: "DEVELOPER"},
				secondManager)).To(BeNil())

			// the role is read per call, a stale manager session carries no power
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "DEVELOPER"},
				managerSession)).To(Equal(bizerror.ErrForbidden))
		})
	})

	Describe("RevokeOrgMember", func() {
		It("should remove the membership", func() {
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "DEVELOPER"},
				managerSession)).To(BeNil())

			Expect(namespace.RevokeOrgMember(&domain.OrgMemberDeletion{OrgID: 1, MemberID: 20}, managerSession)).To(BeNil())

			var count int
			Expect(testDatabase.DS.GormDB(context.TODO()).Model(&domain.OrgMember{}).
				Where("org_id = ? AND member_id = ?", 1, 20).Count(&count).Error).To(BeNil())
			Expect(count).To(BeZero())
		})

		It("should be idempotent for unknown memberships", func() {
			Expect(namespace.RevokeOrgMember(&domain.OrgMemberDeletion{OrgID: 1, MemberID: 404}, managerSession)).To(BeNil())
		})

		It("should keep at least one ORG_MANAGER", func() {
			Expect(namespace.RevokeOrgMember(&domain.OrgMemberDeletion{OrgID: 1, MemberID: 10},
				managerSession)).To(Equal(bizerror.ErrLastOrgManager))

			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "ORG_MANAGER"},
				managerSession)).To(BeNil())
			Expect(namespace.RevokeOrgMember(&domain.OrgMemberDeletion{OrgID: 1, MemberID: 10},
				managerSession)).To(BeNil())
		})
	})

	Describe("QueryOrgMemberDetails", func() {
		It("should list memberships with resolved names for members", func() {
			Expect(namespace.GrantOrgMember(&domain.OrgMemberGrant{OrgID: 1, MemberID: 20, Role: "DEVELOPER"},
				managerSession)).To(BeNil())

			details, err := namespace.QueryOrgMemberDetails(1, managerSession)
			Expect(err).To(BeNil())
			Expect(len(details)).To(Equal(2))

			byMember := map[string]namespace.OrgMemberDetail{}
			for _, d := range details {
				byMember[d.MemberName] = d
				Expect(d.OrgName).To(Equal("acme"))
			}
			Expect(byMember["ann"].Role).To(Equal(domain.RoleOrgManager))
			Expect(byMember["bob"].Role).To(Equal(domain.RoleDeveloper))
		})

		It("should be hidden from non-members", func() {
			_, err := namespace.QueryOrgMemberDetails(1, testinfra.BuildSession(99))
			Expect(err).To(Equal(bizerror.ErrNotAMember))
		})
	})
})
