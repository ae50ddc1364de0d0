package namespace_test

import (
	"context"

	"testhub/account"
	"testhub/authority"
	"testhub/domain"
	"testhub/domain/namespace"
	"testhub/event"
	"testhub/persistence"
	"testhub/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("organization manage", func() {
	var testDatabase *testinfra.TestDatabase

	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("testhub")
		persistence.ActiveDataSourceManager = testDatabase.DS
		db := testDatabase.DS.GormDB(context.TODO())
		Expect(db.AutoMigrate(&account.User{}, &domain.Organization{}, &domain.OrgMember{},
			&domain.PermissionEntry{}, &event.EventRecord{}).Error).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("CreateOrganization", func() {
		It("should create the org with the creator as ORG_MANAGER", func() {
			s := testinfra.BuildSession(10)
			org, err := namespace.CreateOrganization(&domain.OrganizationCreation{Name: "acme", Identifier: "ACM"}, s)
			Expect(err).To(BeNil())
			Expect(org.ID).NotTo(BeZero())
			Expect(org.CreatorID).To(Equal(types.ID(10)))

			db := testDatabase.DS.GormDB(context.TODO())
			membership := domain.OrgMember{}
			Expect(db.Where("org_id = ? AND member_id = ?", org.ID, 10).First(&membership).Error).To(BeNil())
			Expect(membership.Role).To(Equal(domain.RoleOrgManager))

			events := []event.EventRecord{}
			Expect(db.Find(&events).Error).To(BeNil())
			Expect(len(events)).To(Equal(1))
			Expect(events[0].SourceType).To(Equal("ORGANIZATION"))
		})

		It("should seed one permission entry per role, object type and action", func() {
			s := testinfra.BuildSession(10)
			org, err := namespace.CreateOrganization(&domain.OrganizationCreation{Name: "acme", Identifier: "ACM"}, s)
			Expect(err).To(BeNil())

			db := testDatabase.DS.GormDB(context.TODO())
			entries := []domain.PermissionEntry{}
			Expect(db.Where("org_id = ?", org.ID).Find(&entries).Error).To(BeNil())
			// ORG_MANAGER holds no rows, the bypass is not entry driven
			Expect(len(entries)).To(Equal((len(domain.Roles) - 1) * len(domain.ObjectTypes) * len(domain.Actions)))

			for _, entry := range entries {
				Expect(entry.Role).NotTo(Equal(domain.RoleOrgManager))
				Expect(entry.Allowed).To(Equal(authority.DefaultAllowed(entry.Role, entry.ObjectType, entry.Action)))
			}
		})
	})

	Describe("QueryOrganizations", func() {
		It("should list only the organizations the session is a member of", func() {
			creator := testinfra.BuildSession(10)
			visible, err := namespace.CreateOrganization(&domain.OrganizationCreation{Name: "acme", Identifier: "ACM"}, creator)
			Expect(err).To(BeNil())
			_, err = namespace.CreateOrganization(&domain.OrganizationCreation{Name: "umbrella", Identifier: "UMB"},
				testinfra.BuildSession(20))
			Expect(err).To(BeNil())

			s := testinfra.BuildSession(10, domain.OrgRole{OrgID: visible.ID, OrgName: "acme", Role: domain.RoleOrgManager})
			orgs, err := namespace.QueryOrganizations(s)
			Expect(err).To(BeNil())
			Expect(len(orgs)).To(Equal(1))
			Expect(orgs[0].ID).To(Equal(visible.ID))

			orgs, err = namespace.QueryOrganizations(testinfra.BuildSession(99))
			Expect(err).To(BeNil())
			Expect(orgs).To(BeEmpty())
		})
	})

	Describe("QueryOrganizationNames", func() {
		It("should map ids to names", func() {
			creator := testinfra.BuildSession(10)
			org, err := namespace.CreateOrganization(&domain.OrganizationCreation{Name: "acme", Identifier: "ACM"}, creator)
			Expect(err).To(BeNil())

			names, err := namespace.QueryOrganizationNames([]types.ID{org.ID, 404})
			Expect(err).To(BeNil())
			Expect(names).To(Equal(map[types.ID]string{org.ID: "acme"}))

			names, err = namespace.QueryOrganizationNames([]types.ID{})
			Expect(err).To(BeNil())
			Expect(names).To(BeEmpty())
		})
	})
})
