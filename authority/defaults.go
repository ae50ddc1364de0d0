package authority

import (
	"testhub/domain"
)

type actionSet map[domain.Action]bool

func grants(read, edit, del bool) actionSet {
	return actionSet{domain.ActionRead: read, domain.ActionEdit: edit, domain.ActionDelete: del}
}

// DefaultMatrix is the built-in permission matrix applied when an organization
// holds no custom entry for a (role, objectType, action) key. ORG_MANAGER is
// absent on purpose: managers bypass resolution entirely.
//
// The values encode the product's capability tiers and are business policy,
// not structural law; the zero-override conformance test pins them.
var DefaultMatrix = map[domain.Role]map[domain.ObjectType]actionSet{
	domain.RoleProjectManager: {
		domain.ObjectTestSuite: grants(true, true, true),
		domain.ObjectTestPlan:  grants(true, true, true),
		domain.ObjectTestCase:  grants(true, true, true),
		domain.ObjectTestRun:   grants(true, true, true),
		domain.ObjectReport:    grants(true, true, false),
	},
	domain.RoleProductOwner: {
		domain.ObjectTestSuite: grants(true, true, false),
		domain.ObjectTestPlan:  grants(true, true, true),
		domain.ObjectTestCase:  grants(true, true, true),
		domain.ObjectTestRun:   grants(true, true, false),
		domain.ObjectReport:    grants(true, true, false),
	},
	domain.RoleQaEngineer: {
		domain.ObjectTestSuite: grants(true, true, false),
		domain.ObjectTestPlan:  grants(true, true, false),
		domain.ObjectTestCase:  grants(true, true, false),
		domain.ObjectTestRun:   grants(true, true, true),
		domain.ObjectReport:    grants(true, false, false),
	},
	domain.RoleDeveloper: {
		domain.ObjectTestSuite: grants(true, false, false),
		domain.ObjectTestPlan:  grants(true, false, false),
		domain.ObjectTestCase:  grants(true, false, false),
		domain.ObjectTestRun:   grants(true, true, false),
		domain.ObjectReport:    grants(true, false, false),
	},
}

// DefaultAllowed looks up the compiled default matrix, fail-closed.
func DefaultAllowed(role domain.Role, objectType domain.ObjectType, action domain.Action) bool {
	byObject, found := DefaultMatrix[role]
	if !found {
		return false
	}
	byAction, found := byObject[objectType]
	if !found {
		return false
	}
	return byAction[action]
}
