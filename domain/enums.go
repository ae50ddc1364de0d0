package domain

// Role is a member's fixed capability tier within one organization.
// A user holds exactly one role per organization.
type Role string

const (
	RoleOrgManager     Role = "ORG_MANAGER"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleProductOwner   Role = "PRODUCT_OWNER"
	RoleQaEngineer     Role = "QA_ENGINEER"
	RoleDeveloper      Role = "DEVELOPER"
)

var Roles = []Role{RoleOrgManager, RoleProjectManager, RoleProductOwner, RoleQaEngineer, RoleDeveloper}

func ParseRole(raw string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == raw {
			return r, true
		}
	}
	return "", false
}

type ObjectType string

const (
	ObjectTestSuite ObjectType = "TEST_SUITE"
	ObjectTestPlan  ObjectType = "TEST_PLAN"
	ObjectTestCase  ObjectType = "TEST_CASE"
	ObjectTestRun   ObjectType = "TEST_RUN"
	ObjectReport    ObjectType = "REPORT"
)

var ObjectTypes = []ObjectType{ObjectTestSuite, ObjectTestPlan, ObjectTestCase, ObjectTestRun, ObjectReport}

func ParseObjectType(raw string) (ObjectType, bool) {
	for _, o := range ObjectTypes {
		if string(o) == raw {
			return o, true
		}
	}
	return "", false
}

type Action string

const (
	ActionRead   Action = "READ"
	ActionEdit   Action = "EDIT"
	ActionDelete Action = "DELETE"
)

var Actions = []Action{ActionRead, ActionEdit, ActionDelete}

func ParseAction(raw string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == raw {
			return a, true
		}
	}
	return "", false
}

// RunStatus is the lifecycle state of a test run. A run is created in
// StatusInProgress and ends in one of the terminal statuses, or is deleted.
type RunStatus string

const (
	StatusInProgress RunStatus = "IN_PROGRESS"
	StatusPass       RunStatus = "PASS"
	StatusFail       RunStatus = "FAIL"
	StatusBlocked    RunStatus = "BLOCKED"
	StatusSkipped    RunStatus = "SKIPPED"
)

var TerminalStatuses = []RunStatus{StatusPass, StatusFail, StatusBlocked, StatusSkipped}

func (s RunStatus) IsTerminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

func ParseTerminalStatus(raw string) (RunStatus, bool) {
	for _, t := range TerminalStatuses {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}
