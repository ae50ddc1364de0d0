package domain

import (
	"github.com/fundwit/go-commons/types"
)

// TestRun is one execution attempt of a TestCase. Ownership is fixed at
// creation: only the starter may complete or discard the run while it is
// IN_PROGRESS, and a terminal run is immutable.
type TestRun struct {
	ID           types.ID        `json:"id" gorm:"primary_key"`
	TestCaseID   types.ID        `json:"testCaseId"`
	ExecutedByID types.ID        `json:"executedById"`
	ExecutedAt   types.Timestamp `json:"executedAt" sql:"type:DATETIME(6)"`
	Environment  string          `json:"environment"`
	Status       RunStatus       `json:"status"`
	Duration     *int64          `json:"duration"` // elapsed milliseconds, nil while IN_PROGRESS or unmeasured
	Notes        string          `json:"notes" sql:"type:TEXT"`
}

type TestRunStarting struct {
	TestCaseID  types.ID `json:"testCaseId" validate:"required"`
	Environment string   `json:"environment"`
	Notes       string   `json:"notes"`
}

type TestRunCompletion struct {
	Status   string `json:"status" validate:"required,oneof=PASS FAIL BLOCKED SKIPPED"`
	Duration *int64 `json:"duration" validate:"omitempty,gte=0"`
	Notes    string `json:"notes"`
}

type TestRunQuery struct {
	TestCaseID types.ID `json:"testCaseId" form:"testCaseId" validate:"required"`
}
