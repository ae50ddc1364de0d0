package domain

import (
	"github.com/fundwit/go-commons/types"
)

// TestCase carries the lastRunStatus/lastRunAt projection directly on its row,
// so the current execution status of a case is a single-row read. The fields
// always reflect the terminal run with the greatest (executedAt, run id);
// IN_PROGRESS runs never contribute.
type TestCase struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	OrgID       types.ID        `json:"orgId"`
	Title       string          `json:"title"`
	Description string          `json:"description" sql:"type:TEXT"`
	Priority    int             `json:"priority"`
	Debug       bool            `json:"debug"`
	CreatorID   types.ID        `json:"creatorId"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`

	LastRunStatus RunStatus       `json:"lastRunStatus"`
	LastRunAt     types.Timestamp `json:"lastRunAt" sql:"type:DATETIME(6)"`
	LastRunID     types.ID        `json:"lastRunId"`
}

type TestCaseCreation struct {
	OrgID       types.ID `json:"orgId" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
}

type TestCaseUpdating struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type TestCaseQuery struct {
	OrgID types.ID `json:"orgId" form:"orgId" validate:"required"`
}
