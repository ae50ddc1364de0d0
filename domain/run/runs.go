package run

import (
	"errors"

	"testhub/authority"
	"testhub/bizerror"
	"testhub/domain"
	"testhub/event"
	"testhub/idgen"
	"testhub/persistence"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	runIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	StartRunFunc    = StartRun
	CompleteRunFunc = CompleteRun
	DiscardRunFunc  = DiscardRun
)

// StartRun creates a run in IN_PROGRESS with executedAt fixed to now.
// There is no uniqueness constraint across active runs of a case: several
// executors may run the same case at once, each tracked separately.
func StartRun(c *domain.TestRunStarting, s *session.Session) (*domain.TestRun, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	testCase := domain.TestCase{}
	if err := db.Where(&domain.TestCase{ID: c.TestCaseID}).First(&testCase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if _, err := authority.RequirePermissionFunc(s, testCase.OrgID, domain.ObjectTestRun, domain.ActionEdit); err != nil {
		return nil, err
	}

	testRun := domain.TestRun{
		ID:           idgen.NextID(runIdWorker),
		TestCaseID:   c.TestCaseID,
		ExecutedByID: s.Identity.ID,
		ExecutedAt:   types.CurrentTimestamp(),
		Environment:  c.Environment,
		Status:       domain.StatusInProgress,
		Duration:     nil,
		Notes:        c.Notes,
	}

	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&testRun).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent("TEST_RUN", testRun.ID, testCase.Title, event.EventCategoryCreated, nil, &s.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &testRun, nil
}

// CompleteRun finalizes an IN_PROGRESS run with a terminal status and updates
// the owning case's last-run projection in the same transaction. Ownership is
// a predicate of its own: holding a permissive role never allows completing
// someone else's run.
func CompleteRun(runId types.ID, c *domain.TestRunCompletion, s *session.Session) (*domain.TestRun, error) {
	status, ok := domain.ParseTerminalStatus(c.Status)
	if !ok {
		return nil, bizerror.ErrInvalidStatus
	}
	if c.Duration != nil && *c.Duration < 0 {
		return nil, bizerror.ErrInvalidDuration
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	testRun := domain.TestRun{}
	if err := db.Where(&domain.TestRun{ID: runId}).First(&testRun).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotActive
		}
		return nil, err
	}
	testCase := domain.TestCase{}
	if err := db.Where(&domain.TestCase{ID: testRun.TestCaseID}).First(&testCase).Error; err != nil {
		return nil, err
	}

	if _, err := authority.RequirePermissionFunc(s, testCase.OrgID, domain.ObjectTestRun, domain.ActionEdit); err != nil {
		return nil, err
	}
	if testRun.ExecutedByID != s.Identity.ID {
		return nil, bizerror.ErrNotOwner
	}
	if testRun.Status != domain.StatusInProgress {
		return nil, bizerror.ErrNotActive
	}

	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status, "duration": c.Duration}
		if c.Notes != "" {
			updates["notes"] = c.Notes
		}
		// the status condition makes racing completers lose deterministically
		query := tx.Model(&domain.TestRun{}).
			Where("id = ? AND status = ?", runId, domain.StatusInProgress).
			Update(updates)
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrNotActive
		}

		if err := applyTerminalRun(tx, testRun.TestCaseID, runId, status, testRun.ExecutedAt); err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent("TEST_RUN", runId, testCase.Title, event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "Status", PropertyDesc: "Status",
				OldValue: string(domain.StatusInProgress), OldValueDesc: string(domain.StatusInProgress),
				NewValue: string(status), NewValueDesc: string(status),
			}},
			&s.Identity, tx)
		if err != nil {
			return err
		}

		return tx.Where(&domain.TestRun{ID: runId}).First(&testRun).Error
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &testRun, nil
}

// DiscardRun deletes an IN_PROGRESS run. A discarded run was never terminal,
// so the projection is left untouched.
func DiscardRun(runId types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	testRun := domain.TestRun{}
	if err := db.Where(&domain.TestRun{ID: runId}).First(&testRun).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotActive
		}
		return err
	}
	testCase := domain.TestCase{}
	if err := db.Where(&domain.TestCase{ID: testRun.TestCaseID}).First(&testCase).Error; err != nil {
		return err
	}

	if _, err := authority.RequirePermissionFunc(s, testCase.OrgID, domain.ObjectTestRun, domain.ActionEdit); err != nil {
		return err
	}
	if testRun.ExecutedByID != s.Identity.ID {
		return bizerror.ErrNotOwner
	}
	if testRun.Status != domain.StatusInProgress {
		return bizerror.ErrNotActive
	}

	var ev *event.EventRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ? AND status = ?", runId, domain.StatusInProgress).Delete(&domain.TestRun{})
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrNotActive
		}

		var err error
		ev, err = event.CreateEvent("TEST_RUN", runId, testCase.Title, event.EventCategoryDeleted, nil, &s.Identity, tx)
		return err
	})
	if err != nil {
		return err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}

// QueryRuns lists the runs of a case, the most recently started first.
func QueryRuns(q *domain.TestRunQuery, s *session.Session) ([]domain.TestRun, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	runs := []domain.TestRun{}
	testCase := domain.TestCase{}
	if err := db.Where(&domain.TestCase{ID: q.TestCaseID}).Select("org_id").First(&testCase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return runs, nil
		}
		return nil, err
	}
	if !s.IsMemberOf(testCase.OrgID) {
		return runs, nil
	}

	if err := db.Where(&domain.TestRun{TestCaseID: q.TestCaseID}).
		Order("executed_at DESC, id DESC").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
