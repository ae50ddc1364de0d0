package testcase

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
	caseIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateTestCaseFunc = CreateTestCase
	DetailTestCaseFunc = DetailTestCase
)

func CreateTestCase(c *domain.TestCaseCreation, s *session.Session) (*domain.TestCase, error) {
	if _, err := authority.RequirePermissionFunc(s, c.OrgID, domain.ObjectTestCase, domain.ActionEdit); err != nil {
		return nil, err
	}

	testCase := domain.TestCase{
		ID:          idgen.NextID(caseIdWorker),
		OrgID:       c.OrgID,
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		CreatorID:   s.Identity.ID,
		CreateTime:  types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&testCase).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent("TEST_CASE", testCase.ID, testCase.Title, event.EventCategoryCreated, nil, &s.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &testCase, nil
}

// QueryTestCases is a read path: visibility is org-wide for members on
// purpose, the guard is deliberately not consulted here.
func QueryTestCases(q *domain.TestCaseQuery, s *session.Session) ([]domain.TestCase, error) {
	testCases := []domain.TestCase{}
	if !s.IsMemberOf(q.OrgID) {
		return testCases, nil
	}

	err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.TestCase{OrgID: q.OrgID}).Order("create_time ASC").Find(&testCases).Error
	if err != nil {
		return nil, err
	}
	return testCases, nil
}

func DetailTestCase(id types.ID, s *session.Session) (*domain.TestCase, error) {
	testCase := domain.TestCase{}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.TestCase{ID: id}).First(&testCase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.IsMemberOf(testCase.OrgID) {
		return nil, bizerror.ErrForbidden
	}
	return &testCase, nil
}

func UpdateTestCase(id types.ID, u *domain.TestCaseUpdating, s *session.Session) (*domain.TestCase, error) {
	var updated domain.TestCase
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		origin := domain.TestCase{}
		if err := tx.Where(&domain.TestCase{ID: id}).First(&origin).Error; err != nil {
			return err
		}
		if _, err := authority.RequirePermissionFunc(s, origin.OrgID, domain.ObjectTestCase, domain.ActionEdit); err != nil {
			return err
		}

		// the projection fields are owned by run completion, never written here
		db := tx.Model(&domain.TestCase{}).Where(&domain.TestCase{ID: id}).
			Update(map[string]interface{}{"title": u.Title, "description": u.Description, "priority": u.Priority})
		if err := db.Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent("TEST_CASE", id, origin.Title, event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "Title", PropertyDesc: "Title",
				OldValue: origin.Title, OldValueDesc: origin.Title,
				NewValue: u.Title, NewValueDesc: u.Title,
			}},
			&s.Identity, tx)
		if err != nil {
			return err
		}

		return tx.Where(&domain.TestCase{ID: id}).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &updated, nil
}

func UpdateTestCaseDebug(id types.ID, debug bool, s *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		origin := domain.TestCase{}
		if err := tx.Where(&domain.TestCase{ID: id}).First(&origin).Error; err != nil {
			return err
		}
		if _, err := authority.RequirePermissionFunc(s, origin.OrgID, domain.ObjectTestCase, domain.ActionEdit); err != nil {
			return err
		}
		return tx.Model(&domain.TestCase{}).Where(&domain.TestCase{ID: id}).
			Update("debug", debug).Error
	})
}

// DeleteTestCase removes the case and all of its runs in one transaction;
// a run never outlives its case.
func DeleteTestCase(id types.ID, s *session.Session) error {
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		origin := domain.TestCase{}
		err := tx.Where(&domain.TestCase{ID: id}).First(&origin).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if _, err := authority.RequirePermissionFunc(s, origin.OrgID, domain.ObjectTestCase, domain.ActionDelete); err != nil {
			return err
		}

		ev, err = event.CreateEvent("TEST_CASE", id, origin.Title, event.EventCategoryDeleted, nil, &s.Identity, tx)
		if err != nil {
			return err
		}

		if err := tx.Delete(domain.TestCase{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(domain.TestRun{}, "test_case_id = ?", id).Error
	})
	if err != nil {
		return err
	}

	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}
