package run

import (
	"testhub/bizerror"
	"testhub/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

const projectionRetryLimit = 3

// applyTerminalRun conditionally overwrites the case's lastRunStatus,
// lastRunAt and lastRunId with the completed run's values. The write only
// lands when the run orders after the projected one by (executedAt, run id),
// so a run completing late with an older executedAt can never regress the
// projection, and equal executedAt values order deterministically by run id.
//
// A zero-row conditional update is verified against a fresh read before being
// trusted: a run ordering after this one having won the race is the expected
// outcome, everything else is retried a bounded number of times.
func applyTerminalRun(tx *gorm.DB, testCaseId types.ID, runId types.ID, status domain.RunStatus, executedAt types.Timestamp) error {
	for attempt := 0; attempt < projectionRetryLimit; attempt++ {
		query := tx.Model(&domain.TestCase{}).
			Where("id = ? AND (last_run_at = ? OR last_run_at < ? OR (last_run_at = ? AND last_run_id < ?))",
				testCaseId, types.Timestamp{}, executedAt, executedAt, runId).
			Update(map[string]interface{}{"last_run_status": status, "last_run_at": executedAt, "last_run_id": runId})
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected == 1 {
			return nil
		}

		// either a later-ordered run already owns the projection, or the row
		// carries the same values (MySQL reports identical updates as zero rows)
		fresh := domain.TestCase{}
		if err := tx.Where(&domain.TestCase{ID: testCaseId}).First(&fresh).Error; err != nil {
			return err
		}
		if fresh.LastRunStatus != "" && !fresh.LastRunAt.Time().Before(executedAt.Time()) {
			if fresh.LastRunAt.Time().After(executedAt.Time()) || fresh.LastRunID >= runId {
				return nil
			}
		}
	}
	return bizerror.ErrConcurrentUpdate
}
