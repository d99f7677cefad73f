package board

import (
	"context"
	"time"

	"github.com/tgienger/taskboard/internal/db"
)

// cascadeDelete soft-deletes an active task and every one of its active
// subtasks with the same timestamp. It must run inside a single transaction;
// the task's completion fields are left frozen.
func cascadeDelete(ctx context.Context, tx *db.Tx, taskID int64, at time.Time) error {
	if _, err := activeTask(ctx, tx, taskID); err != nil {
		return err
	}
	if err := tx.MarkTaskDeleted(ctx, taskID, at); err != nil {
		return err
	}
	_, err := tx.MarkSubtasksDeleted(ctx, taskID, at)
	return err
}
