package board

import (
	"context"

	"github.com/tgienger/taskboard/internal/db"
)

// allocatePosition returns the position for a new subtask of taskID. A
// requested position above zero is kept; otherwise the subtask goes after
// the highest active sibling. Deleted siblings never count.
func allocatePosition(ctx context.Context, tx *db.Tx, taskID int64, requested *int) (int, error) {
	if requested != nil && *requested > 0 {
		return *requested, nil
	}
	maxPos, err := tx.MaxActivePosition(ctx, taskID)
	if err != nil {
		return 0, err
	}
	return maxPos + 1, nil
}
