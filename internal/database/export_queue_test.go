package database

import (
	"context"
	"testing"
	"time"

	"fitbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportQueue_CreateAndFetch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	task := &models.ExportTask{
		TaskType:  "upsert",
		BookingID: 1,
		Payload:   `{"booking_id":1}`,
		Status:    "pending",
	}
	err := db.CreateExportTask(ctx, task)
	require.NoError(t, err)
	assert.NotZero(t, task.ID)

	tasks, err := db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "upsert", tasks[0].TaskType)
	assert.Equal(t, int64(1), tasks[0].BookingID)
}

func TestExportQueue_RetryScheduling(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	task := &models.ExportTask{TaskType: "upsert", BookingID: 2, Status: "pending"}
	require.NoError(t, db.CreateExportTask(ctx, task))

	// Задача с будущим next_retry_at не должна попадать в выборку.
	future := time.Now().Add(time.Hour)
	err := db.UpdateExportTaskStatus(ctx, task.ID, "retry", "temporary failure", &future)
	require.NoError(t, err)

	tasks, err := db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// А с прошедшим — должна, с увеличенным счетчиком попыток.
	past := time.Now().Add(-time.Minute)
	err = db.UpdateExportTaskStatus(ctx, task.ID, "retry", "temporary failure", &past)
	require.NoError(t, err)

	tasks, err = db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(2), tasks[0].RetryCount)
	assert.Equal(t, "temporary failure", tasks[0].LastError)
}

func TestExportQueue_CompletedAndFailed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	done := &models.ExportTask{TaskType: "upsert", BookingID: 3, Status: "pending"}
	broken := &models.ExportTask{TaskType: "update_status", BookingID: 4, Status: "pending"}
	require.NoError(t, db.CreateExportTask(ctx, done))
	require.NoError(t, db.CreateExportTask(ctx, broken))

	require.NoError(t, db.UpdateExportTaskStatus(ctx, done.ID, "completed", "", nil))
	require.NoError(t, db.UpdateExportTaskStatus(ctx, broken.ID, "failed", "gave up", nil))

	pending, err := db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	failed, err := db.GetFailedExportTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, broken.ID, failed[0].ID)
	assert.Equal(t, "gave up", failed[0].LastError)
	require.NotNil(t, failed[0].ProcessedAt)
}
