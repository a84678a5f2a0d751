package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitbook/internal/database"
	"fitbook/internal/models"

	"github.com/rs/zerolog"
)

const (
	TaskUpsert       = "upsert"
	TaskUpdateStatus = "update_status"
)

// exportTaskPayload is persisted in ExportTask.Payload as JSON.
type exportTaskPayload struct {
	BookingID int64           `json:"booking_id"`
	Booking   *models.Booking `json:"booking,omitempty"`
}

// ReportWriter regenerates the bookings report from a full snapshot.
type ReportWriter interface {
	WriteBookings(ctx context.Context, bookings []*models.Booking, classes []*models.FitnessClass) error
}

// ExportWorker drains the export_queue and keeps the bookings report current.
// Tasks survive restarts in the database; the in-memory channel only shortens
// the path from enqueue to processing.
type ExportWorker struct {
	db           *database.DB
	writer       ReportWriter
	retryPolicy  RetryPolicy
	queue        chan models.ExportTask
	pollInterval time.Duration
	batchSize    int
	logger       *zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults.
func NewExportWorker(db *database.DB, writer ReportWriter, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		db:           db,
		writer:       writer,
		retryPolicy:  retry,
		queue:        make(chan models.ExportTask, 128),
		pollInterval: 2 * time.Second,
		batchSize:    models.ExportQueueBatchSize,
		logger:       logger,
	}
}

// EnqueueBooking persists a task row and schedules it for processing.
func (w *ExportWorker) EnqueueBooking(ctx context.Context, taskType string, booking *models.Booking) error {
	if taskType == "" {
		return errors.New("task type is required")
	}
	if booking == nil || booking.ID == 0 {
		return errors.New("booking id is required")
	}

	payloadBytes, err := json.Marshal(exportTaskPayload{BookingID: booking.ID, Booking: booking})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := models.ExportTask{
		TaskType:  taskType,
		BookingID: booking.ID,
		Payload:   string(payloadBytes),
		Status:    "pending",
	}

	if err := w.db.CreateExportTask(ctx, &task); err != nil {
		return fmt.Errorf("persist export task: %w", err)
	}

	// Канал — короткий путь; переполнение не страшно, задача дойдёт
	// через опрос очереди.
	select {
	case w.queue <- task:
	default:
		w.logger.Debug().Int64("task_id", task.ID).Msg("export queue channel full, task left for polling")
	}

	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

func (w *ExportWorker) processPending(ctx context.Context) {
	tasks, err := w.db.GetPendingExportTasks(ctx, w.batchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to load pending export tasks")
		return
	}
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.processTask(ctx, task)
	}
}

func (w *ExportWorker) processTask(ctx context.Context, task models.ExportTask) {
	err := w.writeReport(ctx)
	if err == nil {
		if uerr := w.db.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil); uerr != nil {
			w.logger.Error().Err(uerr).Int64("task_id", task.ID).Msg("failed to mark export task completed")
		}
		return
	}

	attempt := int(task.RetryCount) + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Int("attempts", attempt).Msg("export task failed permanently")
		_ = w.db.UpdateExportTaskStatus(ctx, task.ID, "failed", err.Error(), nil)
		return
	}

	next := time.Now().Add(w.retryPolicy.NextDelay(attempt))
	w.logger.Warn().Err(err).Int64("task_id", task.ID).Time("next_retry_at", next).Msg("export task failed, scheduling retry")
	_ = w.db.UpdateExportTaskStatus(ctx, task.ID, "retry", err.Error(), &next)
}

func (w *ExportWorker) writeReport(ctx context.Context) error {
	bookings, err := w.db.GetAllBookings(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	classes, err := w.db.GetClasses(ctx)
	if err != nil {
		return fmt.Errorf("load classes: %w", err)
	}
	return w.writer.WriteBookings(ctx, bookings, classes)
}
