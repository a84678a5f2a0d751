package domain

import (
	"context"

	"fitbook/internal/models"
)

// Repository is the storage surface the services depend on. The concrete
// implementation lives in internal/database.
type Repository interface {
	CreateInstructor(ctx context.Context, instructor *models.Instructor) error
	GetInstructor(ctx context.Context, id int64) (*models.Instructor, error)
	GetInstructors(ctx context.Context) ([]*models.Instructor, error)
	DeleteInstructor(ctx context.Context, id int64) error

	CreateClass(ctx context.Context, class *models.FitnessClass) error
	GetClass(ctx context.Context, id int64) (*models.FitnessClass, error)
	GetClasses(ctx context.Context) ([]*models.FitnessClass, error)

	CreateBookingWithSlot(ctx context.Context, booking *models.Booking) error
	CancelBooking(ctx context.Context, bookingID int64, clientEmail string) (released bool, err error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingsByEmail(ctx context.Context, clientEmail string) ([]*models.Booking, error)
	HasBooking(ctx context.Context, classID int64, clientEmail string) (bool, error)
}

// ClassCache caches localized class-list projections per timezone.
type ClassCache interface {
	Get(ctx context.Context, zone string) ([]models.ClassSummary, error)
	Set(ctx context.Context, zone string, summaries []models.ClassSummary) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportEnqueuer schedules a booking snapshot for the report exporter.
type ExportEnqueuer interface {
	EnqueueBooking(ctx context.Context, taskType string, booking *models.Booking) error
}
