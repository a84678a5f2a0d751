package models

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	ClassID     int64     `json:"class_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Status      string    `json:"status"` // CONFIRMED, CANCELLED
	BookedAt    time.Time `json:"booked_at"`
}

// ExportTask is a durable unit of work for the bookings export worker.
type ExportTask struct {
	ID          int64      `json:"id"`
	TaskType    string     `json:"task_type"` // upsert, update_status
	BookingID   int64      `json:"booking_id"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"` // pending, retry, completed, failed
	RetryCount  int64      `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}
