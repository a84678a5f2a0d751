package service

import (
	"context"
	"strings"

	"fitbook/internal/database"
	"fitbook/internal/domain"
	"fitbook/internal/events"
	"fitbook/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: CONFIRMED on creation, CANCELLED
// as the only transition out. All slot accounting happens inside the
// repository's transactions; the service orchestrates and maps errors.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	exporter domain.ExportEnqueuer
	cache    domain.ClassCache
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, exporter domain.ExportEnqueuer, cache domain.ClassCache, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		exporter: exporter,
		cache:    cache,
		logger:   logger,
	}
}

// CreateBooking reserves a slot and records a CONFIRMED booking for the
// client. The duplicate pre-check gives a clean error; the unique index on
// (class_id, client_email) inside the creation transaction remains the
// authoritative guard under races.
func (s *BookingService) CreateBooking(ctx context.Context, classID int64, clientName, clientEmail string) (*models.Booking, error) {
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	exists, err := s.repo.HasBooking(ctx, classID, clientEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, database.ErrDuplicateBooking
	}

	booking := &models.Booking{
		ClassID:     classID,
		ClientName:  clientName,
		ClientEmail: clientEmail,
	}
	if err := s.repo.CreateBookingWithSlot(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueExport(ctx, "upsert", booking)
	s.invalidateCache(ctx)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("class_id", classID).
		Str("client_email", clientEmail).
		Msg("booking created")

	return booking, nil
}

// CancelBooking flips the booking to CANCELLED and releases its slot inside
// one transaction. Cancelling again is a no-op: alreadyCancelled is true and
// no state changes. An email mismatch reads as booking not found.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, clientEmail string) (alreadyCancelled bool, err error) {
	released, err := s.repo.CancelBooking(ctx, bookingID, clientEmail)
	if err != nil {
		return false, err
	}
	if !released {
		return true, nil
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err == nil {
		s.publishEvent(events.EventBookingCancelled, booking)
		s.enqueueExport(ctx, "update_status", booking)
	}
	s.invalidateCache(ctx)

	s.logger.Info().
		Int64("booking_id", bookingID).
		Str("client_email", clientEmail).
		Msg("booking cancelled")

	return false, nil
}

// ListBookings returns the client's bookings. An empty email is rejected:
// listing all bookings unfiltered is intentionally disallowed.
func (s *BookingService) ListBookings(ctx context.Context, clientEmail string) ([]*models.Booking, error) {
	if strings.TrimSpace(clientEmail) == "" {
		return nil, database.ErrMissingEmail
	}
	return s.repo.GetBookingsByEmail(ctx, clientEmail)
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ClassID:     booking.ClassID,
		ClientName:  booking.ClientName,
		ClientEmail: booking.ClientEmail,
		Status:      booking.Status,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context, taskType string, booking *models.Booking) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.EnqueueBooking(ctx, taskType, booking); err != nil {
		// Экспорт не должен ронять бронирование.
		s.logger.Warn().Err(err).Int64("booking_id", booking.ID).Msg("failed to enqueue export task")
	}
}

func (s *BookingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate class list cache")
	}
}
