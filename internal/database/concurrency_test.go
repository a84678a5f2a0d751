package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"fitbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentBooking_LastSlot(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	instructor := createTestInstructor(t, db, "race@example.com")
	class := createTestClass(t, db, instructor.ID, 1)

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			booking := &models.Booking{
				ClassID:     class.ID,
				ClientName:  "Racer",
				ClientEmail: fmt.Sprintf("racer%d@example.com", id),
			}
			results <- db.CreateBookingWithSlot(ctx, booking)
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	noSlotsCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, ErrNoSlots):
			noSlotsCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Ровно одна бронь проходит, остальные получают отказ по местам.
	assert.Equal(t, 1, successCount)
	assert.Equal(t, numGoroutines-1, noSlotsCount)

	got, err := db.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.AvailableSlots)

	bookings, err := db.GetAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestConcurrentBookAndCancel_SlotsStayInBounds(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "bounds.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	instructor := createTestInstructor(t, db, "bounds@example.com")
	class := createTestClass(t, db, instructor.ID, 5)

	const numClients = 20
	var wg sync.WaitGroup
	wg.Add(numClients)

	for i := 0; i < numClients; i++ {
		go func(id int) {
			defer wg.Done()
			booking := &models.Booking{
				ClassID:     class.ID,
				ClientName:  "Client",
				ClientEmail: fmt.Sprintf("bounds%d@example.com", id),
			}
			if err := db.CreateBookingWithSlot(ctx, booking); err != nil {
				return
			}
			if id%2 == 0 {
				_, _ = db.CancelBooking(ctx, booking.ID, booking.ClientEmail)
			}
		}(i)
	}

	wg.Wait()

	got, err := db.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.AvailableSlots, int64(0))
	assert.LessOrEqual(t, got.AvailableSlots, got.TotalSlots)

	// Сверяем счетчик мест с фактическим числом активных броней.
	var confirmed int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = ? AND status = ?`,
		class.ID, models.StatusConfirmed,
	).Scan(&confirmed)
	require.NoError(t, err)
	assert.Equal(t, got.TotalSlots-confirmed, got.AvailableSlots)
}
