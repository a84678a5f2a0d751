package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitbook/internal/database"
	"fitbook/internal/events"
	"fitbook/internal/models"
	"fitbook/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExporter struct {
	mu    sync.Mutex
	tasks []string
}

func (r *recordingExporter) EnqueueBooking(ctx context.Context, taskType string, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, taskType)
	return nil
}

func (r *recordingExporter) taskTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tasks...)
}

type testEnv struct {
	db       *database.DB
	bookings *BookingService
	classes  *ClassService
	exporter *recordingExporter
	bus      *events.EventBus
	cache    *repository.MemoryClassCache
}

func setupTestEnv(t *testing.T) *testEnv {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	cache := repository.NewMemoryClassCache(time.Minute)
	exporter := &recordingExporter{}

	return &testEnv{
		db:       db,
		bookings: NewBookingService(db, bus, exporter, cache, &logger),
		classes:  NewClassService(db, cache, bus, &logger),
		exporter: exporter,
		bus:      bus,
		cache:    cache,
	}
}

func (e *testEnv) createClass(t *testing.T, totalSlots int64) *models.FitnessClass {
	ctx := context.Background()
	instructor := &models.Instructor{Name: "Coach", Email: "coach-" + t.Name() + "@example.com"}
	require.NoError(t, e.db.CreateInstructor(ctx, instructor))

	class := &models.FitnessClass{
		ClassType:       models.ClassZumba,
		InstructorID:    instructor.ID,
		StartsAt:        time.Now().AddDate(0, 0, 1),
		DurationMinutes: 60,
		TotalSlots:      totalSlots,
	}
	require.NoError(t, e.classes.CreateClass(ctx, class))
	return class
}

func TestBookingService_CreateBooking(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	class := env.createClass(t, 5)

	var created []int64
	env.bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		var payload events.BookingEventPayload
		require.NoError(t, event.Unmarshal(&payload))
		created = append(created, payload.BookingID)
		return nil
	})

	booking, err := env.bookings.CreateBooking(ctx, class.ID, "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, booking.Status)

	got, err := env.db.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.AvailableSlots)

	assert.Equal(t, []int64{booking.ID}, created)
	assert.Equal(t, []string{"upsert"}, env.exporter.taskTypes())
}

func TestBookingService_CreateBooking_ClassNotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.bookings.CreateBooking(context.Background(), 404, "Ghost", "ghost@example.com")
	assert.ErrorIs(t, err, database.ErrClassNotFound)
}

func TestBookingService_CreateBooking_Duplicate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	class := env.createClass(t, 5)

	_, err := env.bookings.CreateBooking(ctx, class.ID, "Bob", "bob@example.com")
	require.NoError(t, err)

	_, err = env.bookings.CreateBooking(ctx, class.ID, "Bob", "bob@example.com")
	assert.ErrorIs(t, err, database.ErrDuplicateBooking)

	got, err := env.db.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.AvailableSlots)
}

func TestBookingService_CreateBooking_NoSlots(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	class := env.createClass(t, 1)

	_, err := env.bookings.CreateBooking(ctx, class.ID, "First", "first@example.com")
	require.NoError(t, err)

	_, err = env.bookings.CreateBooking(ctx, class.ID, "Second", "second@example.com")
	assert.ErrorIs(t, err, database.ErrNoSlots)
}

func TestBookingService_CancelBooking(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	class := env.createClass(t, 2)

	cancelledEvents := 0
	env.bus.Subscribe(events.EventBookingCancelled, func(event *events.Event) error {
		cancelledEvents++
		return nil
	})

	booking, err := env.bookings.CreateBooking(ctx, class.ID, "Kim", "kim@example.com")
	require.NoError(t, err)

	alreadyCancelled, err := env.bookings.CancelBooking(ctx, booking.ID, "kim@example.com")
	require.NoError(t, err)
	assert.False(t, alreadyCancelled)
	assert.Equal(t, 1, cancelledEvents)
	assert.Equal(t, []string{"upsert", "update_status"}, env.exporter.taskTypes())

	got, err := env.db.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.AvailableSlots)

	// Повторная отмена ничего не меняет и не публикует событий.
	alreadyCancelled, err = env.bookings.CancelBooking(ctx, booking.ID, "kim@example.com")
	require.NoError(t, err)
	assert.True(t, alreadyCancelled)
	assert.Equal(t, 1, cancelledEvents)
}

func TestBookingService_CancelBooking_WrongEmail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	class := env.createClass(t, 2)

	booking, err := env.bookings.CreateBooking(ctx, class.ID, "Ana", "ana@example.com")
	require.NoError(t, err)

	_, err = env.bookings.CancelBooking(ctx, booking.ID, "someone@example.com")
	assert.ErrorIs(t, err, database.ErrBookingNotFound)
}

func TestBookingService_ListBookings_RequiresEmail(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.bookings.ListBookings(context.Background(), "  ")
	assert.ErrorIs(t, err, database.ErrMissingEmail)
}

func TestBookingService_ListBookings(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	first := env.createClass(t, 3)

	_, err := env.bookings.CreateBooking(ctx, first.ID, "Pat", "pat@example.com")
	require.NoError(t, err)

	bookings, err := env.bookings.ListBookings(ctx, "pat@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, first.ID, bookings[0].ClassID)
}

func TestBookingService_InvalidatesClassCache(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	class := env.createClass(t, 3)

	// Прогреваем кэш списком занятий.
	before, err := env.classes.ListClasses(ctx, "")
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, int64(3), before[0].AvailableSlots)

	_, err = env.bookings.CreateBooking(ctx, class.ID, "Eve", "eve@example.com")
	require.NoError(t, err)

	after, err := env.classes.ListClasses(ctx, "")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(2), after[0].AvailableSlots)
}
