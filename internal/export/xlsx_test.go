package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fitbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookings(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.Nop()
	writer := NewXLSXWriter(dir, &logger)

	startsAt := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	classes := []*models.FitnessClass{
		{ID: 1, ClassType: models.ClassYoga, StartsAt: startsAt},
	}
	bookings := []*models.Booking{
		{
			ID:          10,
			ClassID:     1,
			ClientName:  "Alice",
			ClientEmail: "alice@example.com",
			Status:      models.StatusConfirmed,
			BookedAt:    startsAt.Add(-24 * time.Hour),
		},
		{
			ID:          11,
			ClassID:     99, // класс удален, в отчете остается только ID
			ClientName:  "Bob",
			ClientEmail: "bob@example.com",
			Status:      models.StatusCancelled,
			BookedAt:    startsAt.Add(-12 * time.Hour),
		},
	}

	err := writer.WriteBookings(context.Background(), bookings, classes)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "bookings.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Client email", rows[0][4])

	assert.Equal(t, "10", rows[1][0])
	assert.Equal(t, "YOGA #1", rows[1][1])
	assert.Equal(t, "alice@example.com", rows[1][4])
	assert.Equal(t, models.StatusConfirmed, rows[1][5])

	assert.Equal(t, "#99", rows[2][1])
	assert.Equal(t, models.StatusCancelled, rows[2][5])
}

func TestWriteBookings_EmptySnapshot(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.Nop()
	writer := NewXLSXWriter(dir, &logger)

	err := writer.WriteBookings(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "bookings.xlsx"))
}

func TestWriteBookings_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	logger := zerolog.Nop()
	writer := NewXLSXWriter(dir, &logger)

	err := writer.WriteBookings(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "bookings.xlsx"))
}
