package database

import (
	"context"
	"testing"
	"time"

	"fitbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClass(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	instructor := createTestInstructor(t, db, "yoga@example.com")

	class := &models.FitnessClass{
		ClassType:       models.ClassPilates,
		Description:     "Evening pilates",
		InstructorID:    instructor.ID,
		StartsAt:        time.Now().AddDate(0, 0, 2),
		DurationMinutes: 45,
		TotalSlots:      12,
		AvailableSlots:  12,
		DaysOfWeek:      []string{"TUE", "THU"},
	}
	err := db.CreateClass(ctx, class)
	require.NoError(t, err)
	assert.NotZero(t, class.ID)

	got, err := db.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassPilates, got.ClassType)
	assert.Equal(t, int64(12), got.AvailableSlots)
	assert.Equal(t, []string{"TUE", "THU"}, got.DaysOfWeek)
}

func TestCreateClass_Invalid(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	instructor := createTestInstructor(t, db, "valid@example.com")

	tests := []struct {
		name  string
		class models.FitnessClass
	}{
		{
			name: "unknown class type",
			class: models.FitnessClass{
				ClassType: "CROSSFIT", InstructorID: instructor.ID,
				StartsAt: time.Now(), DurationMinutes: 60, TotalSlots: 10, AvailableSlots: 10,
			},
		},
		{
			name: "duration too short",
			class: models.FitnessClass{
				ClassType: models.ClassYoga, InstructorID: instructor.ID,
				StartsAt: time.Now(), DurationMinutes: 15, TotalSlots: 10, AvailableSlots: 10,
			},
		},
		{
			name: "too many slots",
			class: models.FitnessClass{
				ClassType: models.ClassYoga, InstructorID: instructor.ID,
				StartsAt: time.Now(), DurationMinutes: 60, TotalSlots: 51, AvailableSlots: 51,
			},
		},
		{
			name: "available exceeds total",
			class: models.FitnessClass{
				ClassType: models.ClassYoga, InstructorID: instructor.ID,
				StartsAt: time.Now(), DurationMinutes: 60, TotalSlots: 10, AvailableSlots: 11,
			},
		},
		{
			name: "bad weekday",
			class: models.FitnessClass{
				ClassType: models.ClassYoga, InstructorID: instructor.ID,
				StartsAt: time.Now(), DurationMinutes: 60, TotalSlots: 10, AvailableSlots: 10,
				DaysOfWeek: []string{"MONDAY"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.CreateClass(ctx, &tt.class)
			assert.Error(t, err)
		})
	}
}

func TestGetClass_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetClass(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestGetClasses_OrderedByStart(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	instructor := createTestInstructor(t, db, "order@example.com")

	base := time.Now()
	later := &models.FitnessClass{
		ClassType: models.ClassHIIT, InstructorID: instructor.ID,
		StartsAt: base.AddDate(0, 0, 5), DurationMinutes: 30, TotalSlots: 5, AvailableSlots: 5,
	}
	earlier := &models.FitnessClass{
		ClassType: models.ClassZumba, InstructorID: instructor.ID,
		StartsAt: base.AddDate(0, 0, 1), DurationMinutes: 60, TotalSlots: 5, AvailableSlots: 5,
	}
	require.NoError(t, db.CreateClass(ctx, later))
	require.NoError(t, db.CreateClass(ctx, earlier))

	classes, err := db.GetClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, earlier.ID, classes[0].ID)
	assert.Equal(t, later.ID, classes[1].ID)
}
