// Команда seed наполняет базу демонстрационными данными:
// инструкторы, расписание занятий и несколько бронирований.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"fitbook/internal/config"
	"fitbook/internal/database"
	"fitbook/internal/logging"
	"fitbook/internal/models"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := baseLogger.With().Str("component", "seed").Logger()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := wipe(ctx, db); err != nil {
		return err
	}

	instructors, err := seedInstructors(ctx, db)
	if err != nil {
		return err
	}

	classes, err := seedClasses(ctx, db, instructors)
	if err != nil {
		return err
	}

	if err := seedBookings(ctx, db, classes); err != nil {
		return err
	}

	logger.Info().
		Int("instructors", len(instructors)).
		Int("classes", len(classes)).
		Msg("seed complete")
	return nil
}

// wipe очищает все таблицы перед повторным наполнением.
func wipe(ctx context.Context, db *database.DB) error {
	for _, table := range []string{"export_queue", "bookings", "classes", "instructors"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return nil
}

func seedInstructors(ctx context.Context, db *database.DB) ([]*models.Instructor, error) {
	instructors := []*models.Instructor{
		{Name: "Jane Smith", Email: "jane.smith@fitbook.example", Bio: "Certified yoga instructor, 8 years of practice."},
		{Name: "John Doe", Email: "john.doe@fitbook.example", Bio: "HIIT and functional training coach."},
		{Name: "Emma Wilson", Email: "emma.wilson@fitbook.example", Bio: "Zumba and dance fitness specialist."},
	}

	for _, instructor := range instructors {
		if err := db.CreateInstructor(ctx, instructor); err != nil {
			return nil, fmt.Errorf("seed instructor %s: %w", instructor.Email, err)
		}
	}
	return instructors, nil
}

func seedClasses(ctx context.Context, db *database.DB, instructors []*models.Instructor) ([]*models.FitnessClass, error) {
	ist, err := time.LoadLocation(models.DefaultZone)
	if err != nil {
		return nil, fmt.Errorf("load default zone: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	weekdayPairs := [][]string{
		{"MON", "WED", "FRI"},
		{"TUE", "THU"},
		{"SAT", "SUN"},
	}

	classes := make([]*models.FitnessClass, 0, 10)
	for i := 0; i < 10; i++ {
		classType := models.ClassTypes[rng.Intn(len(models.ClassTypes))]
		instructor := instructors[rng.Intn(len(instructors))]
		startHour := 6 + rng.Intn(14)
		startsAt := time.Now().In(ist).AddDate(0, 0, 1+i).Truncate(time.Hour)
		startsAt = time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day(), startHour, 0, 0, 0, ist)

		totalSlots := int64(5 + rng.Intn(16))
		class := &models.FitnessClass{
			ClassType:       classType,
			Description:     fmt.Sprintf("%s session with %s", classType, instructor.Name),
			InstructorID:    instructor.ID,
			StartsAt:        startsAt,
			DurationMinutes: int64(30 + 15*rng.Intn(7)),
			TotalSlots:      totalSlots,
			AvailableSlots:  totalSlots,
			DaysOfWeek:      weekdayPairs[rng.Intn(len(weekdayPairs))],
		}
		if err := db.CreateClass(ctx, class); err != nil {
			return nil, fmt.Errorf("seed class %d: %w", i, err)
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func seedBookings(ctx context.Context, db *database.DB, classes []*models.FitnessClass) error {
	clients := []struct {
		name  string
		email string
	}{
		{"Alice Brown", "alice@example.com"},
		{"Bob Green", "bob@example.com"},
	}

	for i, class := range classes {
		if i >= 3 {
			break
		}
		for _, client := range clients {
			booking := &models.Booking{
				ClassID:     class.ID,
				ClientName:  client.name,
				ClientEmail: client.email,
			}
			if err := db.CreateBookingWithSlot(ctx, booking); err != nil {
				return fmt.Errorf("seed booking for %s: %w", client.email, err)
			}
		}
	}
	return nil
}
