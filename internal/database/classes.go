package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitbook/internal/models"
)

const classColumns = `id, class_type, description, instructor_id, starts_at,
                      duration_minutes, total_slots, available_slots, days_of_week, created_at`

func (db *DB) CreateClass(ctx context.Context, class *models.FitnessClass) error {
	if err := class.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO classes (
				class_type, description, instructor_id, starts_at,
				duration_minutes, total_slots, available_slots, days_of_week, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		class.ClassType,
		class.Description,
		class.InstructorID,
		class.StartsAt,
		class.DurationMinutes,
		class.TotalSlots,
		class.AvailableSlots,
		class.DaysCSV(),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	class.ID = id
	class.CreatedAt = now

	return nil
}

func (db *DB) GetClass(ctx context.Context, id int64) (*models.FitnessClass, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = ?`
	class, err := scanClass(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

func (db *DB) GetClasses(ctx context.Context) ([]*models.FitnessClass, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY starts_at ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.FitnessClass
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (*models.FitnessClass, error) {
	c := &models.FitnessClass{}
	var daysCSV string
	err := row.Scan(
		&c.ID, &c.ClassType, &c.Description, &c.InstructorID, &c.StartsAt,
		&c.DurationMinutes, &c.TotalSlots, &c.AvailableSlots, &daysCSV, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.DaysOfWeek = models.ParseDaysCSV(daysCSV)
	return c, nil
}
