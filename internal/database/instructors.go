package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitbook/internal/models"

	"github.com/mattn/go-sqlite3"
)

func (db *DB) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	query := `INSERT INTO instructors (name, email, bio, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		instructor.Name,
		instructor.Email,
		instructor.Bio,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateInstructor
		}
		return fmt.Errorf("failed to create instructor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	instructor.ID = id
	instructor.CreatedAt = now

	return nil
}

func (db *DB) GetInstructor(ctx context.Context, id int64) (*models.Instructor, error) {
	var instructor models.Instructor
	query := `SELECT id, name, email, bio, created_at FROM instructors WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&instructor.ID, &instructor.Name, &instructor.Email, &instructor.Bio, &instructor.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstructorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	return &instructor, nil
}

func (db *DB) GetInstructors(ctx context.Context) ([]*models.Instructor, error) {
	query := `SELECT id, name, email, bio, created_at FROM instructors ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.Instructor
	for rows.Next() {
		i := &models.Instructor{}
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.Bio, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan instructor: %w", err)
		}
		instructors = append(instructors, i)
	}
	return instructors, rows.Err()
}

// DeleteInstructor удаляет инструктора; занятия и брони удаляются каскадно.
func (db *DB) DeleteInstructor(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM instructors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete instructor: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrInstructorNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite unique constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
