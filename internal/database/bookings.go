package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitbook/internal/models"
)

const bookingColumns = `id, class_id, client_name, client_email, status, booked_at`

// CreateBookingWithSlot атомарно списывает место и создает бронирование.
// Списание и вставка строки выполняются в одной транзакции: либо есть и то
// и другое, либо ничего.
func (db *DB) CreateBookingWithSlot(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 1. Условное списание: проверка и декремент одним оператором.
	result, err := tx.ExecContext(ctx,
		`UPDATE classes SET available_slots = available_slots - 1 WHERE id = ? AND available_slots > 0`,
		booking.ClassID,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM classes WHERE id = ?`, booking.ClassID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check class existence: %w", err)
		}
		if exists == 0 {
			return ErrClassNotFound
		}
		return ErrNoSlots
	}

	// 2. Строка бронирования в той же транзакции; уникальный индекс
	// (class_id, client_email) — последний рубеж против дублей.
	now := time.Now()
	result, err = tx.ExecContext(ctx,
		`INSERT INTO bookings (class_id, client_name, client_email, status, booked_at) VALUES (?, ?, ?, ?, ?)`,
		booking.ClassID,
		booking.ClientName,
		booking.ClientEmail,
		models.StatusConfirmed,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Status = models.StatusConfirmed
	booking.BookedAt = now

	return tx.Commit()
}

// CancelBooking переводит бронь в CANCELLED и возвращает место занятию в одной
// транзакции. Повторная отмена — no-op: возвращает released=false без ошибки.
// Несовпадение email трактуется как отсутствие брони.
func (db *DB) CancelBooking(ctx context.Context, bookingID int64, clientEmail string) (released bool, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var classID int64
	var status, ownerEmail string
	err = tx.QueryRowContext(ctx,
		`SELECT class_id, client_email, status FROM bookings WHERE id = ?`, bookingID,
	).Scan(&classID, &ownerEmail, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrBookingNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get booking: %w", err)
	}
	if ownerEmail != clientEmail {
		return false, ErrBookingNotFound
	}
	if status == models.StatusCancelled {
		return false, nil
	}

	// Статусный guard гарантирует, что место вернется ровно один раз.
	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		models.StatusCancelled, bookingID, models.StatusConfirmed,
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	// Возврат места с потолком total_slots.
	_, err = tx.ExecContext(ctx,
		`UPDATE classes SET available_slots = MIN(available_slots + 1, total_slots) WHERE id = ?`,
		classID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to release slot: %w", err)
	}

	return true, tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.Status, &b.BookedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (db *DB) GetBookingsByEmail(ctx context.Context, clientEmail string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE client_email = ? ORDER BY booked_at ASC, id ASC`
	rows, err := db.QueryContext(ctx, query, clientEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by email: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(&b.ID, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.Status, &b.BookedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// HasBooking reports whether any booking row exists for the pair, in any status.
func (db *DB) HasBooking(ctx context.Context, classID int64, clientEmail string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = ? AND client_email = ?`,
		classID, clientEmail,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check booking existence: %w", err)
	}
	return count > 0, nil
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY booked_at ASC, id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(&b.ID, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.Status, &b.BookedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
