package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		// Создаем директорию для БД, если её нет
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	if path == ":memory:" {
		dsn = "file::memory:?mode=memory&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite допускает только одного писателя; единственное соединение
	// сериализует транзакции вместо ошибок SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("db_path", path).Msg("database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Таблица инструкторов
		`CREATE TABLE IF NOT EXISTS instructors (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            bio TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        )`,
		// Таблица занятий
		`CREATE TABLE IF NOT EXISTS classes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            class_type TEXT NOT NULL CHECK (class_type IN ('YOGA','ZUMBA','HIIT','PILATES')),
            description TEXT NOT NULL DEFAULT '',
            instructor_id INTEGER NOT NULL REFERENCES instructors(id) ON DELETE CASCADE,
            starts_at DATETIME NOT NULL,
            duration_minutes INTEGER NOT NULL CHECK (duration_minutes BETWEEN 30 AND 180),
            total_slots INTEGER NOT NULL CHECK (total_slots BETWEEN 1 AND 50),
            available_slots INTEGER NOT NULL CHECK (available_slots >= 0 AND available_slots <= total_slots),
            days_of_week TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        )`,
		// Таблица бронирований
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            class_id INTEGER NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
            client_name TEXT NOT NULL,
            client_email TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'CONFIRMED' CHECK (status IN ('CONFIRMED','CANCELLED')),
            booked_at DATETIME NOT NULL
        )`,
		// Очередь задач экспорта
		`CREATE TABLE IF NOT EXISTS export_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            booking_id INTEGER NOT NULL,
            payload TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		// Один клиент — одна бронь на занятие, независимо от статуса
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_class_email ON bookings(class_id, client_email)`,

		`CREATE INDEX IF NOT EXISTS idx_classes_instructor_id ON classes(instructor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_classes_starts_at ON classes(starts_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_client_email ON bookings(client_email)`,
		`CREATE INDEX IF NOT EXISTS idx_export_queue_status ON export_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
