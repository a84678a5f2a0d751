package database

import "errors"

var (
	// ErrClassNotFound возвращается, когда занятие с указанным ID отсутствует.
	ErrClassNotFound = errors.New("fitness class not found")

	// ErrInstructorNotFound возвращается, когда инструктор с указанным ID отсутствует.
	ErrInstructorNotFound = errors.New("instructor not found")

	// ErrBookingNotFound возвращается, когда бронирование отсутствует или
	// принадлежит другому клиенту.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNoSlots возвращается, когда у занятия не осталось свободных мест.
	ErrNoSlots = errors.New("no slots available")

	// ErrDuplicateBooking возвращается при повторном бронировании той же пары
	// (занятие, email) независимо от статуса предыдущей брони.
	ErrDuplicateBooking = errors.New("booking already exists for this class and email")

	// ErrDuplicateInstructor возвращается при попытке создать инструктора
	// с уже занятым email.
	ErrDuplicateInstructor = errors.New("instructor with this email already exists")

	// ErrMissingEmail возвращается, когда список бронирований запрошен без фильтра.
	ErrMissingEmail = errors.New("client_email is required")
)
