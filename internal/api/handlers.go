package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"fitbook/internal/database"
	"fitbook/internal/metrics"
	"fitbook/internal/models"
)

func (s *HTTPServer) handleClasses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listClasses(w, r)
	case http.MethodPost:
		s.createClass(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listClasses(w http.ResponseWriter, r *http.Request) {
	userTZ := strings.TrimSpace(r.URL.Query().Get("user_timezone"))

	summaries, err := s.classes.ListClasses(r.Context(), userTZ)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list classes")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"classes": summaries})
}

type createClassRequest struct {
	ClassType       string   `json:"class_type"`
	Description     string   `json:"description"`
	InstructorID    int64    `json:"instructor_id"`
	StartsAt        string   `json:"starts_at"` // RFC 3339
	DurationMinutes int64    `json:"duration_minutes"`
	TotalSlots      int64    `json:"total_slots"`
	AvailableSlots  int64    `json:"available_slots"`
	DaysOfWeek      []string `json:"days_of_week"`
}

func (s *HTTPServer) createClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid starts_at; expected RFC 3339 timestamp")
		return
	}

	class := &models.FitnessClass{
		ClassType:       req.ClassType,
		Description:     req.Description,
		InstructorID:    req.InstructorID,
		StartsAt:        startsAt,
		DurationMinutes: req.DurationMinutes,
		TotalSlots:      req.TotalSlots,
		AvailableSlots:  req.AvailableSlots,
		DaysOfWeek:      req.DaysOfWeek,
	}

	if err := class.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.classes.CreateClass(r.Context(), class); err != nil {
		if errors.Is(err, database.ErrInstructorNotFound) {
			writeError(w, http.StatusBadRequest, "instructor with this ID does not exist")
			return
		}
		s.logger.Error().Err(err).Msg("failed to create class")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, class)
}

func (s *HTTPServer) handleInstructors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listInstructors(w, r)
	case http.MethodPost:
		s.createInstructor(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := s.instructors.ListInstructors(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list instructors")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instructors": instructors})
}

type createInstructorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

func (s *HTTPServer) createInstructor(w http.ResponseWriter, r *http.Request) {
	var req createInstructorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}

	instructor := &models.Instructor{Name: req.Name, Email: req.Email, Bio: req.Bio}
	if err := s.instructors.CreateInstructor(r.Context(), instructor); err != nil {
		if errors.Is(err, database.ErrDuplicateInstructor) {
			writeError(w, http.StatusBadRequest, "instructor with this email already exists")
			return
		}
		s.logger.Error().Err(err).Msg("failed to create instructor")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, instructor)
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("client_email"))

	bookings, err := s.bookings.ListBookings(r.Context(), email)
	if err != nil {
		if errors.Is(err, database.ErrMissingEmail) {
			writeError(w, http.StatusBadRequest, "client_email is required")
			return
		}
		s.logger.Error().Err(err).Msg("failed to list bookings")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

type createBookingRequest struct {
	ClassID     int64  `json:"class_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ClassID == 0 {
		writeError(w, http.StatusBadRequest, "class_id is required")
		return
	}
	if strings.TrimSpace(req.ClientName) == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}
	if !isValidEmail(req.ClientEmail) {
		writeError(w, http.StatusBadRequest, "valid client_email is required")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), req.ClassID, req.ClientName, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrClassNotFound):
			metrics.IncBookingRejected("class_not_found")
			writeError(w, http.StatusNotFound, "fitness class with this ID does not exist")
		case errors.Is(err, database.ErrDuplicateBooking):
			metrics.IncBookingRejected("duplicate")
			writeError(w, http.StatusBadRequest, "booking already exists for this class and email")
		case errors.Is(err, database.ErrNoSlots):
			metrics.IncBookingRejected("no_slots")
			writeError(w, http.StatusBadRequest, "no slots available for this class")
		default:
			s.logger.Error().Err(err).Int64("class_id", req.ClassID).Msg("failed to create booking")
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

type cancelBookingRequest struct {
	ClientEmail string `json:"client_email"`
}

// handleBookingAction serves POST /api/v1/bookings/{id}/cancel.
func (s *HTTPServer) handleBookingAction(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/v1/bookings")
	if len(parts) != 2 || parts[1] != "cancel" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bookingID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || bookingID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req cancelBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ClientEmail) == "" {
		writeError(w, http.StatusBadRequest, "client_email is required")
		return
	}

	alreadyCancelled, err := s.bookings.CancelBooking(r.Context(), bookingID, req.ClientEmail)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("booking_id", bookingID).Msg("failed to cancel booking")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if alreadyCancelled {
		writeJSON(w, http.StatusOK, map[string]string{"message": "booking already cancelled"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "booking cancelled"})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
