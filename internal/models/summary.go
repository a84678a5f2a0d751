package models

// ClassSummary is the read-path projection of a class: start date and time are
// already localized to the caller's timezone.
type ClassSummary struct {
	ID              int64       `json:"id"`
	ClassType       string      `json:"class_type"`
	Description     string      `json:"description,omitempty"`
	Instructor      *Instructor `json:"instructor"`
	StartDate       string      `json:"start_date"`
	StartTime       string      `json:"start_time"`
	DurationMinutes int64       `json:"duration_minutes"`
	TotalSlots      int64       `json:"total_slots"`
	AvailableSlots  int64       `json:"available_slots"`
	DaysOfWeek      []string    `json:"days_of_week"`
}
