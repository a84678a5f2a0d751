package models

import (
	"fmt"
	"strings"
	"time"
)

type FitnessClass struct {
	ID              int64     `json:"id"`
	ClassType       string    `json:"class_type"` // YOGA, ZUMBA, HIIT, PILATES
	Description     string    `json:"description,omitempty"`
	InstructorID    int64     `json:"instructor_id"`
	StartsAt        time.Time `json:"starts_at"` // canonical instant, authored in Asia/Kolkata
	DurationMinutes int64     `json:"duration_minutes"`
	TotalSlots      int64     `json:"total_slots"`
	AvailableSlots  int64     `json:"available_slots"`
	DaysOfWeek      []string  `json:"days_of_week"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate проверяет границы полей занятия перед записью в БД.
func (c *FitnessClass) Validate() error {
	if !IsClassType(c.ClassType) {
		return fmt.Errorf("unknown class type: %q", c.ClassType)
	}
	if c.InstructorID == 0 {
		return fmt.Errorf("instructor id is required")
	}
	if c.StartsAt.IsZero() {
		return fmt.Errorf("start time is required")
	}
	if c.DurationMinutes < MinDurationMinutes || c.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("duration must be between %d and %d minutes, got %d",
			MinDurationMinutes, MaxDurationMinutes, c.DurationMinutes)
	}
	if c.TotalSlots < MinTotalSlots || c.TotalSlots > MaxTotalSlots {
		return fmt.Errorf("total slots must be between %d and %d, got %d",
			MinTotalSlots, MaxTotalSlots, c.TotalSlots)
	}
	if c.AvailableSlots < 0 || c.AvailableSlots > c.TotalSlots {
		return fmt.Errorf("available slots must be between 0 and %d, got %d",
			c.TotalSlots, c.AvailableSlots)
	}
	for _, d := range c.DaysOfWeek {
		if !IsWeekday(d) {
			return fmt.Errorf("unknown weekday tag: %q", d)
		}
	}
	return nil
}

// DaysCSV returns the weekday tags joined for storage, e.g. "MON,WED,THU".
func (c *FitnessClass) DaysCSV() string {
	return strings.Join(c.DaysOfWeek, ",")
}

// ParseDaysCSV splits a stored weekday column back into tags. Empty input yields nil.
func ParseDaysCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			days = append(days, p)
		}
	}
	return days
}
