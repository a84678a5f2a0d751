package models

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

const (
	ClassYoga    = "YOGA"
	ClassZumba   = "ZUMBA"
	ClassHIIT    = "HIIT"
	ClassPilates = "PILATES"
)

const (
	// MinDurationMinutes и MaxDurationMinutes ограничивают длительность занятия.
	MinDurationMinutes = 30
	MaxDurationMinutes = 180

	// MinTotalSlots и MaxTotalSlots ограничивают вместимость занятия.
	MinTotalSlots = 1
	MaxTotalSlots = 50

	// DefaultZone часовой пояс, в котором задаётся расписание занятий.
	DefaultZone = "Asia/Kolkata"

	// ExportQueueBatchSize количество задач экспорта за один проход воркера.
	ExportQueueBatchSize = 20

	// ClassListCacheTTL время жизни кэша списка занятий в секундах.
	ClassListCacheTTL = 5 * 60
)

// ClassTypes перечисляет допустимые типы занятий.
var ClassTypes = []string{ClassYoga, ClassZumba, ClassHIIT, ClassPilates}

// Weekdays перечисляет допустимые теги дней недели.
var Weekdays = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// IsClassType reports whether t is a known class type.
func IsClassType(t string) bool {
	for _, ct := range ClassTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// IsWeekday reports whether d is a known weekday tag.
func IsWeekday(d string) bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
