// Package timezone projects canonical class start instants into a
// caller-requested zone for display.
package timezone

import (
	"time"

	"fitbook/internal/models"
)

// Convert returns instant in the zone named by zoneName. An empty name means
// the authoring zone (Asia/Kolkata). An unrecognized name must not fail the
// caller: the instant is returned unconverted.
func Convert(instant time.Time, zoneName string) time.Time {
	if zoneName == "" {
		zoneName = models.DefaultZone
	}
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return instant
	}
	return instant.In(loc)
}

// Present splits the converted instant into date and clock strings for API
// responses.
func Present(instant time.Time, zoneName string) (date string, clock string) {
	local := Convert(instant, zoneName)
	return local.Format("2006-01-02"), local.Format("15:04:05")
}
