package booking

import (
	"fmt"
	"strings"
	"time"

	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/validate"
)

// MinDuration is the shortest booking accepted.
const MinDuration = 15 * time.Minute

// Input is the candidate booking as submitted by a caller.
type Input struct {
	RoomID    string
	Title     string
	Organizer string
	StartTime time.Time
	EndTime   time.Time
	Attendees int
}

// Validate checks a candidate booking against the room it targets. room is
// nil when RoomID does not resolve. The returned error is a validate.Errors.
func Validate(in Input, room *model.Room) error {
	errs := validate.Errors{}

	switch {
	case strings.TrimSpace(in.RoomID) == "":
		errs.Add("roomId", "Please select a room")
	case room == nil:
		errs.Add("roomId", "Room not found")
	}
	if strings.TrimSpace(in.Title) == "" {
		errs.Add("title", "Meeting title is required")
	}
	if strings.TrimSpace(in.Organizer) == "" {
		errs.Add("organizer", "Organizer name is required")
	}
	if in.StartTime.IsZero() {
		errs.Add("startTime", "Start time is required")
	}
	if in.EndTime.IsZero() {
		errs.Add("endTime", "End time is required")
	}

	if in.Attendees < 1 {
		errs.Add("attendees", "Number of attendees must be at least 1")
	} else if room != nil && in.Attendees > room.Capacity {
		errs.Add("attendees", fmt.Sprintf("Room capacity is %d people", room.Capacity))
	}

	if !in.StartTime.IsZero() && !in.EndTime.IsZero() {
		if !in.EndTime.After(in.StartTime) {
			errs.Add("endTime", "End time must be after start time")
		} else if in.EndTime.Sub(in.StartTime) < MinDuration {
			errs.Add("endTime", "Minimum booking duration is 15 minutes")
		}
	}

	return errs.Err()
}
