// Package booking decides whether a reservation may be committed for a room.
package booking

import (
	"time"

	"roomtrack-backend/internal/model"
)

// HasConflict reports whether [start, end) overlaps any non-cancelled
// booking of roomID in existing. Touching intervals do not conflict.
func HasConflict(roomID string, start, end time.Time, existing []model.Booking) bool {
	return ConflictsExcluding("", roomID, start, end, existing) != nil
}

// ConflictsExcluding returns the first booking that conflicts with the
// candidate interval, skipping the booking whose id is skipID.
func ConflictsExcluding(skipID, roomID string, start, end time.Time, existing []model.Booking) *model.Booking {
	for i := range existing {
		b := &existing[i]
		if b.RoomID != roomID || b.Status == model.BookingStatusCancelled {
			continue
		}
		if skipID != "" && b.ID == skipID {
			continue
		}
		if overlaps(start, end, b.StartTime, b.EndTime) {
			return b
		}
	}
	return nil
}

func overlaps(start, end, bStart, bEnd time.Time) bool {
	startsInside := !start.Before(bStart) && start.Before(bEnd)
	endsInside := end.After(bStart) && !end.After(bEnd)
	contains := !start.After(bStart) && !end.Before(bEnd)
	return startsInside || endsInside || contains
}
