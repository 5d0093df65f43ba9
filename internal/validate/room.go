package validate

import (
	"fmt"

	"roomtrack-backend/internal/model"
)

// Room checks the field constraints of a complete room record.
func Room(r *model.Room) error {
	errs := Errors{}
	errs.Required("roomNumber", r.RoomNumber)
	errs.Required("location", r.Location)
	if r.Floor <= 0 {
		errs.Add("floor", MissingField("floor"))
	}
	if r.Capacity <= 0 {
		errs.Add("capacity", MissingField("capacity"))
	}
	if r.RoomType == "" {
		errs.Add("roomType", MissingField("roomType"))
	} else if !r.RoomType.Valid() {
		errs.Add("roomType", fmt.Sprintf("Unknown room type %q", r.RoomType))
	}
	if r.AvailabilityStatus == "" {
		errs.Add("availabilityStatus", MissingField("availabilityStatus"))
	} else if !r.AvailabilityStatus.Valid() {
		errs.Add("availabilityStatus", fmt.Sprintf("Unknown availability status %q", r.AvailabilityStatus))
	}

	if r.OccupancyCount != nil {
		occ := *r.OccupancyCount
		switch {
		case occ < 0:
			errs.Add("occupancyCount", "Occupancy cannot be negative")
		case r.Capacity > 0 && occ > r.Capacity:
			errs.Add("occupancyCount", fmt.Sprintf("Room capacity is %d people", r.Capacity))
		case occ > 0 && r.AvailabilityStatus == model.RoomStatusAvailable:
			errs.Add("occupancyCount", "An occupied room cannot be marked Available")
		}
	}
	return errs.Err()
}
