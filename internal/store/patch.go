package store

import (
	"time"

	"roomtrack-backend/internal/model"
)

// RoomPatch holds the fields of a partial room update. Nil fields are left
// unchanged.
type RoomPatch struct {
	RoomNumber         *string           `json:"roomNumber"`
	Location           *string           `json:"location"`
	Floor              *int              `json:"floor"`
	Capacity           *int              `json:"capacity"`
	RoomType           *model.RoomType   `json:"roomType"`
	AvailabilityStatus *model.RoomStatus `json:"availabilityStatus"`
	Description        *string           `json:"description"`
	Amenities          *[]string         `json:"amenities"`
	ImageURL           *string           `json:"imageUrl"`
	LastCleaned        *time.Time        `json:"lastCleaned"`
	Temperature        *float64          `json:"temperature"`
	OccupancyCount     *int              `json:"occupancyCount"`
}

// Apply merges the patch into r. Marking a room Available without an
// explicit occupancy clears its occupants.
func (p RoomPatch) Apply(r *model.Room) {
	if p.RoomNumber != nil {
		r.RoomNumber = *p.RoomNumber
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.Floor != nil {
		r.Floor = *p.Floor
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
	if p.RoomType != nil {
		r.RoomType = *p.RoomType
	}
	if p.AvailabilityStatus != nil {
		r.AvailabilityStatus = *p.AvailabilityStatus
		if *p.AvailabilityStatus == model.RoomStatusAvailable && p.OccupancyCount == nil && r.OccupancyCount != nil {
			zero := 0
			r.OccupancyCount = &zero
		}
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Amenities != nil {
		r.Amenities = append([]string{}, *p.Amenities...)
	}
	if p.ImageURL != nil {
		r.ImageURL = *p.ImageURL
	}
	if p.LastCleaned != nil {
		t := *p.LastCleaned
		r.LastCleaned = &t
	}
	if p.Temperature != nil {
		v := *p.Temperature
		r.Temperature = &v
	}
	if p.OccupancyCount != nil {
		v := *p.OccupancyCount
		r.OccupancyCount = &v
	}
}

// BookingPatch holds the fields of a partial booking update.
type BookingPatch struct {
	Title     *string              `json:"title"`
	Organizer *string              `json:"organizer"`
	StartTime *time.Time           `json:"startTime"`
	EndTime   *time.Time           `json:"endTime"`
	Attendees *int                 `json:"attendees"`
	Status    *model.BookingStatus `json:"status"`
}

func (p BookingPatch) changesDetails() bool {
	return p.Title != nil || p.Organizer != nil || p.StartTime != nil || p.EndTime != nil || p.Attendees != nil
}

// Apply merges the patch into b without checking the status transition.
func (p BookingPatch) Apply(b *model.Booking) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Organizer != nil {
		b.Organizer = *p.Organizer
	}
	if p.StartTime != nil {
		b.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		b.EndTime = *p.EndTime
	}
	if p.Attendees != nil {
		b.Attendees = *p.Attendees
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

// MaintenancePatch holds the fields of a partial maintenance update.
type MaintenancePatch struct {
	Type          *model.MaintenanceType   `json:"type"`
	Description   *string                  `json:"description"`
	Technician    *string                  `json:"technician"`
	ScheduledDate *time.Time               `json:"scheduledDate"`
	CompletedDate *time.Time               `json:"completedDate"`
	Status        *model.MaintenanceStatus `json:"status"`
	Cost          *float64                 `json:"cost"`
}

// Apply merges the patch into m without checking the status transition.
func (p MaintenancePatch) Apply(m *model.MaintenanceRecord) {
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Technician != nil {
		m.Technician = *p.Technician
	}
	if p.ScheduledDate != nil {
		m.ScheduledDate = *p.ScheduledDate
	}
	if p.CompletedDate != nil {
		t := *p.CompletedDate
		m.CompletedDate = &t
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Cost != nil {
		v := *p.Cost
		m.Cost = &v
	}
}
