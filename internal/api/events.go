package api

import (
	"roomtrack-backend/internal/events"
	"roomtrack-backend/internal/model"
)

func roomEvent(id string) events.Event {
	return events.Event{Type: events.RoomDeleted, ID: id, RoomID: id}
}

func bookingEvent(kind string, b *model.Booking) events.Event {
	return events.Event{Type: kind, ID: b.ID, RoomID: b.RoomID, Data: b}
}

func maintenanceEvent(kind string, m *model.MaintenanceRecord) events.Event {
	return events.Event{Type: kind, ID: m.ID, RoomID: m.RoomID, Data: m}
}
