package validate

import (
	"fmt"

	"roomtrack-backend/internal/model"
)

// Maintenance checks the field constraints of a complete maintenance record.
func Maintenance(m *model.MaintenanceRecord) error {
	errs := Errors{}
	errs.Required("roomId", m.RoomID)
	if m.Type == "" {
		errs.Add("type", MissingField("type"))
	} else if !m.Type.Valid() {
		errs.Add("type", fmt.Sprintf("Unknown maintenance type %q", m.Type))
	}
	errs.Required("description", m.Description)
	errs.Required("technician", m.Technician)
	if m.ScheduledDate.IsZero() {
		errs.Add("scheduledDate", MissingField("scheduledDate"))
	}
	if m.Status != "" && !m.Status.Valid() {
		errs.Add("status", fmt.Sprintf("Unknown maintenance status %q", m.Status))
	}
	if m.Cost != nil && *m.Cost < 0 {
		errs.Add("cost", "Cost cannot be negative")
	}
	if m.CompletedDate != nil && !m.ScheduledDate.IsZero() && m.CompletedDate.Before(m.ScheduledDate) {
		errs.Add("completedDate", "Completed date cannot be before the scheduled date")
	}
	return errs.Err()
}
