package model

import "time"

// MaintenanceRecord is a scheduled or completed maintenance activity against a room.
type MaintenanceRecord struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	Position      int64             `gorm:"not null;index" json:"-"`
	RoomID        string            `gorm:"size:36;not null;index" json:"roomId"`
	Type          MaintenanceType   `gorm:"size:32;not null" json:"type"`
	Description   string            `gorm:"type:text;not null" json:"description"`
	Technician    string            `gorm:"size:128;not null" json:"technician"`
	ScheduledDate time.Time         `gorm:"not null;index" json:"scheduledDate"`
	CompletedDate *time.Time        `json:"completedDate,omitempty"`
	Status        MaintenanceStatus `gorm:"size:32;not null;index" json:"status"`
	Cost          *float64          `json:"cost,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;autoCreateTime:false" json:"createdAt"`
}

// Overdue reports whether the record is still Scheduled past its date.
func (m MaintenanceRecord) Overdue(now time.Time) bool {
	return m.Status == MaintenanceStatusScheduled && m.ScheduledDate.Before(now)
}
