package model

import "time"

// Booking reserves one room for one half-open time interval [StartTime, EndTime).
type Booking struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	Position  int64         `gorm:"not null;index" json:"-"`
	RoomID    string        `gorm:"size:36;not null;index" json:"roomId"`
	Title     string        `gorm:"size:256;not null" json:"title"`
	Organizer string        `gorm:"size:128;not null" json:"organizer"`
	StartTime time.Time     `gorm:"not null;index" json:"startTime"`
	EndTime   time.Time     `gorm:"not null" json:"endTime"`
	Attendees int           `gorm:"not null" json:"attendees"`
	Status    BookingStatus `gorm:"size:32;not null;index" json:"status"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime:false" json:"createdAt"`
}
