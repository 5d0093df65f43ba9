package model

import (
	"time"

	"gorm.io/datatypes"
)

// Room is a bookable physical space.
type Room struct {
	ID                 string                      `gorm:"primaryKey;size:36" json:"id"`
	Position           int64                       `gorm:"not null;index" json:"-"`
	RoomNumber         string                      `gorm:"size:64;not null;index" json:"roomNumber"`
	Location           string                      `gorm:"size:128;not null;index" json:"location"`
	Floor              int                         `gorm:"not null" json:"floor"`
	Capacity           int                         `gorm:"not null" json:"capacity"`
	RoomType           RoomType                    `gorm:"size:32;not null" json:"roomType"`
	AvailabilityStatus RoomStatus                  `gorm:"size:32;not null;index" json:"availabilityStatus"`
	Description        string                      `gorm:"type:text" json:"description,omitempty"`
	Amenities          datatypes.JSONSlice[string] `json:"amenities"`
	ImageURL           string                      `gorm:"size:512" json:"imageUrl,omitempty"`
	LastCleaned        *time.Time                  `json:"lastCleaned,omitempty"`
	Temperature        *float64                    `json:"temperature,omitempty"`
	OccupancyCount     *int                        `json:"occupancyCount,omitempty"`
	CreatedAt          time.Time                   `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt          time.Time                   `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

// Occupancy returns the current occupant count, treating absent as zero.
func (r Room) Occupancy() int {
	if r.OccupancyCount == nil {
		return 0
	}
	return *r.OccupancyCount
}

// TemperatureOr returns the temperature reading or def when none is recorded.
func (r Room) TemperatureOr(def float64) float64 {
	if r.Temperature == nil {
		return def
	}
	return *r.Temperature
}
