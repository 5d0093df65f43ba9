package store

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"roomtrack-backend/internal/model"
)

// RoomFilter narrows ListRooms. Zero values match everything.
type RoomFilter struct {
	Query       string // matches room number, location or room type
	RoomType    model.RoomType
	Status      model.RoomStatus
	Location    string
	Floor       int
	MinCapacity int
	MaxCapacity int
}

func (f RoomFilter) apply(q *gorm.DB) *gorm.DB {
	if term := likeTerm(f.Query); term != "" {
		q = q.Where("LOWER(room_number) LIKE ? OR LOWER(location) LIKE ? OR LOWER(room_type) LIKE ?", term, term, term)
	}
	if f.RoomType != "" {
		q = q.Where("room_type = ?", f.RoomType)
	}
	if f.Status != "" {
		q = q.Where("availability_status = ?", f.Status)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.Floor > 0 {
		q = q.Where("floor = ?", f.Floor)
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}
	if f.MaxCapacity > 0 {
		q = q.Where("capacity <= ?", f.MaxCapacity)
	}
	return q
}

// BookingFilter narrows ListBookings. From/To bound the start time as [From, To).
type BookingFilter struct {
	RoomID           string
	Status           model.BookingStatus
	ExcludeCancelled bool
	Query            string // matches title or organizer
	From             *time.Time
	To               *time.Time
	// SortByStart orders by start time instead of insertion order.
	SortByStart bool
}

func (f BookingFilter) apply(q *gorm.DB) *gorm.DB {
	if f.RoomID != "" {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ExcludeCancelled {
		q = q.Where("status <> ?", model.BookingStatusCancelled)
	}
	if term := likeTerm(f.Query); term != "" {
		q = q.Where("LOWER(title) LIKE ? OR LOWER(organizer) LIKE ?", term, term)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_time < ?", f.To.UTC())
	}
	if f.SortByStart {
		return q.Order("start_time").Order("position")
	}
	return q.Order("position")
}

// MaintenanceFilter narrows ListMaintenance. OverdueAt keeps only records
// still Scheduled before the given instant.
type MaintenanceFilter struct {
	RoomID    string
	Status    model.MaintenanceStatus
	Type      model.MaintenanceType
	Query     string // matches description or technician
	OverdueAt *time.Time
}

func (f MaintenanceFilter) apply(q *gorm.DB) *gorm.DB {
	if f.RoomID != "" {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if term := likeTerm(f.Query); term != "" {
		q = q.Where("LOWER(description) LIKE ? OR LOWER(technician) LIKE ?", term, term)
	}
	if f.OverdueAt != nil {
		q = q.Where("status = ? AND scheduled_date < ?", model.MaintenanceStatusScheduled, f.OverdueAt.UTC())
	}
	return q
}

func likeTerm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}
	return "%" + s + "%"
}
