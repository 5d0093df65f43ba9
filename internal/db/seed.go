package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomtrack-backend/internal/model"
)

type sampleRoom struct {
	number, location, description, image string
	floor, capacity                      int
	roomType                             model.RoomType
	status                               model.RoomStatus
	amenities                            []string
	cleanedAgo                           time.Duration
	temperature                          float64
	occupancy                            int
}

var sampleRooms = []sampleRoom{
	{"A101", "Building A", "Modern conference room with video conferencing capabilities", "/modern-conference-room.jpg",
		1, 12, model.RoomTypeConference, model.RoomStatusAvailable,
		[]string{"Projector", "Whiteboard", "Video Conference", "WiFi", "Air Conditioning"}, 2 * time.Hour, 22, 0},
	{"A102", "Building A", "Intimate meeting space perfect for small team discussions", "/small-meeting-room.jpg",
		1, 6, model.RoomTypeMeeting, model.RoomStatusOccupied,
		[]string{"TV Display", "Whiteboard", "WiFi", "Coffee Machine"}, 4 * time.Hour, 23, 4},
	{"B201", "Building B", "Spacious training room with flexible seating arrangements", "/large-training-room.jpg",
		2, 20, model.RoomTypeTraining, model.RoomStatusAvailable,
		[]string{"Projector", "Sound System", "Microphone", "WiFi", "Flipchart", "Air Conditioning"}, 1 * time.Hour, 21, 0},
	{"B202", "Building B", "Private office space with natural lighting", "/private-office.jpg",
		2, 4, model.RoomTypeOffice, model.RoomStatusMaintenance,
		[]string{"Desk", "Chair", "WiFi", "Phone", "Storage"}, 8 * time.Hour, 20, 0},
	{"C301", "Building C", "Executive conference room with premium amenities", "/executive-conference-room.jpg",
		3, 8, model.RoomTypeConference, model.RoomStatusReserved,
		[]string{"4K Display", "Video Conference", "Premium Audio", "WiFi", "Catering Setup", "Air Conditioning"}, 3 * time.Hour, 22, 0},
	{"C302", "Building C", "Interactive training space with modern technology", "/modern-training-room.jpg",
		3, 15, model.RoomTypeTraining, model.RoomStatusAvailable,
		[]string{"Interactive Whiteboard", "Tablets", "WiFi", "Sound System", "Flexible Seating"}, 6 * time.Hour, 23, 0},
}

// Seed inserts the sample facility into an empty database. It reports
// whether anything was written.
func Seed(db *gorm.DB, now time.Time) (bool, error) {
	var count int64
	if err := db.Model(&model.Room{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count rooms: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	now = now.UTC().Truncate(time.Microsecond)
	rooms := make([]model.Room, len(sampleRooms))
	for i, s := range sampleRooms {
		cleaned := now.Add(-s.cleanedAgo)
		temp := s.temperature
		occ := s.occupancy
		rooms[i] = model.Room{
			ID:                 uuid.NewString(),
			Position:           int64(i + 1),
			RoomNumber:         s.number,
			Location:           s.location,
			Floor:              s.floor,
			Capacity:           s.capacity,
			RoomType:           s.roomType,
			AvailabilityStatus: s.status,
			Description:        s.description,
			Amenities:          s.amenities,
			ImageURL:           s.image,
			LastCleaned:        &cleaned,
			Temperature:        &temp,
			OccupancyCount:     &occ,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}
	byNumber := make(map[string]string, len(rooms))
	for _, r := range rooms {
		byNumber[r.RoomNumber] = r.ID
	}

	bookings := []model.Booking{
		sampleBooking(1, byNumber["A102"], "Team Standup", "Sarah Johnson", now.Add(30*time.Minute), now.Add(90*time.Minute), 4, model.BookingStatusConfirmed, now),
		sampleBooking(2, byNumber["C301"], "Board Meeting", "Michael Chen", now.Add(2*time.Hour), now.Add(4*time.Hour), 8, model.BookingStatusConfirmed, now),
		sampleBooking(3, byNumber["A101"], "Product Review", "Alex Thompson", now.Add(4*time.Hour), now.Add(5*time.Hour), 6, model.BookingStatusConfirmed, now),
		sampleBooking(4, byNumber["B201"], "Training Session", "Emma Wilson", now.Add(24*time.Hour), now.Add(26*time.Hour), 15, model.BookingStatusPending, now),
	}

	cost := 250.0
	maintenance := model.MaintenanceRecord{
		ID:            uuid.NewString(),
		Position:      1,
		RoomID:        byNumber["B202"],
		Type:          model.MaintenanceTypeRepair,
		Description:   "Fix air conditioning unit",
		Technician:    "John Smith",
		ScheduledDate: now,
		Status:        model.MaintenanceStatusInProgress,
		Cost:          &cost,
		CreatedAt:     now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rooms).Error; err != nil {
			return err
		}
		if err := tx.Create(&bookings).Error; err != nil {
			return err
		}
		return tx.Create(&maintenance).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func sampleBooking(pos int64, roomID, title, organizer string, start, end time.Time, attendees int, status model.BookingStatus, now time.Time) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		Position:  pos,
		RoomID:    roomID,
		Title:     title,
		Organizer: organizer,
		StartTime: start,
		EndTime:   end,
		Attendees: attendees,
		Status:    status,
		CreatedAt: now,
	}
}
