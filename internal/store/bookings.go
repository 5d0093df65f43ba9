package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"roomtrack-backend/internal/booking"
	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/validate"
)

func (s *gormStore) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var bookings []model.Booking
	q := f.apply(s.db.WithContext(ctx).Model(&model.Booking{}))
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "failed to fetch booking %s", id)
	}
	return &b, nil
}

// CreateBooking validates b against its room, checks it against the room's
// other bookings and appends it. Validation failures are reported before
// the conflict check; nothing is written on either failure.
func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.Status == "" {
		b.Status = model.BookingStatusConfirmed
	}
	normalizeTimes(b)

	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lookupRoom(tx, b.RoomID)
		if err != nil {
			return err
		}
		if err := validateBooking(b, room); err != nil {
			return err
		}
		if b.Status == model.BookingStatusCancelled {
			return validate.Errors{"status": "A booking cannot be created as Cancelled"}
		}

		if err := checkConflict(tx, b); err != nil {
			return err
		}

		pos, err := nextPosition(tx, &model.Booking{})
		if err != nil {
			return err
		}
		b.ID = s.newID()
		b.Position = pos
		b.CreatedAt = s.now()
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

// UpdateBooking merges patch into a booking. Status changes must follow the
// booking lifecycle and a cancelled booking cannot be edited.
func (s *gormStore) UpdateBooking(ctx context.Context, id string, patch BookingPatch) (*model.Booking, error) {
	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()

	var b model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "failed to fetch booking %s", id)
		}
		if b.Status == model.BookingStatusCancelled && (patch.changesDetails() || patch.Status != nil) {
			return ErrInvalidTransition
		}
		if patch.Status != nil && *patch.Status != b.Status && !b.Status.CanTransitionTo(*patch.Status) {
			return ErrInvalidTransition
		}

		patch.Apply(&b)
		normalizeTimes(&b)

		if b.Status != model.BookingStatusCancelled && patch.changesDetails() {
			room, err := lookupRoom(tx, b.RoomID)
			if err != nil {
				return err
			}
			if err := validateBooking(&b, room); err != nil {
				return err
			}
			if err := checkConflict(tx, &b); err != nil {
				return err
			}
		}

		if err := tx.Save(&b).Error; err != nil {
			return fmt.Errorf("failed to update booking %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking moves a booking to Cancelled. Cancelling twice is rejected.
func (s *gormStore) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	cancelled := model.BookingStatusCancelled
	return s.UpdateBooking(ctx, id, BookingPatch{Status: &cancelled})
}

func (s *gormStore) DeleteBooking(ctx context.Context, id string) error {
	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()

	res := s.db.WithContext(ctx).Delete(&model.Booking{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// lookupRoom returns the room a booking or maintenance record points at,
// or nil when the id does not resolve.
func lookupRoom(tx *gorm.DB, roomID string) (*model.Room, error) {
	if roomID == "" {
		return nil, nil
	}
	var room model.Room
	err := tx.First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %s: %w", roomID, err)
	}
	return &room, nil
}

// normalizeTimes stores instants in UTC so range queries compare correctly
// on drivers that persist timestamps as text.
func normalizeTimes(b *model.Booking) {
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
}

func validateBooking(b *model.Booking, room *model.Room) error {
	errs := validate.Errors{}
	if err := booking.Validate(booking.Input{
		RoomID:    b.RoomID,
		Title:     b.Title,
		Organizer: b.Organizer,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Attendees: b.Attendees,
	}, room); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if !b.Status.Valid() {
		errs.Add("status", fmt.Sprintf("Unknown booking status %q", b.Status))
	}
	return errs.Err()
}

func checkConflict(tx *gorm.DB, b *model.Booking) error {
	var existing []model.Booking
	if err := tx.Where("room_id = ? AND status <> ?", b.RoomID, model.BookingStatusCancelled).
		Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load bookings for room %s: %w", b.RoomID, err)
	}
	if booking.ConflictsExcluding(b.ID, b.RoomID, b.StartTime, b.EndTime, existing) != nil {
		return ErrBookingConflict
	}
	return nil
}
