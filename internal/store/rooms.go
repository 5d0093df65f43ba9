package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/validate"
)

// ListRooms returns the rooms matching f in insertion order. It does not
// apply drift; callers wanting current occupancy reconcile first.
func (s *gormStore) ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	var rooms []model.Room
	q := f.apply(s.db.WithContext(ctx).Model(&model.Room{}))
	if err := q.Order("position").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "failed to fetch room %s", id)
	}
	return &room, nil
}

// CreateRoom assigns an id and timestamps to room and appends it.
func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := validate.Room(room); err != nil {
		return err
	}
	if room.Amenities == nil {
		room.Amenities = []string{}
	}

	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx, &model.Room{})
		if err != nil {
			return err
		}
		now := s.now()
		room.ID = s.newID()
		room.Position = pos
		room.CreatedAt = now
		room.UpdatedAt = now
		if err := tx.Create(room).Error; err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		return nil
	})
}

// UpdateRoom merges patch into the stored room and refreshes UpdatedAt.
func (s *gormStore) UpdateRoom(ctx context.Context, id string, patch RoomPatch) (*model.Room, error) {
	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()

	var room model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&room, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "failed to fetch room %s", id)
		}
		patch.Apply(&room)
		if err := validate.Room(&room); err != nil {
			return err
		}
		room.UpdatedAt = s.now()
		if err := tx.Save(&room).Error; err != nil {
			return fmt.Errorf("failed to update room %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room that has no upcoming bookings and no open
// maintenance work. Past bookings and closed maintenance records are kept.
func (s *gormStore) DeleteRoom(ctx context.Context, id string) error {
	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()
	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()
	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.Select("id").First(&room, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "failed to fetch room %s", id)
		}

		var activeBookings int64
		if err := tx.Model(&model.Booking{}).
			Where("room_id = ? AND status <> ? AND end_time > ?", id, model.BookingStatusCancelled, s.now()).
			Count(&activeBookings).Error; err != nil {
			return fmt.Errorf("failed to count bookings for room %s: %w", id, err)
		}
		var openMaintenance int64
		if err := tx.Model(&model.MaintenanceRecord{}).
			Where("room_id = ? AND status IN ?", id, []model.MaintenanceStatus{model.MaintenanceStatusScheduled, model.MaintenanceStatusInProgress}).
			Count(&openMaintenance).Error; err != nil {
			return fmt.Errorf("failed to count maintenance records for room %s: %w", id, err)
		}
		if activeBookings > 0 || openMaintenance > 0 {
			return ErrRoomInUse
		}

		if err := tx.Exec("DELETE FROM subscription_room_mapping WHERE room_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to drop subscriptions for room %s: %w", id, err)
		}
		if err := tx.Delete(&model.Room{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete room %s: %w", id, err)
		}
		return nil
	})
}

// ReconcileRooms runs fn over every room under the room lock and persists
// the rooms it re-evaluated. The clock is read after the lock is held so a
// room just written by another caller is judged by its fresh UpdatedAt.
func (s *gormStore) ReconcileRooms(ctx context.Context, fn ReconcileFunc) ([]RoomChange, error) {
	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()

	var changes []RoomChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms []model.Room
		if err := tx.Order("position").Find(&rooms).Error; err != nil {
			return fmt.Errorf("failed to load rooms for reconcile: %w", err)
		}

		now := s.now()
		for _, room := range rooms {
			updated, changed := fn(room, now)
			if !changed {
				continue
			}
			if err := tx.Save(&updated).Error; err != nil {
				return fmt.Errorf("failed to persist drift for room %s: %w", room.ID, err)
			}
			changes = append(changes, RoomChange{Before: room, After: updated})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		log.Printf("Reconciled %d stale rooms", len(changes))
	}
	return changes, nil
}
