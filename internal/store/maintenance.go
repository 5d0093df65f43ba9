package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/validate"
)

func (s *gormStore) ListMaintenance(ctx context.Context, f MaintenanceFilter) ([]model.MaintenanceRecord, error) {
	var records []model.MaintenanceRecord
	q := f.apply(s.db.WithContext(ctx).Model(&model.MaintenanceRecord{}))
	if err := q.Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance records: %w", err)
	}
	return records, nil
}

func (s *gormStore) GetMaintenance(ctx context.Context, id string) (*model.MaintenanceRecord, error) {
	var m model.MaintenanceRecord
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "failed to fetch maintenance record %s", id)
	}
	return &m, nil
}

// CreateMaintenance appends a maintenance record for an existing room.
// Records default to Scheduled; a record created as Completed without a
// completion date is stamped with the current time.
func (s *gormStore) CreateMaintenance(ctx context.Context, m *model.MaintenanceRecord) error {
	if m.Status == "" {
		m.Status = model.MaintenanceStatusScheduled
	}

	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		if m.Status == model.MaintenanceStatusCompleted && m.CompletedDate == nil {
			m.CompletedDate = &now
		}
		normalizeDates(m)
		if err := validateMaintenance(tx, m); err != nil {
			return err
		}

		pos, err := nextPosition(tx, &model.MaintenanceRecord{})
		if err != nil {
			return err
		}
		m.ID = s.newID()
		m.Position = pos
		m.CreatedAt = now
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create maintenance record: %w", err)
		}
		return nil
	})
}

// UpdateMaintenance merges patch into a record. Status changes follow
// Scheduled -> In Progress -> Completed, with Cancelled reachable until
// completion.
func (s *gormStore) UpdateMaintenance(ctx context.Context, id string, patch MaintenancePatch) (*model.MaintenanceRecord, error) {
	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()

	var m model.MaintenanceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "failed to fetch maintenance record %s", id)
		}
		if patch.Status != nil && *patch.Status != m.Status && !m.Status.CanTransitionTo(*patch.Status) {
			return ErrInvalidTransition
		}

		patch.Apply(&m)
		if m.Status == model.MaintenanceStatusCompleted && m.CompletedDate == nil {
			now := s.now()
			m.CompletedDate = &now
		}
		normalizeDates(&m)
		if err := validateMaintenance(tx, &m); err != nil {
			return err
		}

		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("failed to update maintenance record %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) DeleteMaintenance(ctx context.Context, id string) error {
	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()

	res := s.db.WithContext(ctx).Delete(&model.MaintenanceRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete maintenance record %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeDates(m *model.MaintenanceRecord) {
	m.ScheduledDate = m.ScheduledDate.UTC()
	if m.CompletedDate != nil {
		t := m.CompletedDate.UTC()
		m.CompletedDate = &t
	}
}

func validateMaintenance(tx *gorm.DB, m *model.MaintenanceRecord) error {
	errs := validate.Errors{}
	if err := validate.Maintenance(m); err != nil {
		if verrs, ok := err.(validate.Errors); ok {
			errs = verrs
		} else {
			return err
		}
	}
	if _, missing := errs["roomId"]; !missing {
		room, err := lookupRoom(tx, m.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			errs.Add("roomId", "Room not found")
		}
	}
	return errs.Err()
}
