package model

import (
	"encoding/json"
	"fmt"
)

// RoomType classifies what a room is used for.
type RoomType string

const (
	RoomTypeConference RoomType = "Conference"
	RoomTypeOffice     RoomType = "Office"
	RoomTypeMeeting    RoomType = "Meeting"
	RoomTypeTraining   RoomType = "Training"
	RoomTypeStorage    RoomType = "Storage"
	RoomTypeOther      RoomType = "Other"
)

// RoomTypes lists every room type in display order.
var RoomTypes = []RoomType{
	RoomTypeConference, RoomTypeOffice, RoomTypeMeeting,
	RoomTypeTraining, RoomTypeStorage, RoomTypeOther,
}

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeConference, RoomTypeOffice, RoomTypeMeeting,
		RoomTypeTraining, RoomTypeStorage, RoomTypeOther:
		return true
	}
	return false
}

func (t *RoomType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, t, RoomType.Valid, "room type")
}

// RoomStatus is the mutually exclusive availability state of a room.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusMaintenance RoomStatus = "Maintenance"
	RoomStatusReserved    RoomStatus = "Reserved"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusReserved:
		return true
	}
	return false
}

func (s *RoomStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, RoomStatus.Valid, "availability status")
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
		return true
	}
	return false
}

func (s *BookingStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, BookingStatus.Valid, "booking status")
}

// CanTransitionTo reports whether a booking may move from s to next.
// Cancelled is terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled
	case BookingStatusCancelled:
		return false
	}
	return false
}

// MaintenanceType classifies a maintenance activity.
type MaintenanceType string

const (
	MaintenanceTypeCleaning   MaintenanceType = "Cleaning"
	MaintenanceTypeRepair     MaintenanceType = "Repair"
	MaintenanceTypeInspection MaintenanceType = "Inspection"
	MaintenanceTypeUpgrade    MaintenanceType = "Upgrade"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenanceTypeCleaning, MaintenanceTypeRepair, MaintenanceTypeInspection, MaintenanceTypeUpgrade:
		return true
	}
	return false
}

func (t *MaintenanceType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, t, MaintenanceType.Valid, "maintenance type")
}

// MaintenanceStatus is the lifecycle state of a maintenance record.
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "Scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "In Progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "Completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "Cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceStatusScheduled, MaintenanceStatusInProgress,
		MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}

func (s *MaintenanceStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, MaintenanceStatus.Valid, "maintenance status")
}

// CanTransitionTo reports whether a record may move from s to next.
// Scheduled -> In Progress -> Completed, or Cancelled before completion.
func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	switch s {
	case MaintenanceStatusScheduled:
		return next == MaintenanceStatusInProgress || next == MaintenanceStatusCancelled
	case MaintenanceStatusInProgress:
		return next == MaintenanceStatusCompleted || next == MaintenanceStatusCancelled
	case MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return false
	}
	return false
}

// Active reports whether work on the record is still pending.
func (s MaintenanceStatus) Active() bool {
	switch s {
	case MaintenanceStatusScheduled, MaintenanceStatusInProgress:
		return true
	case MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return false
	}
	return false
}

func unmarshalEnum[T ~string](b []byte, dst *T, valid func(T) bool, what string) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%s must be a string: %w", what, err)
	}
	v := T(raw)
	if !valid(v) {
		return fmt.Errorf("invalid %s %q", what, raw)
	}
	*dst = v
	return nil
}
