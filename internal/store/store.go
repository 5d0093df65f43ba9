package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomtrack-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error)
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, id string, patch RoomPatch) (*model.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	ReconcileRooms(ctx context.Context, fn ReconcileFunc) ([]RoomChange, error)

	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, id string, patch BookingPatch) (*model.Booking, error)
	CancelBooking(ctx context.Context, id string) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id string) error

	ListMaintenance(ctx context.Context, f MaintenanceFilter) ([]model.MaintenanceRecord, error)
	GetMaintenance(ctx context.Context, id string) (*model.MaintenanceRecord, error)
	CreateMaintenance(ctx context.Context, m *model.MaintenanceRecord) error
	UpdateMaintenance(ctx context.Context, id string, patch MaintenancePatch) (*model.MaintenanceRecord, error)
	DeleteMaintenance(ctx context.Context, id string) error

	PutSubscription(ctx context.Context, sub *model.PushSubscription, roomIDs []string) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForRoom(ctx context.Context, roomID string) ([]model.PushSubscription, error)
	DeleteSubscriptionRecord(ctx context.Context, sub *model.PushSubscription) error
}

// ReconcileFunc re-evaluates one room at now. It returns the new state and
// whether the room was re-evaluated and must be persisted.
type ReconcileFunc func(room model.Room, now time.Time) (model.Room, bool)

// RoomChange pairs the state of a room before and after reconciliation.
type RoomChange struct {
	Before model.Room
	After  model.Room
}

// BecameAvailable reports whether the room was freed by this change.
func (c RoomChange) BecameAvailable() bool {
	return c.Before.AvailabilityStatus != model.RoomStatusAvailable &&
		c.After.AvailabilityStatus == model.RoomStatusAvailable
}

// Option configures a gormStore.
type Option func(*gormStore)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *gormStore) { s.clock = now }
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(gen func() string) Option {
	return func(s *gormStore) { s.newID = gen }
}

// gormStore implements the Store interface using GORM. Each collection has
// its own lock so read-modify-write cycles on it are serialized; when more
// than one lock is needed they are taken in rooms, bookings, maintenance order.
type gormStore struct {
	db    *gorm.DB
	clock func() time.Time
	newID func() string

	roomsMu       sync.Mutex
	bookingsMu    sync.Mutex
	maintenanceMu sync.Mutex
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, opts ...Option) Store {
	s := &gormStore{
		db:    db,
		clock: time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gormStore) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

// nextPosition returns the insertion-order slot for a new row of m's table.
func nextPosition(tx *gorm.DB, m any) (int64, error) {
	var max int64
	if err := tx.Model(m).Select("COALESCE(MAX(position), 0)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("failed to read insertion position: %w", err)
	}
	return max + 1, nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
