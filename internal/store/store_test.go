package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/validate"
)

var baseTime = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

// newMockDB returns a postgres-dialect gorm handle backed by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newSQLiteStore(t *testing.T) (Store, *testClock) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&model.Room{}, &model.Booking{}, &model.MaintenanceRecord{}, &model.PushSubscription{}))

	clock := &testClock{now: baseTime}
	seq := 0
	return NewGormStore(gdb, WithClock(clock.Now), WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	})), clock
}

func newRoom(number string, capacity int) *model.Room {
	return &model.Room{
		RoomNumber:         number,
		Location:           "Building A",
		Floor:              1,
		Capacity:           capacity,
		RoomType:           model.RoomTypeMeeting,
		AvailabilityStatus: model.RoomStatusAvailable,
	}
}

func newBooking(roomID string, start, end time.Time) *model.Booking {
	return &model.Booking{
		RoomID:    roomID,
		Title:     "Team Standup",
		Organizer: "Sarah Johnson",
		StartTime: start,
		EndTime:   end,
		Attendees: 2,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func TestGormStore_GetRoom_Mocked(t *testing.T) {
	testCases := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "missing room maps to ErrNotFound",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rooms" WHERE id = $1`)).
					WithArgs("nope", 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedErr: ErrNotFound,
		},
		{
			name: "storage failure is wrapped",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rooms" WHERE id = $1`)).
					WithArgs("nope", 1).
					WillReturnError(errors.New("connection reset"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gdb, mock := newMockDB(t)
			tc.setup(mock)

			_, err := NewGormStore(gdb).GetRoom(context.Background(), "nope")
			require.Error(t, err)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NotErrorIs(t, err, ErrNotFound)
				assert.Contains(t, err.Error(), "connection reset")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_ListRooms_Mocked(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rooms" WHERE availability_status = $1 AND capacity >= $2 ORDER BY position`)).
		WithArgs(model.RoomStatusAvailable, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "capacity", "availability_status"}).
			AddRow("r1", "A101", 12, "Available"))

	rooms, err := NewGormStore(gdb).ListRooms(context.Background(), RoomFilter{Status: model.RoomStatusAvailable, MinCapacity: 10})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "A101", rooms[0].RoomNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteBooking_Mocked(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bookings" WHERE id = $1`)).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := NewGormStore(gdb).DeleteBooking(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Rooms(t *testing.T) {
	ctx := context.Background()
	s, clock := newSQLiteStore(t)

	var ids []string
	for _, n := range []string{"C301", "A101", "B201"} {
		r := newRoom(n, 10)
		require.NoError(t, s.CreateRoom(ctx, r))
		assert.Equal(t, baseTime, r.CreatedAt)
		assert.Equal(t, r.CreatedAt, r.UpdatedAt)
		assert.Equal(t, []string{}, []string(r.Amenities))
		ids = append(ids, r.ID)
	}

	rooms, err := s.ListRooms(ctx, RoomFilter{})
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, []string{"C301", "A101", "B201"}, []string{rooms[0].RoomNumber, rooms[1].RoomNumber, rooms[2].RoomNumber},
		"rooms are listed in insertion order")

	clock.Advance(time.Hour)
	occupied := model.RoomStatusOccupied
	four := 4
	updated, err := s.UpdateRoom(ctx, ids[1], RoomPatch{AvailabilityStatus: &occupied, OccupancyCount: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Occupancy())
	assert.Equal(t, baseTime.Add(time.Hour), updated.UpdatedAt)
	assert.True(t, baseTime.Equal(updated.CreatedAt))

	available := model.RoomStatusAvailable
	updated, err = s.UpdateRoom(ctx, ids[1], RoomPatch{AvailabilityStatus: &available})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Occupancy(), "freeing a room clears its occupants")

	eleven := 11
	_, err = s.UpdateRoom(ctx, ids[1], RoomPatch{AvailabilityStatus: &occupied, OccupancyCount: &eleven})
	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Room capacity is 10 people", verrs["occupancyCount"])

	_, err = s.UpdateRoom(ctx, "missing", RoomPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteRoom(ctx, ids[0]))
	rooms, err = s.ListRooms(ctx, RoomFilter{})
	require.NoError(t, err)
	assert.Len(t, rooms, 2, "delete removes exactly one room")
	assert.ErrorIs(t, s.DeleteRoom(ctx, ids[0]), ErrNotFound)
}

func TestGormStore_CreateRoom_Invalid(t *testing.T) {
	s, _ := newSQLiteStore(t)
	r := newRoom("", 0)
	err := s.CreateRoom(context.Background(), r)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "roomNumber")
	assert.Contains(t, verrs, "capacity")
	assert.Empty(t, r.ID, "nothing is assigned on failure")
}

func TestGormStore_BookingConflicts(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)
	room := newRoom("A101", 10)
	require.NoError(t, s.CreateRoom(ctx, room))
	other := newRoom("A102", 10)
	require.NoError(t, s.CreateRoom(ctx, other))

	existing := newBooking(room.ID, at(10, 0), at(11, 0))
	require.NoError(t, s.CreateBooking(ctx, existing))
	assert.Equal(t, model.BookingStatusConfirmed, existing.Status)

	testCases := []struct {
		name       string
		roomID     string
		start, end time.Time
		conflict   bool
	}{
		{"touching end", room.ID, at(11, 0), at(12, 0), false},
		{"touching start", room.ID, at(9, 0), at(10, 0), false},
		{"fully inside", room.ID, at(10, 30), at(10, 45), true},
		{"enclosing", room.ID, at(9, 30), at(11, 30), true},
		{"overlapping start", room.ID, at(9, 30), at(10, 15), true},
		{"other room", other.ID, at(10, 0), at(11, 0), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBooking(tc.roomID, tc.start, tc.end)
			err := s.CreateBooking(ctx, b)
			if tc.conflict {
				assert.ErrorIs(t, err, ErrBookingConflict)
				return
			}
			require.NoError(t, err)
			require.NoError(t, s.DeleteBooking(ctx, b.ID))
		})
	}

	_, err := s.CancelBooking(ctx, existing.ID)
	require.NoError(t, err)
	require.NoError(t, s.CreateBooking(ctx, newBooking(room.ID, at(10, 30), at(10, 45))),
		"cancelled bookings never conflict")
}

func TestGormStore_BookingValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)
	room := newRoom("A101", 4)
	require.NoError(t, s.CreateRoom(ctx, room))

	var verrs validate.Errors

	err := s.CreateBooking(ctx, newBooking("ghost", at(10, 0), at(11, 0)))
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Room not found", verrs["roomId"])

	b := newBooking(room.ID, at(10, 0), at(10, 0))
	b.Attendees = 5
	err = s.CreateBooking(ctx, b)
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "End time must be after start time", verrs["endTime"])
	assert.Equal(t, "Room capacity is 4 people", verrs["attendees"])

	b = newBooking(room.ID, at(10, 0), at(11, 0))
	b.Status = model.BookingStatusCancelled
	err = s.CreateBooking(ctx, b)
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "status")

	bookings, err := s.ListBookings(ctx, BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, bookings, "rejected bookings are never stored")
}

func TestGormStore_BookingTransitions(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)
	room := newRoom("A101", 10)
	require.NoError(t, s.CreateRoom(ctx, room))

	pending := newBooking(room.ID, at(10, 0), at(11, 0))
	pending.Status = model.BookingStatusPending
	require.NoError(t, s.CreateBooking(ctx, pending))
	later := newBooking(room.ID, at(12, 0), at(13, 0))
	require.NoError(t, s.CreateBooking(ctx, later))

	confirmed := model.BookingStatusConfirmed
	b, err := s.UpdateBooking(ctx, pending.ID, BookingPatch{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)

	// moving onto the later booking conflicts; moving within its own slot does not
	start, end := at(12, 30), at(13, 30)
	_, err = s.UpdateBooking(ctx, pending.ID, BookingPatch{StartTime: &start, EndTime: &end})
	assert.ErrorIs(t, err, ErrBookingConflict)
	start, end = at(10, 15), at(11, 15)
	b, err = s.UpdateBooking(ctx, pending.ID, BookingPatch{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, at(10, 15), b.StartTime.UTC())

	b, err = s.CancelBooking(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, b.Status)

	_, err = s.CancelBooking(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.UpdateBooking(ctx, pending.ID, BookingPatch{Status: &confirmed})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	title := "Renamed"
	_, err = s.UpdateBooking(ctx, pending.ID, BookingPatch{Title: &title})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.CancelBooking(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ConcurrentBookingsSameSlot(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)
	room := newRoom("A101", 10)
	require.NoError(t, s.CreateRoom(ctx, room))

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.CreateBooking(ctx, newBooking(room.ID, at(10, 0), at(11, 0)))
		}()
	}
	wg.Wait()
	close(results)

	ok, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrBookingConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestGormStore_DeleteRoomWithDependents(t *testing.T) {
	ctx := context.Background()
	s, clock := newSQLiteStore(t)
	room := newRoom("A101", 10)
	require.NoError(t, s.CreateRoom(ctx, room))

	b := newBooking(room.ID, at(10, 0), at(11, 0))
	require.NoError(t, s.CreateBooking(ctx, b))
	assert.ErrorIs(t, s.DeleteRoom(ctx, room.ID), ErrRoomInUse)

	m := &model.MaintenanceRecord{RoomID: room.ID, Type: model.MaintenanceTypeInspection,
		Description: "Fire safety check", Technician: "Dana Lee", ScheduledDate: at(15, 0)}
	require.NoError(t, s.CreateMaintenance(ctx, m))

	// once the booking is over only the open maintenance blocks deletion
	clock.Advance(4 * time.Hour)
	assert.ErrorIs(t, s.DeleteRoom(ctx, room.ID), ErrRoomInUse)

	cancelled := model.MaintenanceStatusCancelled
	_, err := s.UpdateMaintenance(ctx, m.ID, MaintenancePatch{Status: &cancelled})
	require.NoError(t, err)
	require.NoError(t, s.DeleteRoom(ctx, room.ID))

	kept, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err, "past bookings are kept as history")
	assert.Equal(t, room.ID, kept.RoomID)
}

func TestGormStore_Maintenance(t *testing.T) {
	ctx := context.Background()
	s, clock := newSQLiteStore(t)
	room := newRoom("B202", 4)
	require.NoError(t, s.CreateRoom(ctx, room))

	cost := 120.0
	m := &model.MaintenanceRecord{RoomID: room.ID, Type: model.MaintenanceTypeRepair,
		Description: "Fix air conditioning unit", Technician: "John Smith", ScheduledDate: at(7, 0), Cost: &cost}
	require.NoError(t, s.CreateMaintenance(ctx, m))
	assert.Equal(t, model.MaintenanceStatusScheduled, m.Status)

	overdue, err := s.ListMaintenance(ctx, MaintenanceFilter{OverdueAt: &baseTime})
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	completed := model.MaintenanceStatusCompleted
	_, err = s.UpdateMaintenance(ctx, m.ID, MaintenancePatch{Status: &completed})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	inProgress := model.MaintenanceStatusInProgress
	_, err = s.UpdateMaintenance(ctx, m.ID, MaintenancePatch{Status: &inProgress})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	done, err := s.UpdateMaintenance(ctx, m.ID, MaintenancePatch{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, baseTime.Add(2*time.Hour), done.CompletedDate.UTC())

	negative := -1.0
	err = s.CreateMaintenance(ctx, &model.MaintenanceRecord{RoomID: room.ID, Type: model.MaintenanceTypeCleaning,
		Description: "Deep clean", Technician: "Sam", ScheduledDate: at(9, 0), Cost: &negative})
	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Cost cannot be negative", verrs["cost"])

	require.NoError(t, s.DeleteMaintenance(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteMaintenance(ctx, m.ID), ErrNotFound)
}

func TestGormStore_ReconcileRooms(t *testing.T) {
	ctx := context.Background()
	s, clock := newSQLiteStore(t)

	busy := newRoom("A101", 10)
	busy.AvailabilityStatus = model.RoomStatusOccupied
	three := 3
	busy.OccupancyCount = &three
	require.NoError(t, s.CreateRoom(ctx, busy))
	idle := newRoom("A102", 10)
	require.NoError(t, s.CreateRoom(ctx, idle))

	clock.Advance(3 * time.Hour)
	var seen []time.Time
	changes, err := s.ReconcileRooms(ctx, func(r model.Room, now time.Time) (model.Room, bool) {
		seen = append(seen, now)
		if r.AvailabilityStatus != model.RoomStatusOccupied {
			return r, false
		}
		zero := 0
		r.AvailabilityStatus = model.RoomStatusAvailable
		r.OccupancyCount = &zero
		r.UpdatedAt = now
		return r, true
	})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].BecameAvailable())
	assert.Equal(t, []time.Time{baseTime.Add(3 * time.Hour), baseTime.Add(3 * time.Hour)}, seen)

	got, err := s.GetRoom(ctx, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusAvailable, got.AvailabilityStatus)
	assert.True(t, got.UpdatedAt.Equal(baseTime.Add(3*time.Hour)))

	untouched, err := s.GetRoom(ctx, idle.ID)
	require.NoError(t, err)
	assert.True(t, untouched.UpdatedAt.Equal(baseTime))
}

func TestGormStore_Subscriptions(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)
	a := newRoom("A101", 10)
	b := newRoom("A102", 10)
	require.NoError(t, s.CreateRoom(ctx, a))
	require.NoError(t, s.CreateRoom(ctx, b))

	sub := &model.PushSubscription{Endpoint: "https://push.example.com/1", P256DH: "k", Auth: "s", CreatedAt: baseTime}
	require.NoError(t, s.PutSubscription(ctx, sub, []string{a.ID, b.ID}))

	got, err := s.GetSubscription(ctx, sub.Endpoint)
	require.NoError(t, err)
	assert.Len(t, got.Rooms, 2)

	require.NoError(t, s.PutSubscription(ctx, &model.PushSubscription{Endpoint: sub.Endpoint, P256DH: "k2", Auth: "s2", CreatedAt: baseTime}, []string{b.ID}))
	forA, err := s.SubscriptionsForRoom(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, forA)
	forB, err := s.SubscriptionsForRoom(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, forB, 1)
	assert.Equal(t, "k2", forB[0].P256DH)

	require.NoError(t, s.DeleteRoom(ctx, b.ID))
	forB, err = s.SubscriptionsForRoom(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, forB, "deleting a room drops its subscriptions")

	require.NoError(t, s.DeleteSubscription(ctx, sub.Endpoint))
	_, err = s.GetSubscription(ctx, sub.Endpoint)
	assert.ErrorIs(t, err, ErrNotFound)
}
