package drift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomtrack-backend/config"
	"roomtrack-backend/internal/model"
)

// seqSource replays a fixed sequence of samples, wrapping around.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

var (
	midnight = time.UnixMilli(0).UTC()                     // sin term is 0
	tenAM    = time.UnixMilli(0).UTC().Add(10 * time.Hour) // sin term is 2*sin(20)
)

func newTestSimulator(vals ...float64) *Simulator {
	return NewSimulator(config.DriftConfig{
		Staleness:          2 * time.Hour,
		Timezone:           "UTC",
		BusinessHoursStart: 9,
		BusinessHoursEnd:   17,
	}, WithSource(&seqSource{vals: vals}), WithLocation(time.UTC))
}

func staleRoom(status model.RoomStatus, capacity, occupancy int, now time.Time) model.Room {
	temp := 20.0
	return model.Room{
		ID:                 "r1",
		RoomNumber:         "A101",
		Capacity:           capacity,
		AvailabilityStatus: status,
		OccupancyCount:     &occupancy,
		Temperature:        &temp,
		UpdatedAt:          now.Add(-3 * time.Hour),
	}
}

func TestEvaluate_FreshRoomUnchanged(t *testing.T) {
	sim := newTestSimulator(0)
	room := staleRoom(model.RoomStatusAvailable, 10, 0, tenAM)
	room.UpdatedAt = tenAM.Add(-time.Hour)

	got, changed := sim.Evaluate(room, tenAM)
	assert.False(t, changed)
	assert.Equal(t, room, got)

	room.UpdatedAt = tenAM.Add(-2 * time.Hour)
	_, changed = sim.Evaluate(room, tenAM)
	assert.False(t, changed, "exactly at the threshold is not yet stale")
}

func TestEvaluate_AvailableFillsDuringBusinessHours(t *testing.T) {
	sim := newTestSimulator(0.1, 0.5, 0.5)
	got, changed := sim.Evaluate(staleRoom(model.RoomStatusAvailable, 10, 0, tenAM), tenAM)

	require.True(t, changed)
	assert.Equal(t, model.RoomStatusOccupied, got.AvailabilityStatus)
	assert.Equal(t, 5, got.Occupancy())
	assert.Equal(t, 24.0, got.TemperatureOr(0))
	assert.Equal(t, tenAM, got.UpdatedAt)
}

func TestEvaluate_AvailableStaysWhenDrawTooHigh(t *testing.T) {
	sim := newTestSimulator(0.4, 0.5)
	got, changed := sim.Evaluate(staleRoom(model.RoomStatusAvailable, 10, 0, tenAM), tenAM)

	require.True(t, changed)
	assert.Equal(t, model.RoomStatusAvailable, got.AvailabilityStatus)
	assert.Equal(t, 0, got.Occupancy())
	assert.Equal(t, tenAM, got.UpdatedAt, "re-evaluated rooms restart their window")
}

func TestEvaluate_AvailableNeverFillsAfterHours(t *testing.T) {
	sim := newTestSimulator(0.1, 0.5)
	got, changed := sim.Evaluate(staleRoom(model.RoomStatusAvailable, 10, 0, midnight), midnight)

	require.True(t, changed)
	assert.Equal(t, model.RoomStatusAvailable, got.AvailabilityStatus)
	assert.Equal(t, 22.0, got.TemperatureOr(0))
}

func TestEvaluate_OccupiedEmpties(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		draw   float64
		status model.RoomStatus
		occ    int
	}{
		{"day below threshold", tenAM, 0.29, model.RoomStatusAvailable, 0},
		{"day at threshold", tenAM, 0.3, model.RoomStatusOccupied, 4},
		{"night below threshold", midnight, 0.69, model.RoomStatusAvailable, 0},
		{"night at threshold", midnight, 0.7, model.RoomStatusOccupied, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulator(tt.draw, 0.5)
			got, changed := sim.Evaluate(staleRoom(model.RoomStatusOccupied, 10, 4, tt.now), tt.now)
			require.True(t, changed)
			assert.Equal(t, tt.status, got.AvailabilityStatus)
			assert.Equal(t, tt.occ, got.Occupancy())
		})
	}
}

func TestEvaluate_MaintenanceAndReservedKeepStatus(t *testing.T) {
	for _, status := range []model.RoomStatus{model.RoomStatusMaintenance, model.RoomStatusReserved} {
		for _, now := range []time.Time{tenAM, midnight} {
			sim := newTestSimulator(0, 0.5)
			got, changed := sim.Evaluate(staleRoom(status, 10, 0, now), now)
			require.True(t, changed)
			assert.Equal(t, status, got.AvailabilityStatus)
			assert.Equal(t, 0, got.Occupancy())
		}
	}
}

func TestEvaluate_TinyRoomGetsOneOccupant(t *testing.T) {
	sim := newTestSimulator(0, 0.999, 0.5)
	got, _ := sim.Evaluate(staleRoom(model.RoomStatusAvailable, 1, 0, tenAM), tenAM)
	assert.Equal(t, model.RoomStatusOccupied, got.AvailabilityStatus)
	assert.Equal(t, 1, got.Occupancy())
}

func TestEvaluate_BoundsHoldForRandomDraws(t *testing.T) {
	sim := NewSimulator(config.DriftConfig{Timezone: "UTC", BusinessHoursStart: 9, BusinessHoursEnd: 17})
	start := tenAM
	for i := 0; i < 500; i++ {
		now := start.Add(time.Duration(i) * 7 * time.Minute)
		capacity := 1 + i%25
		status := model.RoomStatusAvailable
		if i%2 == 1 {
			status = model.RoomStatusOccupied
		}
		got, changed := sim.Evaluate(staleRoom(status, capacity, 0, now), now)
		require.True(t, changed)
		assert.GreaterOrEqual(t, got.Occupancy(), 0)
		assert.LessOrEqual(t, got.Occupancy(), capacity)
		if got.AvailabilityStatus == model.RoomStatusAvailable {
			assert.Zero(t, got.Occupancy())
		}
		assert.GreaterOrEqual(t, got.TemperatureOr(0), 18.0)
		assert.LessOrEqual(t, got.TemperatureOr(0), 26.0)
	}
}

func TestBusinessHours_Inclusive(t *testing.T) {
	sim := newTestSimulator(0)
	day := midnight
	assert.False(t, sim.BusinessHours(day.Add(8*time.Hour+59*time.Minute)))
	assert.True(t, sim.BusinessHours(day.Add(9*time.Hour)))
	assert.True(t, sim.BusinessHours(day.Add(17*time.Hour+59*time.Minute)))
	assert.False(t, sim.BusinessHours(day.Add(18*time.Hour)))
}

func TestNewSimulator_BadTimezoneFallsBack(t *testing.T) {
	sim := NewSimulator(config.DriftConfig{Timezone: "Not/AZone"})
	assert.Equal(t, time.Local, sim.loc)
	assert.Equal(t, 2*time.Hour, sim.staleness)
}
