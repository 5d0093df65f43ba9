// Package drift simulates the occupancy sensor feed rooms would otherwise
// report. Rooms that have not been touched for a while are re-evaluated:
// they may fill up or empty out and their temperature wanders.
package drift

import (
	"log"
	"math"
	"math/rand"
	"time"

	"roomtrack-backend/config"
	"roomtrack-backend/internal/model"
)

const (
	baseTemperature = 22.0
	minTemperature  = 18.0
	maxTemperature  = 26.0
	// one full temperature swing every 2π half-hours
	temperaturePeriodMs = 30 * 60 * 1000

	fillChance        = 0.4
	emptyChanceDay    = 0.3
	emptyChanceNight  = 0.7
	maxFillOfCapacity = 0.8
)

// OccupancySource yields uniform samples in [0, 1). A real sensor feed can
// replace the default pseudo-random one.
type OccupancySource interface {
	Float64() float64
}

type randomSource struct{}

func (randomSource) Float64() float64 { return rand.Float64() }

// Simulator decides how a stale room drifts.
type Simulator struct {
	staleness time.Duration
	loc       *time.Location
	startHour int
	endHour   int
	source    OccupancySource
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSource replaces the random source.
func WithSource(src OccupancySource) Option {
	return func(s *Simulator) { s.source = src }
}

// WithLocation sets the time zone business hours are measured in.
func WithLocation(loc *time.Location) Option {
	return func(s *Simulator) { s.loc = loc }
}

// NewSimulator builds a simulator from cfg. An unknown time zone falls back
// to the process local zone.
func NewSimulator(cfg config.DriftConfig, opts ...Option) *Simulator {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: invalid drift timezone %q: %v. Using local time.", cfg.Timezone, err)
		loc = time.Local
	}
	s := &Simulator{
		staleness: cfg.Staleness,
		loc:       loc,
		startHour: cfg.BusinessHoursStart,
		endHour:   cfg.BusinessHoursEnd,
		source:    randomSource{},
	}
	if s.staleness <= 0 {
		s.staleness = 2 * time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stale reports whether room is old enough to be re-evaluated at now.
func (s *Simulator) Stale(room model.Room, now time.Time) bool {
	return now.Sub(room.UpdatedAt) > s.staleness
}

// BusinessHours reports whether now falls within the configured working
// hours, both ends inclusive.
func (s *Simulator) BusinessHours(now time.Time) bool {
	h := now.In(s.loc).Hour()
	return h >= s.startHour && h <= s.endHour
}

// Evaluate returns the drifted state of room and true when the room was
// stale. Fresh rooms are returned untouched. Only Available and Occupied
// rooms change status.
func (s *Simulator) Evaluate(room model.Room, now time.Time) (model.Room, bool) {
	if !s.Stale(room, now) {
		return room, false
	}

	r := s.source.Float64()
	switch room.AvailabilityStatus {
	case model.RoomStatusAvailable:
		if s.BusinessHours(now) && r < fillChance {
			occ := s.drawOccupancy(room.Capacity)
			room.AvailabilityStatus = model.RoomStatusOccupied
			room.OccupancyCount = &occ
		}
	case model.RoomStatusOccupied:
		chance := emptyChanceNight
		if s.BusinessHours(now) {
			chance = emptyChanceDay
		}
		if r < chance {
			zero := 0
			room.AvailabilityStatus = model.RoomStatusAvailable
			room.OccupancyCount = &zero
		}
	case model.RoomStatusMaintenance, model.RoomStatusReserved:
	}

	temp := s.temperature(now)
	room.Temperature = &temp
	room.UpdatedAt = now
	return room, true
}

func (s *Simulator) drawOccupancy(capacity int) int {
	limit := int(math.Floor(float64(capacity) * maxFillOfCapacity))
	if limit < 1 {
		limit = 1
	}
	occ := 1 + int(s.source.Float64()*float64(limit))
	if occ > limit {
		occ = limit
	}
	if occ > capacity {
		occ = capacity
	}
	return occ
}

func (s *Simulator) temperature(now time.Time) float64 {
	wave := 2 * math.Sin(float64(now.UnixMilli())/temperaturePeriodMs)
	jitter := s.source.Float64() - 0.5
	t := math.Floor(baseTemperature + wave + jitter + 0.5)
	return math.Max(minTemperature, math.Min(maxTemperature, t))
}
