// Package stats derives summary figures from room and maintenance snapshots.
// Every call recomputes from scratch.
package stats

import (
	"math"
	"time"

	"roomtrack-backend/internal/model"
)

// DefaultTemperature stands in for rooms without a reading.
const DefaultTemperature = 22.0

// RoomStats summarizes a room collection.
type RoomStats struct {
	Total              int `json:"total"`
	Available          int `json:"available"`
	Occupied           int `json:"occupied"`
	Maintenance        int `json:"maintenance"`
	Reserved           int `json:"reserved"`
	TotalCapacity      int `json:"totalCapacity"`
	CurrentOccupancy   int `json:"currentOccupancy"`
	UtilizationRate    int `json:"utilizationRate"`
	AverageTemperature int `json:"averageTemperature"`
}

// Rooms computes RoomStats. An empty collection reports zero for every
// figure, including the average temperature.
func Rooms(rooms []model.Room) RoomStats {
	var st RoomStats
	var tempSum float64
	for _, r := range rooms {
		st.Total++
		switch r.AvailabilityStatus {
		case model.RoomStatusAvailable:
			st.Available++
		case model.RoomStatusOccupied:
			st.Occupied++
		case model.RoomStatusMaintenance:
			st.Maintenance++
		case model.RoomStatusReserved:
			st.Reserved++
		}
		st.TotalCapacity += r.Capacity
		st.CurrentOccupancy += r.Occupancy()
		tempSum += r.TemperatureOr(DefaultTemperature)
	}
	if st.TotalCapacity > 0 {
		st.UtilizationRate = roundHalfUp(100 * float64(st.CurrentOccupancy) / float64(st.TotalCapacity))
	}
	if st.Total > 0 {
		st.AverageTemperature = roundHalfUp(tempSum / float64(st.Total))
	}
	return st
}

// MaintenanceStats summarizes maintenance work.
type MaintenanceStats struct {
	Total      int     `json:"total"`
	Scheduled  int     `json:"scheduled"`
	InProgress int     `json:"inProgress"`
	Completed  int     `json:"completed"`
	Cancelled  int     `json:"cancelled"`
	Overdue    int     `json:"overdue"`
	TotalCost  float64 `json:"totalCost"`
}

// Maintenance computes MaintenanceStats as of now. Only completed work
// counts toward the total cost.
func Maintenance(records []model.MaintenanceRecord, now time.Time) MaintenanceStats {
	var st MaintenanceStats
	for _, m := range records {
		st.Total++
		switch m.Status {
		case model.MaintenanceStatusScheduled:
			st.Scheduled++
		case model.MaintenanceStatusInProgress:
			st.InProgress++
		case model.MaintenanceStatusCompleted:
			st.Completed++
			if m.Cost != nil {
				st.TotalCost += *m.Cost
			}
		case model.MaintenanceStatusCancelled:
			st.Cancelled++
		}
		if m.Overdue(now) {
			st.Overdue++
		}
	}
	return st
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
