package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/parse"
	"roomtrack-backend/internal/stats"
	"roomtrack-backend/internal/store"
	"roomtrack-backend/internal/validate"
)

type createRoomRequest struct {
	RoomNumber         string           `json:"roomNumber"`
	Location           string           `json:"location"`
	Floor              int              `json:"floor"`
	Capacity           int              `json:"capacity"`
	RoomType           model.RoomType   `json:"roomType"`
	AvailabilityStatus model.RoomStatus `json:"availabilityStatus"`
	Description        string           `json:"description"`
	Amenities          []string         `json:"amenities"`
	ImageURL           string           `json:"imageUrl"`
	LastCleaned        string           `json:"lastCleaned"`
	Temperature        *float64         `json:"temperature"`
	OccupancyCount     *int             `json:"occupancyCount"`
}

// roomPatchRequest shadows the patch's timestamp so it accepts form values.
type roomPatchRequest struct {
	store.RoomPatch
	LastCleaned *string `json:"lastCleaned"`
}

func (h *Handler) roomFilter(c *gin.Context) (store.RoomFilter, bool) {
	f := store.RoomFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
	}
	if v := c.Query("type"); v != "" && v != "all" {
		f.RoomType = model.RoomType(v)
		if !f.RoomType.Valid() {
			writeQueryError(c, "type", fmt.Errorf("unknown room type %q", v))
			return f, false
		}
	}
	if v := c.Query("status"); v != "" && v != "all" {
		f.Status = model.RoomStatus(v)
		if !f.Status.Valid() {
			writeQueryError(c, "status", fmt.Errorf("unknown availability status %q", v))
			return f, false
		}
	}
	for param, dst := range map[string]*int{"floor": &f.Floor, "minCapacity": &f.MinCapacity, "maxCapacity": &f.MaxCapacity} {
		n, err := parse.OptionalInt(c.Query(param))
		if err != nil {
			writeQueryError(c, param, err)
			return f, false
		}
		if n != nil {
			*dst = *n
		}
	}
	return f, true
}

// ListRooms handles GET /api/rooms. Drift is applied before reading.
func (h *Handler) ListRooms(c *gin.Context) {
	f, ok := h.roomFilter(c)
	if !ok {
		return
	}
	h.reconcile(c)

	rooms, err := h.store.ListRooms(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// RoomStats handles GET /api/rooms/stats.
func (h *Handler) RoomStats(c *gin.Context) {
	h.reconcile(c)

	rooms, err := h.store.ListRooms(c.Request.Context(), store.RoomFilter{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.Rooms(rooms))
}

// ReconcileRooms handles POST /api/rooms/reconcile and reports how many
// rooms drifted.
func (h *Handler) ReconcileRooms(c *gin.Context) {
	if h.drift == nil {
		c.JSON(http.StatusOK, gin.H{"reconciled": 0})
		return
	}
	changes, err := h.drift.Reconcile(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciled": len(changes)})
}

// GetRoom handles GET /api/rooms/:id.
func (h *Handler) GetRoom(c *gin.Context) {
	h.reconcile(c)

	room, err := h.store.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom handles POST /api/rooms. A missing floor is taken from a room
// number like "B201"; a missing status defaults to Available.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	room := model.Room{
		RoomNumber:         strings.TrimSpace(req.RoomNumber),
		Location:           strings.TrimSpace(req.Location),
		Floor:              req.Floor,
		Capacity:           req.Capacity,
		RoomType:           req.RoomType,
		AvailabilityStatus: req.AvailabilityStatus,
		Description:        req.Description,
		Amenities:          req.Amenities,
		ImageURL:           req.ImageURL,
		Temperature:        req.Temperature,
		OccupancyCount:     req.OccupancyCount,
	}
	if room.AvailabilityStatus == "" {
		room.AvailabilityStatus = model.RoomStatusAvailable
	}
	if room.Floor == 0 {
		if rn, err := parse.ParseRoomNumber(room.RoomNumber); err == nil {
			room.Floor = rn.Floor
		}
	}
	if req.LastCleaned != "" {
		t, err := parse.Timestamp(req.LastCleaned, h.loc)
		if err != nil {
			writeError(c, validate.Errors{"lastCleaned": "Invalid date"})
			return
		}
		room.LastCleaned = &t
	}

	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/rooms/:id, merging the given fields into the room.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var req roomPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	patch := req.RoomPatch
	if req.LastCleaned != nil {
		t, err := parse.Timestamp(*req.LastCleaned, h.loc)
		if err != nil {
			writeError(c, validate.Errors{"lastCleaned": "Invalid date"})
			return
		}
		patch.LastCleaned = &t
	}

	room, err := h.store.UpdateRoom(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id. Rooms with upcoming bookings or
// open maintenance are refused with 409.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteRoom(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.emit(roomEvent(id))
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
