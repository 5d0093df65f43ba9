package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"

	"roomtrack-backend/internal/events"
	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/parse"
	"roomtrack-backend/internal/store"
	"roomtrack-backend/internal/validate"
)

type createBookingRequest struct {
	RoomID    string              `json:"roomId"`
	Title     string              `json:"title"`
	Organizer string              `json:"organizer"`
	StartTime string              `json:"startTime"`
	EndTime   string              `json:"endTime"`
	Attendees *int                `json:"attendees"`
	Status    model.BookingStatus `json:"status"`
}

type bookingPatchRequest struct {
	store.BookingPatch
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// timeField parses an optional client timestamp into errs under field.
func (h *Handler) timeField(errs validate.Errors, field, raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}
	}
	t, err := parse.Timestamp(raw, h.loc)
	if err != nil {
		errs.Add(field, "Invalid date/time")
		return time.Time{}
	}
	return t
}

func (h *Handler) bookingFilter(c *gin.Context) (store.BookingFilter, bool) {
	f := store.BookingFilter{
		RoomID: c.Query("roomId"),
		Query:  c.Query("q"),
	}
	if v := c.Query("status"); v != "" && v != "all" {
		f.Status = model.BookingStatus(v)
		if !f.Status.Valid() {
			writeQueryError(c, "status", fmt.Errorf("unknown booking status %q", v))
			return f, false
		}
	}

	t := h.clock().In(h.loc)
	switch c.Query("when") {
	case "":
	case "today":
		day := now.With(t)
		from, to := day.BeginningOfDay(), day.EndOfDay().Add(time.Nanosecond)
		f.From, f.To = &from, &to
		f.SortByStart = true
	case "upcoming":
		f.From = &t
		f.ExcludeCancelled = true
		f.SortByStart = true
	default:
		writeQueryError(c, "when", fmt.Errorf("expected today or upcoming"))
		return f, false
	}

	for param, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := parse.Timestamp(raw, h.loc)
		if err != nil {
			writeQueryError(c, param, err)
			return f, false
		}
		*dst = &v
	}
	return f, true
}

// ListBookings handles GET /api/bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	f, ok := h.bookingFilter(c)
	if !ok {
		return
	}
	bookings, err := h.store.ListBookings(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateBooking handles POST /api/bookings. Field errors are reported with
// 400 before an overlap is reported with 409.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	// an omitted head count books a single seat
	attendees := 1
	if req.Attendees != nil {
		attendees = *req.Attendees
	}

	errs := validate.Errors{}
	b := model.Booking{
		RoomID:    req.RoomID,
		Title:     strings.TrimSpace(req.Title),
		Organizer: strings.TrimSpace(req.Organizer),
		StartTime: h.timeField(errs, "startTime", req.StartTime),
		EndTime:   h.timeField(errs, "endTime", req.EndTime),
		Attendees: attendees,
		Status:    req.Status,
	}
	if err := errs.Err(); err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.CreateBooking(c.Request.Context(), &b); err != nil {
		writeError(c, err)
		return
	}
	h.emit(bookingEvent(events.BookingCreated, &b))
	c.JSON(http.StatusCreated, b)
}

// UpdateBooking handles PUT /api/bookings/:id. Edited times are re-checked for overlaps.
func (h *Handler) UpdateBooking(c *gin.Context) {
	var req bookingPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	errs := validate.Errors{}
	patch := req.BookingPatch
	if req.StartTime != nil {
		t := h.timeField(errs, "startTime", *req.StartTime)
		patch.StartTime = &t
	}
	if req.EndTime != nil {
		t := h.timeField(errs, "endTime", *req.EndTime)
		patch.EndTime = &t
	}
	if err := errs.Err(); err != nil {
		writeError(c, err)
		return
	}

	b, err := h.store.UpdateBooking(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	kind := events.BookingUpdated
	if patch.Status != nil && *patch.Status == model.BookingStatusCancelled {
		kind = events.BookingCancelled
	}
	h.emit(bookingEvent(kind, b))
	c.JSON(http.StatusOK, b)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.store.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	h.emit(bookingEvent(events.BookingCancelled, b))
	c.JSON(http.StatusOK, b)
}

// DeleteBooking handles DELETE /api/bookings/:id.
func (h *Handler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteBooking(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.emit(events.Event{Type: events.BookingDeleted, ID: id})
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}
