package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"roomtrack-backend/internal/events"
	"roomtrack-backend/internal/store"
	"roomtrack-backend/internal/validate"
)

// Reconciler applies pending drift to stored rooms.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]store.RoomChange, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	drift   Reconciler
	events  events.Publisher
	webpush *webpush.Options
	loc     *time.Location
	clock   func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithDrift makes room reads reconcile drift first.
func WithDrift(r Reconciler) Option {
	return func(h *Handler) { h.drift = r }
}

// WithEvents publishes domain events after successful writes.
func WithEvents(p events.Publisher) Option {
	return func(h *Handler) { h.events = p }
}

// WithWebPush exposes the VAPID public key.
func WithWebPush(o *webpush.Options) Option {
	return func(h *Handler) { h.webpush = o }
}

// WithLocation sets the zone used for zone-less timestamps and day windows.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) { h.loc = loc }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.clock = now }
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, opts ...Option) *Handler {
	h := &Handler{
		store:  s,
		events: events.Noop{},
		loc:    time.Local,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// reconcile applies drift before a room read. A failed reconcile is logged
// and the stored state is served as is.
func (h *Handler) reconcile(c *gin.Context) {
	if h.drift == nil {
		return
	}
	if _, err := h.drift.Reconcile(c.Request.Context()); err != nil {
		log.Printf("Error reconciling rooms before read: %v", err)
	}
}

func (h *Handler) emit(ev events.Event) {
	events.Emit(h.events, ev)
}

// writeError maps store and validation errors to HTTP responses. Storage
// failures are logged and reported without driver detail.
func writeError(c *gin.Context, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verrs})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrBookingConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Booking Conflict"})
	case errors.Is(err, store.ErrRoomInUse):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Room has upcoming bookings or open maintenance"})
	case errors.Is(err, store.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func writeBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}

func writeQueryError(c *gin.Context, param string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + ": " + err.Error()})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
