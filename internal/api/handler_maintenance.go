package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"roomtrack-backend/internal/events"
	"roomtrack-backend/internal/model"
	"roomtrack-backend/internal/stats"
	"roomtrack-backend/internal/store"
	"roomtrack-backend/internal/validate"
)

type createMaintenanceRequest struct {
	RoomID        string                  `json:"roomId"`
	Type          model.MaintenanceType   `json:"type"`
	Description   string                  `json:"description"`
	Technician    string                  `json:"technician"`
	ScheduledDate string                  `json:"scheduledDate"`
	CompletedDate string                  `json:"completedDate"`
	Status        model.MaintenanceStatus `json:"status"`
	Cost          *float64                `json:"cost"`
}

type maintenancePatchRequest struct {
	store.MaintenancePatch
	ScheduledDate *string `json:"scheduledDate"`
	CompletedDate *string `json:"completedDate"`
}

func (h *Handler) maintenanceFilter(c *gin.Context) (store.MaintenanceFilter, bool) {
	f := store.MaintenanceFilter{
		RoomID: c.Query("roomId"),
		Query:  c.Query("q"),
	}
	if v := c.Query("status"); v != "" && v != "all" {
		f.Status = model.MaintenanceStatus(v)
		if !f.Status.Valid() {
			writeQueryError(c, "status", fmt.Errorf("unknown maintenance status %q", v))
			return f, false
		}
	}
	if v := c.Query("type"); v != "" && v != "all" {
		f.Type = model.MaintenanceType(v)
		if !f.Type.Valid() {
			writeQueryError(c, "type", fmt.Errorf("unknown maintenance type %q", v))
			return f, false
		}
	}
	if v := c.Query("overdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			writeQueryError(c, "overdue", err)
			return f, false
		}
		if overdue {
			t := h.clock()
			f.OverdueAt = &t
		}
	}
	return f, true
}

// ListMaintenance handles GET /api/maintenance.
func (h *Handler) ListMaintenance(c *gin.Context) {
	f, ok := h.maintenanceFilter(c)
	if !ok {
		return
	}
	records, err := h.store.ListMaintenance(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// MaintenanceStats handles GET /api/maintenance/stats.
func (h *Handler) MaintenanceStats(c *gin.Context) {
	records, err := h.store.ListMaintenance(c.Request.Context(), store.MaintenanceFilter{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.Maintenance(records, h.clock()))
}

// GetMaintenance handles GET /api/maintenance/:id.
func (h *Handler) GetMaintenance(c *gin.Context) {
	m, err := h.store.GetMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateMaintenance handles POST /api/maintenance.
func (h *Handler) CreateMaintenance(c *gin.Context) {
	var req createMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	errs := validate.Errors{}
	m := model.MaintenanceRecord{
		RoomID:        req.RoomID,
		Type:          req.Type,
		Description:   strings.TrimSpace(req.Description),
		Technician:    strings.TrimSpace(req.Technician),
		ScheduledDate: h.timeField(errs, "scheduledDate", req.ScheduledDate),
		Status:        req.Status,
		Cost:          req.Cost,
	}
	if req.CompletedDate != "" {
		t := h.timeField(errs, "completedDate", req.CompletedDate)
		m.CompletedDate = &t
	}
	if err := errs.Err(); err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.CreateMaintenance(c.Request.Context(), &m); err != nil {
		writeError(c, err)
		return
	}
	h.emit(maintenanceEvent(events.MaintenanceCreated, &m))
	c.JSON(http.StatusCreated, m)
}

// UpdateMaintenance handles PUT /api/maintenance/:id.
func (h *Handler) UpdateMaintenance(c *gin.Context) {
	var req maintenancePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	errs := validate.Errors{}
	patch := req.MaintenancePatch
	if req.ScheduledDate != nil {
		t := h.timeField(errs, "scheduledDate", *req.ScheduledDate)
		patch.ScheduledDate = &t
	}
	if req.CompletedDate != nil && *req.CompletedDate != "" {
		t := h.timeField(errs, "completedDate", *req.CompletedDate)
		patch.CompletedDate = &t
	}
	if err := errs.Err(); err != nil {
		writeError(c, err)
		return
	}

	m, err := h.store.UpdateMaintenance(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	h.emit(maintenanceEvent(events.MaintenanceUpdated, m))
	c.JSON(http.StatusOK, m)
}

// DeleteMaintenance handles DELETE /api/maintenance/:id.
func (h *Handler) DeleteMaintenance(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteMaintenance(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.emit(events.Event{Type: events.MaintenanceDeleted, ID: id})
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance record deleted successfully"})
}
