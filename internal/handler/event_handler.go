package handler

import (
	"net/http"

	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

type CreateEventReq struct {
	Type        string `json:"type" binding:"required"`
	MeetingType string `json:"meetingType" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Venue       string `json:"venue" binding:"required"`
}

type UpdateEventReq struct {
	Type        *string `json:"type"`
	MeetingType *string `json:"meetingType"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Venue       *string `json:"venue"`
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Create schedules an event.
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "all event fields are required")
		return
	}

	ev, err := h.svc.Create(c.Request.Context(), service.EventInput(req))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// List returns all events, earliest first.
func (h *EventHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one event.
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ev, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Update patches the given event fields.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	ev, err := h.svc.Update(c.Request.Context(), id, service.EventPatch(req))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Delete removes an event.
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}
