package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"daygrid/internal/models"
	"daygrid/internal/services"
)

type EventHandler struct {
	service services.EventService
}

func NewEventHandler(service services.EventService) *EventHandler {
	return &EventHandler{service: service}
}

type eventRequest struct {
	Kind            models.EventKind     `json:"kind"`     // event|task|reminder
	Priority        models.EventPriority `json:"priority"` // critical|urgent|relevant|optional|reminder
	Title           string               `json:"title" binding:"required"`
	Description     string               `json:"description"`
	Location        string               `json:"location"`
	Start           string               `json:"start"` // RFC3339
	End             string               `json:"end"`   // RFC3339
	DurationMinutes int                  `json:"duration_minutes"`
	Fixed           bool                 `json:"fixed"`
	OverlapAllowed  bool                 `json:"overlap_allowed"`
	Window          models.WindowClass   `json:"window"` // none|soon|this_week|this_month|custom
	WindowStart     string               `json:"window_start"`
	WindowEnd       string               `json:"window_end"`
	Repeat          models.RepeatRule    `json:"repeat"`
}

func (r *eventRequest) toEvent(ownerID int64) (*models.Event, error) {
	start, err := parseTimePtr(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseTimePtr(r.End)
	if err != nil {
		return nil, err
	}
	winStart, err := parseTimePtr(r.WindowStart)
	if err != nil {
		return nil, err
	}
	winEnd, err := parseTimePtr(r.WindowEnd)
	if err != nil {
		return nil, err
	}
	return &models.Event{
		OwnerID:         ownerID,
		Kind:            r.Kind,
		Priority:        r.Priority,
		Title:           r.Title,
		Description:     r.Description,
		Location:        r.Location,
		Start:           start,
		End:             end,
		DurationMinutes: r.DurationMinutes,
		Fixed:           r.Fixed,
		OverlapAllowed:  r.OverlapAllowed,
		Window:          r.Window,
		WindowStart:     winStart,
		WindowEnd:       winEnd,
		Repeat:          r.Repeat,
	}, nil
}

// @Summary      Create an event
// @Description  Creates an event and runs the scheduling it requires
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        event  body      eventRequest  true  "Event"
// @Success      201    {object}  models.Event
// @Failure      400    {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	userID := getUserID(c)

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[event][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := req.toEvent(userID)
	if err != nil {
		log.Printf("[event][create][err] bad time field: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time field (RFC3339)"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), event)
	if err != nil {
		log.Printf("[event][create][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[event][create][ok] id=%d userID=%d title=%q waitlisted=%v", created.ID, userID, created.Title, created.Waitlisted)
	c.JSON(http.StatusCreated, created)
}

// GET /events/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	event, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil || event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if event.OwnerID != getUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// GET /events
func (h *EventHandler) List(c *gin.Context) {
	userID := getUserID(c)
	filter := models.EventFilter{OwnerID: &userID}

	if v := c.Query("kind"); v != "" {
		kind := models.EventKind(v)
		filter.Kind = &kind
	}
	if v := c.Query("priority"); v != "" {
		priority := models.EventPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("waitlisted"); v != "" {
		waitlisted := v == "true"
		filter.Waitlisted = &waitlisted
	}
	from, err := parseTimePtr(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from (RFC3339)"})
		return
	}
	filter.From = from
	to, err := parseTimePtr(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to (RFC3339)"})
		return
	}
	filter.To = to

	events, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[event][list][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// PUT /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	userID := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if existing.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update, err := req.toEvent(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time field (RFC3339)"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, update)
	if err != nil {
		log.Printf("[event][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[event][update][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, updated)
}

// @Summary      Reschedule an event
// @Description  Re-runs placement for the event and returns its fresh state
// @Tags         Events
// @Produce      json
// @Success      200  {object}  models.Event
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/reschedule [post]
func (h *EventHandler) Reschedule(c *gin.Context) {
	userID := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if existing.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}

	updated, err := h.service.Reschedule(c.Request.Context(), id)
	if err != nil {
		log.Printf("[event][reschedule][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reschedule"})
		return
	}
	log.Printf("[event][reschedule][ok] id=%d userID=%d waitlisted=%v", id, userID, updated.Waitlisted)
	c.JSON(http.StatusOK, updated)
}

// DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	userID := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if existing.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[event][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	log.Printf("[event][delete][ok] id=%d userID=%d", id, userID)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
