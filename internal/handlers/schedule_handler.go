package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daygrid/internal/services"
)

type ScheduleHandler struct {
	scheduler services.SchedulerService
	agenda    services.AgendaService
}

func NewScheduleHandler(scheduler services.SchedulerService, agenda services.AgendaService) *ScheduleHandler {
	return &ScheduleHandler{scheduler: scheduler, agenda: agenda}
}

// @Summary      Resolve the calendar
// @Description  Replans all flexible items for the current user and returns the decisions
// @Tags         Schedule
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /schedule/resolve [post]
func (h *ScheduleHandler) Resolve(c *gin.Context) {
	userID := getUserID(c)

	decisions, err := h.scheduler.ResolveUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[schedule][resolve][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scheduling pass failed"})
		return
	}

	waitlisted := 0
	for _, d := range decisions {
		if d.Waitlisted {
			waitlisted++
		}
	}
	log.Printf("[schedule][resolve][ok] userID=%d decisions=%d waitlisted=%d", userID, len(decisions), waitlisted)
	c.JSON(http.StatusOK, gin.H{
		"decisions":  decisions,
		"waitlisted": waitlisted,
	})
}

// @Summary      Weekly agenda PDF
// @Description  Renders the week starting at ?week_start (RFC3339, defaults to the current week's Monday)
// @Tags         Schedule
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Router       /schedule/agenda.pdf [get]
func (h *ScheduleHandler) AgendaPDF(c *gin.Context) {
	userID := getUserID(c)

	weekStart := startOfWeek(time.Now())
	if raw := c.Query("week_start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start (RFC3339)"})
			return
		}
		weekStart = startOfWeek(parsed)
	}

	data, err := h.agenda.WeeklyPDF(c.Request.Context(), userID, weekStart)
	if err != nil {
		log.Printf("[schedule][agenda][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render agenda"})
		return
	}

	log.Printf("[schedule][agenda][ok] userID=%d weekStart=%s bytes=%d", userID, weekStart.Format("2006-01-02"), len(data))
	c.Header("Content-Disposition", `attachment; filename="agenda-`+weekStart.Format("2006-01-02")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// startOfWeek returns the Monday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
