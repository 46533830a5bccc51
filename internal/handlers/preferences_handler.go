package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"daygrid/internal/models"
	"daygrid/internal/repositories"
	"daygrid/internal/services"
)

type PreferencesHandler struct {
	repo      repositories.PreferencesRepository
	scheduler services.SchedulerService
}

func NewPreferencesHandler(repo repositories.PreferencesRepository, scheduler services.SchedulerService) *PreferencesHandler {
	return &PreferencesHandler{repo: repo, scheduler: scheduler}
}

// @Summary      Get working calendar
// @Tags         Preferences
// @Produce      json
// @Success      200  {object}  models.SchedulingPreferences
// @Router       /preferences [get]
func (h *PreferencesHandler) Get(c *gin.Context) {
	userID := getUserID(c)
	prefs, err := h.repo.Get(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[prefs][get][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// @Summary      Update working calendar
// @Description  Saves the working calendar and reschedules the user's flexible items
// @Tags         Preferences
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.SchedulingPreferences
// @Failure      400  {object}  map[string]string
// @Router       /preferences [put]
func (h *PreferencesHandler) Update(c *gin.Context) {
	userID := getUserID(c)

	var req struct {
		DayStartMinutes int     `json:"day_start_minutes"`
		DayEndMinutes   int     `json:"day_end_minutes"`
		Weekdays        []int64 `json:"weekdays"`
		BufferMinutes   int     `json:"buffer_minutes"`
		LeadTimeMinutes int     `json:"lead_time_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DayStartMinutes < 0 || req.DayStartMinutes >= 24*60 ||
		req.DayEndMinutes < 0 || req.DayEndMinutes >= 24*60 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day bounds must be minutes within 0..1439"})
		return
	}
	if req.BufferMinutes < 0 || req.LeadTimeMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buffer and lead time must be non-negative"})
		return
	}
	for _, d := range req.Weekdays {
		if d < 0 || d > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weekdays must be 0 (Sunday) .. 6 (Saturday)"})
			return
		}
	}

	prefs := &models.SchedulingPreferences{
		UserID:          userID,
		DayStartMinutes: req.DayStartMinutes,
		DayEndMinutes:   req.DayEndMinutes,
		Weekdays:        req.Weekdays,
		BufferMinutes:   req.BufferMinutes,
		LeadTimeMinutes: req.LeadTimeMinutes,
	}
	if err := h.repo.Upsert(c.Request.Context(), prefs); err != nil {
		log.Printf("[prefs][update][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}

	// the calendar changed shape, replan everything flexible
	if _, err := h.scheduler.ResolveUser(c.Request.Context(), userID); err != nil {
		log.Printf("[prefs][update][resolve][err] userID=%d: %v", userID, err)
	}

	log.Printf("[prefs][update][ok] userID=%d", userID)
	c.JSON(http.StatusOK, prefs)
}
