package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"daygrid/internal/services"
)

const maxICSBodyBytes = 5 << 20 // 5 MiB

type ImportHandler struct {
	service services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// @Summary      Import an ICS calendar
// @Description  Accepts a text/calendar body, stores its events as fixed items and replans
// @Tags         Import
// @Accept       plain
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /import/ics [post]
func (h *ImportHandler) ImportICS(c *gin.Context) {
	userID := getUserID(c)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxICSBodyBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}
	if len(body) > maxICSBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "calendar too large"})
		return
	}

	created, err := h.service.ImportICS(c.Request.Context(), userID, body)
	if err != nil {
		log.Printf("[import][ics][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[import][ics][ok] userID=%d created=%d", userID, created)
	c.JSON(http.StatusOK, gin.H{"created": created})
}
