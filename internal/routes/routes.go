package routes

import (
	"github.com/gin-gonic/gin"

	"daygrid/internal/handlers"
	"daygrid/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	preferencesHandler *handlers.PreferencesHandler,
	scheduleHandler *handlers.ScheduleHandler,
	importHandler *handlers.ImportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/register", userHandler.Register)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.GET("/me", userHandler.Me)

	// EVENTS
	events := r.Group("/events")
	{
		events.POST("/", eventHandler.Create)
		events.GET("/", eventHandler.List)
		events.GET("/:id", eventHandler.GetByID)
		events.PUT("/:id", eventHandler.Update)
		events.POST("/:id/reschedule", eventHandler.Reschedule)
		events.DELETE("/:id", eventHandler.Delete)
	}

	// PREFERENCES
	prefs := r.Group("/preferences")
	{
		prefs.GET("/", preferencesHandler.Get)
		prefs.PUT("/", preferencesHandler.Update)
	}

	// SCHEDULE
	schedule := r.Group("/schedule")
	{
		schedule.POST("/resolve", scheduleHandler.Resolve)
		schedule.GET("/agenda.pdf", scheduleHandler.AgendaPDF)
	}

	// IMPORT
	imp := r.Group("/import")
	{
		imp.POST("/ics", importHandler.ImportICS)
	}

	// INTEGRATIONS
	integr := r.Group("/integrations")
	{
		integr.POST("/telegram/link", userHandler.LinkTelegram)
	}

	return r
}
