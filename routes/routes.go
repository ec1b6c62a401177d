package routes

import (
	"net/http"
	"time"

	"appointmint/handlers"
	"appointmint/middleware"
	"appointmint/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational endpoints used by the
// widget and voice channels.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/ai")
	{
		api.POST("/chat", hb.ChatHandler)
		api.POST("/voice-chat", hb.VoiceChatHandler)
	}
}

// RegisterWebhookRoutes registers the Chatwoot inbound webhook. Auth is the
// per-restaurant webhook token in the URL, not a shared header.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhook")
	{
		api.POST("/chatwoot/:token", hb.ChatwootWebhookHandler)
		api.GET("/chatwoot/:token/test", hb.ChatwootWebhookTestHandler)
	}
}

// RegisterReservationRoutes registers reservation queries and staff-side
// status transitions.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/restaurants/:restaurantID/availability", hb.CheckAvailabilityHandler)
		api.GET("/restaurants/:restaurantID/reservations", hb.ListReservationsHandler)
		api.POST("/restaurants/:restaurantID/reservations", hb.CreateReservationHandler)
		api.GET("/reservations/:id", hb.GetReservationHandler)
		api.POST("/reservations/:id/cancel", hb.CancelReservationHandler)
		api.PATCH("/reservations/:id/status", hb.UpdateReservationStatusHandler)

		// Staff dashboard quick views.
		api.GET("/restaurants/:restaurantID/reservations/today", hb.TodaysReservationsHandler)
		api.GET("/restaurants/:restaurantID/reservations/upcoming", hb.UpcomingReservationsHandler)
		api.GET("/restaurants/:restaurantID/reservations/pending", hb.PendingBookingsHandler)
		api.GET("/restaurants/:restaurantID/stats/today", hb.TodaysStatsHandler)
	}
}

// RegisterTableRoutes registers floor plan management endpoints.
func RegisterTableRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/restaurants/:restaurantID/tables", hb.ListTablesHandler)
		api.POST("/restaurants/:restaurantID/tables", hb.CreateTableHandler)
		api.PATCH("/tables/:id/status", hb.SetTableStatusHandler)
	}
}

// RegisterWidgetRoutes registers the public widget bootstrap endpoint.
func RegisterWidgetRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/widget/:restaurantID/config", hb.WidgetConfigHandler)
}

// RegisterHealthRoute registers the health-check endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm AppointMint"})
	})
	r.GET("/health/details", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here. The widget is embedded on
	// arbitrary customer sites, so origins stay open.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterChatRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterTableRoutes(r, hb)
	RegisterWidgetRoutes(r, hb)
	RegisterHealthRoute(r)
}
