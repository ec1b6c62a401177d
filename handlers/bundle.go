// File: appointmint/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoints
	ChatHandler      gin.HandlerFunc
	VoiceChatHandler gin.HandlerFunc

	// Chatwoot webhook endpoints
	ChatwootWebhookHandler     gin.HandlerFunc
	ChatwootWebhookTestHandler gin.HandlerFunc

	// Reservation endpoints
	CheckAvailabilityHandler       gin.HandlerFunc
	CreateReservationHandler       gin.HandlerFunc
	GetReservationHandler          gin.HandlerFunc
	ListReservationsHandler        gin.HandlerFunc
	CancelReservationHandler       gin.HandlerFunc
	UpdateReservationStatusHandler gin.HandlerFunc

	// Staff dashboard endpoints
	TodaysReservationsHandler   gin.HandlerFunc
	UpcomingReservationsHandler gin.HandlerFunc
	TodaysStatsHandler          gin.HandlerFunc
	PendingBookingsHandler      gin.HandlerFunc

	// Table endpoints
	ListTablesHandler     gin.HandlerFunc
	CreateTableHandler    gin.HandlerFunc
	SetTableStatusHandler gin.HandlerFunc
	WidgetConfigHandler   gin.HandlerFunc
}
