package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"appointmint/handlers"

	"github.com/gin-gonic/gin"
)

// stubBundle fills every handler slot with a 204 stub so registration can be
// exercised without live services.
func stubBundle() *handlers.HandlerBundle {
	stub := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	return &handlers.HandlerBundle{
		ChatHandler:                    stub,
		VoiceChatHandler:               stub,
		ChatwootWebhookHandler:         stub,
		ChatwootWebhookTestHandler:     stub,
		CheckAvailabilityHandler:       stub,
		CreateReservationHandler:       stub,
		GetReservationHandler:          stub,
		ListReservationsHandler:        stub,
		CancelReservationHandler:       stub,
		UpdateReservationStatusHandler: stub,
		TodaysReservationsHandler:      stub,
		UpcomingReservationsHandler:    stub,
		TodaysStatsHandler:             stub,
		PendingBookingsHandler:         stub,
		ListTablesHandler:              stub,
		CreateTableHandler:             stub,
		SetTableStatusHandler:          stub,
		WidgetConfigHandler:            stub,
	}
}

func TestEveryEndpointIsRouted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hb := stubBundle()

	RegisterChatRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterTableRoutes(r, hb)
	RegisterWidgetRoutes(r, hb)
	RegisterHealthRoute(r)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/ai/chat"},
		{http.MethodPost, "/api/ai/voice-chat"},
		{http.MethodPost, "/api/webhook/chatwoot/tok"},
		{http.MethodGet, "/api/webhook/chatwoot/tok/test"},
		{http.MethodGet, "/api/restaurants/r1/availability"},
		{http.MethodGet, "/api/restaurants/r1/reservations"},
		{http.MethodPost, "/api/restaurants/r1/reservations"},
		{http.MethodGet, "/api/reservations/res-1"},
		{http.MethodPost, "/api/reservations/res-1/cancel"},
		{http.MethodPatch, "/api/reservations/res-1/status"},
		{http.MethodGet, "/api/restaurants/r1/reservations/today"},
		{http.MethodGet, "/api/restaurants/r1/reservations/upcoming"},
		{http.MethodGet, "/api/restaurants/r1/reservations/pending"},
		{http.MethodGet, "/api/restaurants/r1/stats/today"},
		{http.MethodGet, "/api/restaurants/r1/tables"},
		{http.MethodPost, "/api/restaurants/r1/tables"},
		{http.MethodPatch, "/api/tables/t1/status"},
		{http.MethodGet, "/api/widget/r1/config"},
	}
	for _, ep := range endpoints {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(ep.method, ep.path, nil))
		if w.Code != http.StatusNoContent {
			t.Errorf("%s %s: status %d, route not wired", ep.method, ep.path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /health: status %d", w.Code)
	}
}
