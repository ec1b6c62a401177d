package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"appointmint/models"

	"go.uber.org/zap"
)

// memStore is an in-memory ConversationStore.
type memStore struct {
	states  map[string]*models.ConversationState
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*models.ConversationState)}
}

func (m *memStore) key(restaurantID, conversationID string) string {
	return restaurantID + ":" + conversationID
}

func (m *memStore) Load(ctx context.Context, restaurantID, conversationID string) (*models.ConversationState, error) {
	st, ok := m.states[m.key(restaurantID, conversationID)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) Save(ctx context.Context, restaurantID, conversationID string, st *models.ConversationState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	st.UpdatedAt = time.Now()
	cp := *st
	m.states[m.key(restaurantID, conversationID)] = &cp
	return nil
}

func (m *memStore) Clear(ctx context.Context, restaurantID, conversationID string) error {
	delete(m.states, m.key(restaurantID, conversationID))
	return nil
}

// fakeBooking scripts the availability resolver and commit outcomes.
type fakeBooking struct {
	avail        *models.TableAvailabilityResult
	commitErr    error
	committed    []*models.Reservation
	largeParties []*models.Reservation
}

func (f *fakeBooking) FindTable(ctx context.Context, restaurantID, date, timeStr string, partySize int) (*models.TableAvailabilityResult, error) {
	if f.avail != nil {
		return f.avail, nil
	}
	return &models.TableAvailabilityResult{
		Available:  true,
		Table:      &models.TableSnapshot{TableID: "t1", Capacity: partySize, Status: models.TableStatusFree},
		ResolvedAt: time.Now(),
	}, nil
}

func (f *fakeBooking) Commit(ctx context.Context, restaurantID string, rec *models.BookingRecord, avail *models.TableAvailabilityResult, source string) (*models.Reservation, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	res := &models.Reservation{
		ID:            "res-1",
		RestaurantID:  restaurantID,
		TableID:       "t1",
		CustomerName:  rec.CustomerName,
		CustomerPhone: rec.CustomerPhone,
		PartySize:     rec.PartySize,
		Date:          rec.Date,
		Time:          rec.Time,
		Status:        models.ReservationConfirmed,
		Source:        source,
	}
	f.committed = append(f.committed, res)
	return res, nil
}

func (f *fakeBooking) RecordLargeParty(ctx context.Context, restaurantID string, rec *models.BookingRecord, source string) (*models.Reservation, error) {
	res := &models.Reservation{
		ID:            "res-lp-1",
		RestaurantID:  restaurantID,
		CustomerName:  rec.CustomerName,
		CustomerPhone: rec.CustomerPhone,
		PartySize:     rec.PartySize,
		Date:          rec.Date,
		Time:          rec.Time,
		Status:        models.ReservationPending,
		Source:        source,
	}
	f.largeParties = append(f.largeParties, res)
	return res, nil
}

// fakeRestaurants serves one restaurant.
type fakeRestaurants struct {
	restaurant *models.Restaurant
}

func (f *fakeRestaurants) GetByID(id string) (*models.Restaurant, error) {
	if f.restaurant != nil && f.restaurant.ID == id {
		return f.restaurant, nil
	}
	return nil, nil
}
func (f *fakeRestaurants) GetByWebhookToken(token string) (*models.Restaurant, error) {
	return nil, nil
}
func (f *fakeRestaurants) Create(r *models.Restaurant) error { return nil }
func (f *fakeRestaurants) Update(r *models.Restaurant) error { return nil }
func (f *fakeRestaurants) GetTenant(id string) (*models.Tenant, error) {
	return nil, nil
}

// fakeNotifier counts staff alerts.
type fakeNotifier struct {
	reservations int
	handovers    int
	reminders    int
}

func (f *fakeNotifier) NotifyReservation(ctx context.Context, restaurantID string, res *models.Reservation) error {
	f.reservations++
	return nil
}
func (f *fakeNotifier) NotifyHandover(ctx context.Context, restaurantID string, res *models.Reservation) error {
	f.handovers++
	return nil
}
func (f *fakeNotifier) NotifyReminder(ctx context.Context, restaurantID string, res *models.Reservation) error {
	f.reminders++
	return nil
}

type engineFixture struct {
	svc      *DefaultAssistantService
	store    *memStore
	booking  *fakeBooking
	notifier *fakeNotifier
	nlu      *fakeNLU
}

func newEngineFixture() *engineFixture {
	store := newMemStore()
	bk := &fakeBooking{}
	nt := &fakeNotifier{}
	nlu := &fakeNLU{reply: `{"has_booking_intent": true}`}
	svc := &DefaultAssistantService{
		Store:      store,
		Extractor:  &GeminiSlotExtractor{NLU: nlu, Logger: zap.NewNop()},
		BookingSvc: bk,
		RestaurantRepo: &fakeRestaurants{restaurant: &models.Restaurant{
			ID:       "r1",
			Name:     "Trattoria Bella",
			Phone:    "+49 30 5551234",
			Timezone: "UTC",
			Active:   true,
		}},
		Notifier:          nt,
		Logger:            zap.NewNop(),
		MaxSelfServeParty: 8,
	}
	return &engineFixture{svc: svc, store: store, booking: bk, notifier: nt, nlu: nlu}
}

func (fx *engineFixture) say(t *testing.T, text string) *models.ChatResponse {
	t.Helper()
	resp, err := fx.svc.HandleMessage(context.Background(), models.ChatRequest{
		ConversationID: "c1",
		RestaurantID:   "r1",
		Text:           text,
	})
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
	return resp
}

func TestFullBookingFlow(t *testing.T) {
	fx := newEngineFixture()

	resp := fx.say(t, "I'd like to book a table")
	if !strings.Contains(resp.Text, "date") || resp.ButtonType != "date" {
		t.Fatalf("expected date prompt, got %q (%s)", resp.Text, resp.ButtonType)
	}
	if len(resp.ConversationState) == 0 {
		t.Fatal("mid-conversation response must carry state")
	}

	resp = fx.say(t, "tomorrow")
	if resp.ButtonType != "time" {
		t.Fatalf("expected time prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "19:00")
	if resp.ButtonType != "guests" {
		t.Fatalf("expected guests prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "4")
	if !strings.Contains(resp.Text, "name") {
		t.Fatalf("expected name prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "Maria Schmidt")
	if !strings.Contains(resp.Text, "phone") {
		t.Fatalf("expected phone prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "+49 170 1234567")
	if resp.ButtonType != "special_requests" {
		t.Fatalf("expected special requests prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "window")
	if !strings.Contains(resp.Text, ConfirmationStart) || !strings.Contains(resp.Text, ConfirmationEnd) {
		t.Fatalf("summary missing confirmation markers: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Maria Schmidt") || !strings.Contains(resp.Text, "7 PM") {
		t.Fatalf("summary missing details: %q", resp.Text)
	}

	resp = fx.say(t, "confirm")
	if resp.Reservation == nil {
		t.Fatalf("expected committed reservation, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Reservation Confirmed") {
		t.Errorf("confirmation text: %q", resp.Text)
	}
	if len(resp.ConversationState) != 0 {
		t.Error("terminal response must not carry state")
	}
	if len(fx.booking.committed) != 1 {
		t.Fatalf("committed %d reservations", len(fx.booking.committed))
	}
	if got := fx.booking.committed[0]; got.SpecialRequests != "" && got.SpecialRequests != "Window seat" {
		t.Errorf("special requests = %q", got.SpecialRequests)
	}
	if _, ok := fx.store.states["r1:c1"]; ok {
		t.Error("state should be cleared after completion")
	}
}

func TestLargePartyHandover(t *testing.T) {
	fx := newEngineFixture()

	fx.say(t, "book a table")
	fx.say(t, "tomorrow")
	fx.say(t, "20:00")

	resp := fx.say(t, "9+")
	if !strings.Contains(resp.Text, "phone") {
		t.Fatalf("expected staff handover phone prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "+49 170 7654321")
	if !strings.Contains(resp.Text, "name") {
		t.Fatalf("expected name prompt, got %q", resp.Text)
	}

	resp = fx.say(t, "Jonas Weber")
	if resp.Reservation == nil || resp.Reservation.Status != models.ReservationPending {
		t.Fatalf("expected pending staff reservation, got %+v", resp.Reservation)
	}
	if !strings.Contains(resp.Text, "24 hours") {
		t.Errorf("handover text: %q", resp.Text)
	}
	if len(fx.booking.largeParties) != 1 {
		t.Fatalf("recorded %d large parties", len(fx.booking.largeParties))
	}
	if fx.notifier.handovers != 1 {
		t.Errorf("handover alerts = %d", fx.notifier.handovers)
	}
	if len(fx.booking.committed) != 0 {
		t.Error("large party must not auto-commit a table")
	}
}

func TestCancelAtFinalConfirmation(t *testing.T) {
	fx := newEngineFixture()

	fx.say(t, "book a table")
	fx.say(t, "tomorrow")
	fx.say(t, "19:00")
	fx.say(t, "2")
	fx.say(t, "Anna Berg")
	fx.say(t, "+49 160 1112222")
	fx.say(t, "none")

	resp := fx.say(t, "cancel")
	if !strings.Contains(strings.ToLower(resp.Text), "cancelled") {
		t.Fatalf("expected cancellation ack, got %q", resp.Text)
	}
	if len(fx.booking.committed) != 0 {
		t.Error("cancel must not commit")
	}

	// The conversation restarts cleanly.
	resp = fx.say(t, "book a table")
	if resp.ButtonType != "date" {
		t.Fatalf("expected fresh date prompt, got %q", resp.Text)
	}
}

func TestNoTableReasksTime(t *testing.T) {
	fx := newEngineFixture()
	fx.booking.avail = &models.TableAvailabilityResult{
		Available:  false,
		Reason:     models.ReasonNoSlot,
		ResolvedAt: time.Now(),
	}

	fx.say(t, "book a table")
	fx.say(t, "tomorrow")
	fx.say(t, "19:00")

	resp := fx.say(t, "4")
	if resp.ButtonType != "time" {
		t.Fatalf("expected time re-prompt, got %q (%s)", resp.Text, resp.ButtonType)
	}
	if !strings.Contains(resp.Text, "fully booked") {
		t.Errorf("unavailable text: %q", resp.Text)
	}

	// Date and party survive; only the time is re-collected.
	st := fx.store.states["r1:c1"]
	if st == nil || st.Record.Date == "" || st.Record.PartySize != 4 {
		t.Fatalf("record lost fields: %+v", st)
	}
	if st.State != models.StateAwaitingTime {
		t.Errorf("state = %s", st.State)
	}
}

func TestSenderIdentityConfirmation(t *testing.T) {
	fx := newEngineFixture()

	say := func(text string) *models.ChatResponse {
		resp, err := fx.svc.HandleMessage(context.Background(), models.ChatRequest{
			ConversationID: "c2",
			RestaurantID:   "r1",
			Text:           text,
			SenderName:     "Lena Fischer",
			SenderPhone:    "+49 151 9998877",
		})
		if err != nil {
			t.Fatalf("HandleMessage(%q): %v", text, err)
		}
		return resp
	}

	say("book a table")
	say("tomorrow")
	say("19:00")

	resp := say("2")
	if !strings.Contains(resp.Text, "Lena Fischer") || resp.ButtonType != "confirm" {
		t.Fatalf("expected identity confirmation, got %q", resp.Text)
	}

	resp = say("confirm")
	if resp.ButtonType != "special_requests" {
		t.Fatalf("expected special requests after identity confirm, got %q", resp.Text)
	}

	resp = say("none")
	if !strings.Contains(resp.Text, "Lena Fischer") {
		t.Fatalf("summary should use sender identity: %q", resp.Text)
	}
}

func TestPhoneLookingSenderNameRejected(t *testing.T) {
	fx := newEngineFixture()

	resp, err := fx.svc.HandleMessage(context.Background(), models.ChatRequest{
		ConversationID: "c3",
		RestaurantID:   "r1",
		Text:           "table for 2 tomorrow at 7pm",
		SenderName:     "+49 170 0000000",
	})
	if err != nil {
		t.Fatal(err)
	}
	// The phone-looking transport name must never trigger the identity
	// confirmation shortcut; the engine asks for a real name.
	if strings.Contains(resp.Text, "+49 170 0000000") && strings.Contains(resp.Text, "Shall I book under") {
		t.Fatalf("booked under a phone number: %q", resp.Text)
	}
}

func TestSaveFailureDoesNotAdvance(t *testing.T) {
	fx := newEngineFixture()
	fx.store.saveErr = context.DeadlineExceeded

	resp := fx.say(t, "book a table")
	if !strings.Contains(resp.Text, "something went wrong") {
		t.Fatalf("expected apology on save failure, got %q", resp.Text)
	}
	if len(resp.ConversationState) != 0 {
		t.Error("failed save must not emit state")
	}
}

func TestUnknownRestaurantRejected(t *testing.T) {
	fx := newEngineFixture()
	_, err := fx.svc.HandleMessage(context.Background(), models.ChatRequest{
		ConversationID: "c9",
		RestaurantID:   "ghost",
		Text:           "hello",
	})
	if err == nil {
		t.Fatal("expected error for unknown restaurant")
	}
}
