// File: services/assistant/engine.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"appointmint/models"
	"appointmint/services/booking"
	"appointmint/services/notification"

	restaurantRepo "appointmint/database/repository/restaurant"

	"go.uber.org/zap"
)

// AssistantService is the conversational booking engine's entry point.
type AssistantService interface {
	HandleMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// DefaultAssistantService wires the extractor, state store, and booking
// service together. Construct once and inject; never per turn.
type DefaultAssistantService struct {
	Store             ConversationStore
	Extractor         SlotExtractor
	BookingSvc        booking.Service
	RestaurantRepo    restaurantRepo.RestaurantRepository
	Notifier          notification.NotificationService
	Logger            *zap.Logger
	MaxSelfServeParty int

	// convLocks serializes overlapping turns of the same conversation.
	// Different conversations proceed in parallel.
	convLocks sync.Map
}

func (s *DefaultAssistantService) lockConversation(key string) *sync.Mutex {
	mu, _ := s.convLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleMessage processes one inbound turn: load state, extract slots,
// advance the dialogue, persist or clear state, and assemble the response.
func (s *DefaultAssistantService) HandleMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if req.ConversationID == "" || req.RestaurantID == "" {
		return nil, fmt.Errorf("conversation_id and restaurant_id are required")
	}

	mu := s.lockConversation(req.RestaurantID + ":" + req.ConversationID)
	mu.Lock()
	defer mu.Unlock()

	st, err := s.Store.Load(ctx, req.RestaurantID, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation state: %w", err)
	}
	if st == nil {
		st, err = s.newState(ctx, req)
		if err != nil {
			return nil, err
		}
	}
	if req.SenderName != "" {
		st.SenderName = req.SenderName
	}
	if req.SenderPhone != "" {
		st.SenderPhone = req.SenderPhone
	}

	fields := s.extractFields(ctx, st, req.Text)

	reply, err := s.advance(ctx, st, fields, req.Text)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("turn advanced",
		zap.String("conversation_id", req.ConversationID),
		zap.String("phase", string(st.State.Phase())))

	if reply.Terminal {
		if cerr := s.Store.Clear(ctx, req.RestaurantID, req.ConversationID); cerr != nil {
			s.Logger.Warn("failed to clear conversation state",
				zap.String("conversation_id", req.ConversationID), zap.Error(cerr))
		}
	} else {
		if serr := s.Store.Save(ctx, req.RestaurantID, req.ConversationID, st); serr != nil {
			// Do not advance the dialogue on a persistence failure.
			s.Logger.Error("failed to save conversation state",
				zap.String("conversation_id", req.ConversationID), zap.Error(serr))
			return &models.ChatResponse{
				Text: "I'm sorry, something went wrong on our side. Could you repeat that?",
			}, nil
		}
	}

	return s.assembleResponse(st, reply)
}

// newState creates fresh state, capturing the restaurant timezone once.
func (s *DefaultAssistantService) newState(ctx context.Context, req models.ChatRequest) (*models.ConversationState, error) {
	st := &models.ConversationState{
		RestaurantID:   req.RestaurantID,
		ConversationID: req.ConversationID,
		State:          models.StateInitial,
	}
	restaurant, err := s.RestaurantRepo.GetByID(req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("lookup restaurant %s: %w", req.RestaurantID, err)
	}
	if restaurant == nil {
		return nil, fmt.Errorf("unknown restaurant %s", req.RestaurantID)
	}
	if !restaurant.Active {
		return nil, fmt.Errorf("restaurant %s is not accepting bookings", req.RestaurantID)
	}
	st.Timezone = restaurant.Timezone
	return st, nil
}

// extractFields decides whether a turn needs slot extraction at all.
// Confirmation answers and special request replies are consumed raw by the
// state machine, so no extractor (and no NLU call) runs for them.
func (s *DefaultAssistantService) extractFields(ctx context.Context, st *models.ConversationState, text string) models.ExtractedFields {
	switch st.State {
	case models.StateAwaitingFinalConfirm, models.StateAwaitingIdentityConfirm,
		models.StateAwaitingSpecialRequests, models.StateHandover:
		return models.ExtractedFields{}
	}
	if isAffirmative(text) || isNegative(text) {
		return models.ExtractedFields{}
	}
	now := time.Now().In(st.Location())
	return s.Extractor.Extract(ctx, text, st.LastQuestion, now)
}

func (s *DefaultAssistantService) assembleResponse(st *models.ConversationState, reply *TurnReply) (*models.ChatResponse, error) {
	resp := &models.ChatResponse{
		Text:        reply.Text,
		Buttons:     reply.Buttons,
		ButtonType:  reply.ButtonType,
		Reservation: reply.Reservation,
	}
	if !reply.Terminal {
		blob, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("marshal conversation state: %w", err)
		}
		resp.ConversationState = blob
	}
	return resp, nil
}

// restaurantName is a display helper; lookup failures fall back to a
// generic label rather than breaking the reply.
func (s *DefaultAssistantService) restaurantName(ctx context.Context, restaurantID string) string {
	restaurant, err := s.RestaurantRepo.GetByID(restaurantID)
	if err != nil || restaurant == nil {
		return "our restaurant"
	}
	return restaurant.Name
}

func (s *DefaultAssistantService) restaurantPhone(ctx context.Context, restaurantID string) string {
	restaurant, err := s.RestaurantRepo.GetByID(restaurantID)
	if err != nil || restaurant == nil {
		return ""
	}
	return restaurant.Phone
}
