// File: services/assistant/statemachine.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appointmint/models"
	"appointmint/services/booking"

	"go.uber.org/zap"
)

// TurnReply is the state machine's decision for one turn.
type TurnReply struct {
	Text        string
	Buttons     []models.Button
	ButtonType  string
	Reservation *models.Reservation
	// Terminal marks outcomes after which conversation state is cleared.
	Terminal bool
}

// advance merges newly extracted fields into the booking record and drives
// the dialogue one step. It mutates st in place; the caller persists or
// clears state afterwards.
func (s *DefaultAssistantService) advance(ctx context.Context, st *models.ConversationState, fields models.ExtractedFields, text string) (*TurnReply, error) {
	st.Record.Merge(fields)

	// Confirmation-style states interpret the raw text directly.
	switch st.State {
	case models.StateAwaitingFinalConfirm:
		return s.handleFinalConfirmation(ctx, st, text)
	case models.StateAwaitingIdentityConfirm:
		return s.handleIdentityConfirm(st, text)
	case models.StateAwaitingSpecialRequests:
		return s.handleSpecialRequests(st, text)
	case models.StateHandover:
		return s.handleHandover(ctx, st, text)
	}

	// Party above the self-service threshold absorbs the conversation into
	// staff handover no matter what else is known.
	if st.Record.PartySize > s.MaxSelfServeParty {
		return s.enterHandover(ctx, st)
	}

	now := time.Now().In(st.Location())

	// Prompt for the single next missing field: date, then time, then guests.
	if st.Record.Date == "" {
		st.State = models.StateAwaitingDate
		st.LastQuestion = "date"
		greeting := ""
		if fields.IsQuestion && !fields.HasBookingIntent {
			greeting = "Happy to help with any questions! In the meantime, shall we get a table booked?\n\n"
		}
		return &TurnReply{
			Text:       greeting + "What date would you like to book?",
			Buttons:    dateButtons(now),
			ButtonType: "date",
		}, nil
	}
	if st.Record.Time == "" {
		st.State = models.StateAwaitingTime
		st.LastQuestion = "time"
		return &TurnReply{
			Text:       "What time would you like to dine?",
			Buttons:    timeButtons(),
			ButtonType: "time",
		}, nil
	}
	if st.Record.PartySize == 0 {
		st.State = models.StateAwaitingGuests
		st.LastQuestion = "guests"
		return &TurnReply{
			Text:       "How many guests will be dining?",
			Buttons:    guestButtons(),
			ButtonType: "guests",
		}, nil
	}

	// Record complete. Check the floor before collecting identity so a full
	// house surfaces immediately rather than after the guest's details.
	if reply, unavailable := s.checkAvailability(ctx, st); unavailable {
		return reply, nil
	}

	return s.collectIdentity(st)
}

// checkAvailability runs the resolver once the three core slots are filled.
// On an unavailable result the time slot is re-asked; the record keeps its
// other fields.
func (s *DefaultAssistantService) checkAvailability(ctx context.Context, st *models.ConversationState) (*TurnReply, bool) {
	avail, err := s.BookingSvc.FindTable(ctx, st.RestaurantID, st.Record.Date, st.Record.Time, st.Record.PartySize)
	if err != nil {
		s.Logger.Error("availability check failed",
			zap.String("restaurant_id", st.RestaurantID), zap.Error(err))
		// Degrade to collecting identity; commit re-resolves anyway.
		return nil, false
	}
	if avail.Available {
		return nil, false
	}

	st.State = models.StateAwaitingTime
	st.LastQuestion = "time"
	var msg string
	switch avail.Reason {
	case models.ReasonNoTables:
		msg = "I'm sorry, we don't have a floor plan set up for online booking yet. Please contact the restaurant directly."
	case models.ReasonPartyTooLarge:
		msg = fmt.Sprintf("I'm sorry, our largest table seats fewer than %d guests. Would you like to book for a smaller group, or shall I pass your request to our staff?", st.Record.PartySize)
	default:
		msg = fmt.Sprintf("I'm sorry, we're fully booked on %s at %s. Would you like to try a different time?",
			FormatDateDisplay(st.Record.Date), FormatTime12h(st.Record.Time))
	}
	return &TurnReply{Text: msg, Buttons: timeButtons(), ButtonType: "time"}, true
}

// collectIdentity settles name and phone, preferring transport-provided
// identity when it is trustworthy.
func (s *DefaultAssistantService) collectIdentity(st *models.ConversationState) (*TurnReply, error) {
	rec := &st.Record

	// A transport "name" that is really a phone number is never accepted.
	if rec.CustomerName != "" && LooksLikePhone(rec.CustomerName) {
		if rec.CustomerPhone == "" {
			rec.CustomerPhone = rec.CustomerName
		}
		rec.CustomerName = ""
	}

	if rec.CustomerName != "" && rec.CustomerPhone != "" {
		return s.askSpecialRequests(st)
	}

	senderName := st.SenderName
	if LooksLikePhone(senderName) {
		senderName = ""
	}
	if rec.CustomerName == "" && rec.CustomerPhone == "" && senderName != "" && st.SenderPhone != "" {
		st.State = models.StateAwaitingIdentityConfirm
		st.LastQuestion = ""
		return &TurnReply{
			Text: fmt.Sprintf("%sShall I book under %s, phone %s?%s",
				ConfirmationStart+"\n", senderName, st.SenderPhone, "\n"+ConfirmationEnd),
			Buttons:    confirmButtons(),
			ButtonType: "confirm",
		}, nil
	}

	if rec.CustomerName == "" {
		st.State = models.StateAwaitingName
		st.LastQuestion = "name"
		return &TurnReply{Text: "May I have your name for the reservation?"}, nil
	}

	st.State = models.StateAwaitingPhone
	st.LastQuestion = "phone"
	return &TurnReply{Text: "And what's the best phone number to reach you?"}, nil
}

func (s *DefaultAssistantService) handleIdentityConfirm(st *models.ConversationState, text string) (*TurnReply, error) {
	if isAffirmative(text) {
		st.Record.CustomerName = st.SenderName
		st.Record.CustomerPhone = st.SenderPhone
		return s.askSpecialRequests(st)
	}
	if isNegative(text) {
		st.State = models.StateAwaitingName
		st.LastQuestion = "name"
		return &TurnReply{Text: "No problem. May I have your name for the reservation?"}, nil
	}
	// Anything else might be a corrected name.
	if !LooksLikePhone(text) && len(strings.TrimSpace(text)) > 1 {
		st.Record.CustomerName = strings.TrimSpace(text)
		st.State = models.StateAwaitingPhone
		st.LastQuestion = "phone"
		return &TurnReply{Text: "Thanks! And what's the best phone number to reach you?"}, nil
	}
	return &TurnReply{
		Text: fmt.Sprintf("Shall I book under %s, phone %s? Please confirm or cancel.",
			st.SenderName, st.SenderPhone),
		Buttons:    confirmButtons(),
		ButtonType: "confirm",
	}, nil
}

func (s *DefaultAssistantService) askSpecialRequests(st *models.ConversationState) (*TurnReply, error) {
	st.State = models.StateAwaitingSpecialRequests
	st.LastQuestion = ""
	return &TurnReply{
		Text:       "Any special requests for your visit?",
		Buttons:    specialRequestButtons(),
		ButtonType: "special_requests",
	}, nil
}

func (s *DefaultAssistantService) handleSpecialRequests(st *models.ConversationState, text string) (*TurnReply, error) {
	trimmed := strings.TrimSpace(text)
	if mapped, ok := specialRequestVocab[strings.ToLower(trimmed)]; ok {
		st.Record.SpecialRequests = mapped
	} else {
		st.Record.SpecialRequests = trimmed
	}
	st.State = models.StateAwaitingFinalConfirm
	st.LastQuestion = ""
	return &TurnReply{
		Text:       confirmationSummary(&st.Record),
		Buttons:    confirmButtons(),
		ButtonType: "confirm",
	}, nil
}

func (s *DefaultAssistantService) handleFinalConfirmation(ctx context.Context, st *models.ConversationState, text string) (*TurnReply, error) {
	switch {
	case isAffirmative(text):
		res, err := s.BookingSvc.Commit(ctx, st.RestaurantID, &st.Record, nil, st.Source())
		if err != nil {
			s.Logger.Error("reservation commit failed",
				zap.String("restaurant_id", st.RestaurantID),
				zap.String("conversation_id", st.ConversationID),
				zap.Error(err))
			msg := "I'm sorry, I couldn't complete your booking just now. Please try confirming again in a moment."
			var unavailErr *booking.UnavailableError
			if errors.As(err, &unavailErr) {
				msg = unavailErr.Message
			}
			// Stay in final confirmation so the guest can retry.
			return &TurnReply{Text: msg, Buttons: confirmButtons(), ButtonType: "confirm"}, nil
		}
		st.State = models.StateCompleted
		return &TurnReply{
			Text:        confirmedMessage(res, s.restaurantName(ctx, st.RestaurantID)),
			Reservation: res,
			Terminal:    true,
		}, nil

	case isNegative(text):
		st.Record.Reset()
		st.State = models.StateInitial
		st.LastQuestion = ""
		return &TurnReply{Text: "No problem, I've cancelled that request. Just let me know whenever you'd like to book a table."}, nil

	default:
		// Never guess: re-show the summary.
		return &TurnReply{
			Text:       confirmationSummary(&st.Record),
			Buttons:    confirmButtons(),
			ButtonType: "confirm",
		}, nil
	}
}

// enterHandover switches to the staff-handled path for large parties.
func (s *DefaultAssistantService) enterHandover(ctx context.Context, st *models.ConversationState) (*TurnReply, error) {
	st.Record.HandoverFlag = true
	st.Record.HandoverReason = fmt.Sprintf("party of %d exceeds self-service limit of %d",
		st.Record.PartySize, s.MaxSelfServeParty)
	st.State = models.StateHandover

	if st.Record.CustomerName == "" && st.SenderName != "" && !LooksLikePhone(st.SenderName) {
		st.Record.CustomerName = st.SenderName
	}
	if st.Record.CustomerPhone == "" && st.SenderPhone != "" {
		st.Record.CustomerPhone = st.SenderPhone
	}

	if st.Record.CustomerPhone == "" {
		st.LastQuestion = "phone"
		return &TurnReply{
			Text: fmt.Sprintf("For a party of %d our staff will arrange things personally. What's the best phone number to reach you?",
				st.Record.PartySize),
		}, nil
	}
	return s.finishHandover(ctx, st)
}

// handleHandover collects the remaining contact info, then hands off.
func (s *DefaultAssistantService) handleHandover(ctx context.Context, st *models.ConversationState, text string) (*TurnReply, error) {
	switch st.LastQuestion {
	case "phone":
		if LooksLikePhone(text) {
			st.Record.CustomerPhone = strings.TrimSpace(text)
		} else {
			return &TurnReply{Text: "I didn't catch a phone number there. What's the best number to reach you?"}, nil
		}
	case "name":
		if !LooksLikePhone(text) && strings.TrimSpace(text) != "" {
			st.Record.CustomerName = strings.TrimSpace(text)
		}
	}

	if st.Record.CustomerName == "" {
		st.LastQuestion = "name"
		return &TurnReply{Text: "And may I have your name so our staff know who to ask for?"}, nil
	}
	return s.finishHandover(ctx, st)
}

// finishHandover records the pending staff reservation, alerts staff, and
// terminates the automated flow.
func (s *DefaultAssistantService) finishHandover(ctx context.Context, st *models.ConversationState) (*TurnReply, error) {
	res, err := s.BookingSvc.RecordLargeParty(ctx, st.RestaurantID, &st.Record, st.Source())
	if err != nil {
		s.Logger.Error("large party handover failed",
			zap.String("restaurant_id", st.RestaurantID), zap.Error(err))
		return &TurnReply{Text: "I'm sorry, I couldn't pass your request along just now. Please try again in a moment."}, nil
	}

	if s.Notifier != nil {
		if nerr := s.Notifier.NotifyHandover(ctx, st.RestaurantID, res); nerr != nil {
			s.Logger.Warn("staff handover alert failed", zap.Error(nerr))
		}
	}

	return &TurnReply{
		Text:        handoverMessage(&st.Record, s.restaurantPhone(ctx, st.RestaurantID)),
		Reservation: res,
		Terminal:    true,
	}, nil
}
