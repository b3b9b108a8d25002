// Package services – CoachService
//
// CoachService runs the coach conversation. Replies come from the rule-based
// generator after a short randomized "thinking" delay and take the user's
// manager canvas, focus areas and open milestones into account.
package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/generator"
	"github.com/tbourn/rocketmentor/internal/store"
)

// MaxCoachMessageRunes bounds a single user message.
const MaxCoachMessageRunes = 4000

// CoachService coordinates the coach conversation.
type CoachService struct {
	Workspaces *Workspaces
	DelayMin   time.Duration
	DelayMax   time.Duration
}

// Send appends the user's message, waits, then appends and returns the
// coach's reply. The reply reflects the state at the end of the delay. If
// the user signed out meanwhile the reply is dropped.
func (s *CoachService) Send(ctx context.Context, userID, message string, ref *domain.ChatContext) (domain.ChatMessage, error) {
	tr := otel.Tracer("services/CoachService")
	ctx, span := tr.Start(ctx, "Send", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if strings.TrimSpace(message) == "" {
		return domain.ChatMessage{}, ErrEmptyText
	}
	if len([]rune(message)) > MaxCoachMessageRunes {
		return domain.ChatMessage{}, ErrTooLong
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	g := s.Workspaces.Generator()
	epoch := st.Epoch()
	if _, ok := st.DispatchAt(epoch, store.AddChatMessage{Message: domain.ChatMessage{
		ID:        g.NewID(),
		Role:      domain.RoleUser,
		Content:   message,
		Timestamp: g.Now(),
		Context:   ref,
	}}); !ok {
		return domain.ChatMessage{}, ErrSessionEnded
	}

	d := between(s.DelayMin, s.DelayMax)
	span.SetAttributes(attribute.Int64("delay.ms", d.Milliseconds()))
	pause(d)

	reply := domain.ChatMessage{
		ID:        g.NewID(),
		Role:      domain.RoleAssistant,
		Content:   g.CoachReply(message, coachContext(st.State())),
		Timestamp: g.Now(),
	}
	if _, ok := st.DispatchAt(epoch, store.AddChatMessage{Message: reply}); !ok {
		return domain.ChatMessage{}, ErrSessionEnded
	}
	return reply, nil
}

func coachContext(s store.State) generator.CoachContext {
	return generator.CoachContext{
		ManagerCanvas:      s.ManagerCanvas,
		FocusAreas:         s.FocusAreas(),
		UpcomingMilestones: s.UpcomingMilestones(),
	}
}

// History returns the conversation, oldest first.
func (s *CoachService) History(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.State().ChatHistory, nil
}

// Message returns one message of the conversation.
func (s *CoachService) Message(ctx context.Context, userID, messageID string) (domain.ChatMessage, bool, error) {
	h, err := s.History(ctx, userID)
	if err != nil {
		return domain.ChatMessage{}, false, err
	}
	for _, m := range h {
		if m.ID == messageID {
			return m, true, nil
		}
	}
	return domain.ChatMessage{}, false, nil
}

// Clear empties the conversation.
func (s *CoachService) Clear(ctx context.Context, userID string) error {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return err
	}
	st.Dispatch(store.ClearChatHistory{})
	return nil
}
