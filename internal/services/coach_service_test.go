package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/generator"
)

func TestCoachSend_AppendsPair(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := e.signup(t, "ada@example.com").User.ID

	if _, err := e.coach.Send(ctx, uid, "  ", nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}
	reply, err := e.coach.Send(ctx, uid, "I have too many tasks", &domain.ChatContext{WeekPlanID: "w1"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != domain.RoleAssistant || reply.Content != e.gen.CoachReply("I have too many tasks", generator.CoachContext{}) {
		t.Fatalf("reply = %+v", reply)
	}
	h, _ := e.coach.History(ctx, uid)
	if len(h) != 2 || h[0].Role != domain.RoleUser || h[0].Context == nil || h[0].Context.WeekPlanID != "w1" || h[1].ID != reply.ID {
		t.Fatalf("history = %+v", h)
	}
	if m, ok, _ := e.coach.Message(ctx, uid, reply.ID); !ok || m.Content != reply.Content {
		t.Fatalf("message lookup failed")
	}

	if err := e.coach.Clear(ctx, uid); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if h, _ := e.coach.History(ctx, uid); len(h) != 0 {
		t.Fatalf("history after clear = %d", len(h))
	}
}

func TestCoachSend_UsesFocusAreas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := e.signup(t, "ada@example.com").User.ID
	e.onboard(t, uid)
	path, _ := e.weeks.Path(ctx, uid)

	reply, err := e.coach.Send(ctx, uid, "hello there", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Content, path.FocusAreas[0].Title) {
		t.Fatalf("reply ignores focus area %q:\n%s", path.FocusAreas[0].Title, reply.Content)
	}
}

func TestCoachSend_OutlivesRequestContext(t *testing.T) {
	e := newEnv(t)
	uid := e.signup(t, "ada@example.com").User.ID
	e.coach.DelayMin, e.coach.DelayMax = 60*time.Millisecond, 80*time.Millisecond
	if _, err := e.ws.Open(context.Background(), uid); err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	reply, err := e.coach.Send(ctx, uid, "hi", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if ctx.Err() == nil {
		t.Fatalf("deadline should have passed during the delay")
	}
	h, _ := e.coach.History(context.Background(), uid)
	if len(h) != 2 || h[0].Role != domain.RoleUser || h[1].Role != domain.RoleAssistant || h[1].ID != reply.ID {
		t.Fatalf("history = %+v", h)
	}
}

func TestBetween(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := between(time.Second, 2*time.Second)
		if d < time.Second || d > 2*time.Second {
			t.Fatalf("between out of range: %v", d)
		}
	}
	if between(time.Second, 0) != time.Second {
		t.Fatalf("inverted range should return lo")
	}
}
