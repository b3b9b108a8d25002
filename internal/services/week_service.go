// Package services – WeekService
//
// WeekService runs the weekly board: it creates the plan of the current
// week on demand, edits cards, imports free-text dumps, generates sub-task
// suggestions and career moves, and turns completed work into wins.
//
// Import and plan generation wait for a short cosmetic delay that a client
// disconnect does not interrupt. The result is applied to whatever state
// exists when the delay ends; if the user signed out in between it is
// dropped and ErrSessionEnded returned.
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
	"github.com/tbourn/rocketmentor/internal/parser"
	"github.com/tbourn/rocketmentor/internal/store"
)

// MaxDumpRunes bounds the free text accepted by ImportDump.
const MaxDumpRunes = 10000

// WeekService coordinates the weekly board.
type WeekService struct {
	Workspaces *Workspaces
	PlanDelay  time.Duration
	DumpDelay  time.Duration
}

// Board is the weekly board as displayed. When the week has no real cards
// Cards holds the sample cards instead and ShowingSamples is set.
type Board struct {
	Week           domain.WeekPlan     `json:"week"`
	Cards          []domain.KanbanCard `json:"cards"`
	ShowingSamples bool                `json:"showingSamples"`
	Today          domain.DayOfWeek    `json:"today"`
	CompletedCards int                 `json:"completedCards"`
	CommittedMoves int                 `json:"committedMoves"`
}

// CardInput describes a new card. An empty Type is inferred from the title.
type CardInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Day         domain.DayOfWeek `json:"day"`
	DueTime     string           `json:"dueTime"`
	Type        domain.CardType  `json:"type"`
	Project     string           `json:"project"`
	Notes       string           `json:"notes"`
}

// CardPatch is a partial card update; nil fields are kept. Changing Day
// moves the card to another column.
type CardPatch struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Day         *domain.DayOfWeek `json:"day,omitempty"`
	DueTime     *string           `json:"dueTime,omitempty"`
	Type        *domain.CardType  `json:"type,omitempty"`
	Project     *string           `json:"project,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
	Completed   *bool             `json:"completed,omitempty"`
}

func (s *WeekService) gen() *generator.Generator { return s.Workspaces.Generator() }

// ensureWeek returns the plan of the current week, creating an empty one when
// none exists. At most one plan per week start is ever stored.
func (s *WeekService) ensureWeek(st *store.Store) domain.WeekPlan {
	now := s.gen().Now()
	if wp, ok := store.CurrentWeekPlan(st.State(), now); ok {
		return wp
	}
	st.Dispatch(store.AddWeekPlan{Plan: domain.WeekPlan{
		ID:            s.gen().NewID(),
		WeekStartDate: store.WeekStart(now),
		Cards:         []domain.KanbanCard{},
		CareerMoves:   []domain.CareerMove{},
	}})
	wp, _ := store.CurrentWeekPlan(st.State(), now)
	return wp
}

func (s *WeekService) board(wp domain.WeekPlan) Board {
	b := Board{Week: wp, Today: store.TodayColumn(s.gen().Now())}
	b.Cards = store.RealCards(wp)
	if len(b.Cards) == 0 {
		b.Cards = s.gen().SampleCards()
		b.ShowingSamples = true
	}
	for _, c := range b.Cards {
		if c.Completed && !c.IsSample {
			b.CompletedCards++
		}
	}
	for _, m := range wp.CareerMoves {
		if m.Committed {
			b.CommittedMoves++
		}
	}
	return b
}

// Current returns the board of the current week, creating the plan if needed.
func (s *WeekService) Current(ctx context.Context, userID string) (Board, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return Board{}, err
	}
	return s.board(s.ensureWeek(st)), nil
}

// Board returns the board of any stored week.
func (s *WeekService) Board(ctx context.Context, userID, weekID string) (Board, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return Board{}, err
	}
	wp, ok := st.State().Week(weekID)
	if !ok {
		return Board{}, ErrWeekNotFound
	}
	return s.board(wp), nil
}

// Weeks lists every stored plan, oldest first as stored.
func (s *WeekService) Weeks(ctx context.Context, userID string) ([]domain.WeekPlan, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.State().WeekPlans, nil
}

// AddCard validates in and appends it to the week.
func (s *WeekService) AddCard(ctx context.Context, userID, weekID string, in CardInput) (domain.KanbanCard, error) {
	tr := otel.Tracer("services/WeekService")
	ctx, span := tr.Start(ctx, "AddCard", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("week.id", weekID),
	))
	defer span.End()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.KanbanCard{}, ErrEmptyText
	}
	day := in.Day
	if day == "" {
		day = store.TodayColumn(s.gen().Now())
	}
	if !day.Valid() {
		return domain.KanbanCard{}, ErrInvalidDay
	}
	typ := in.Type
	if typ == "" {
		typ = parser.InferCardType(title)
	}
	if !typ.Valid() {
		return domain.KanbanCard{}, ErrInvalidCardType
	}
	due, err := dueTime(in.DueTime)
	if err != nil {
		return domain.KanbanCard{}, err
	}

	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.KanbanCard{}, err
	}
	if _, ok := st.State().Week(weekID); !ok {
		return domain.KanbanCard{}, ErrWeekNotFound
	}
	card := domain.KanbanCard{
		ID:          s.gen().NewID(),
		Title:       title,
		Description: in.Description,
		Day:         day,
		DueTime:     due,
		Type:        typ,
		Project:     strings.TrimSpace(in.Project),
		Notes:       in.Notes,
		CreatedAt:   s.gen().Now(),
	}
	st.Dispatch(store.AddCard{WeekID: weekID, Card: card})
	return card, nil
}

func dueTime(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	hhmm, fe := parser.ValidateTime("dueTime", input)
	if err := invalid(fe); err != nil {
		return "", err
	}
	return hhmm, nil
}

// UpdateCard applies p to one card.
func (s *WeekService) UpdateCard(ctx context.Context, userID, weekID, cardID string, p CardPatch) (domain.KanbanCard, error) {
	tr := otel.Tracer("services/WeekService")
	ctx, span := tr.Start(ctx, "UpdateCard", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("week.id", weekID),
		attribute.String("card.id", cardID),
	))
	defer span.End()

	st, card, err := s.card(ctx, userID, weekID, cardID)
	if err != nil {
		return domain.KanbanCard{}, err
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return domain.KanbanCard{}, ErrEmptyText
		}
		card.Title = t
	}
	if p.Day != nil {
		if !p.Day.Valid() {
			return domain.KanbanCard{}, ErrInvalidDay
		}
		card.Day = *p.Day
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return domain.KanbanCard{}, ErrInvalidCardType
		}
		card.Type = *p.Type
	}
	if p.DueTime != nil {
		due, err := dueTime(*p.DueTime)
		if err != nil {
			return domain.KanbanCard{}, err
		}
		card.DueTime = due
	}
	if p.Description != nil {
		card.Description = *p.Description
	}
	if p.Project != nil {
		card.Project = strings.TrimSpace(*p.Project)
	}
	if p.Notes != nil {
		card.Notes = *p.Notes
	}
	if p.Completed != nil {
		card.Completed = *p.Completed
	}
	st.Dispatch(store.UpdateCard{WeekID: weekID, Card: card})
	return card, nil
}

// DeleteCard removes one card.
func (s *WeekService) DeleteCard(ctx context.Context, userID, weekID, cardID string) error {
	st, _, err := s.card(ctx, userID, weekID, cardID)
	if err != nil {
		return err
	}
	st.Dispatch(store.DeleteCard{WeekID: weekID, CardID: cardID})
	return nil
}

func (s *WeekService) card(ctx context.Context, userID, weekID, cardID string) (*store.Store, domain.KanbanCard, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, domain.KanbanCard{}, err
	}
	wp, ok := st.State().Week(weekID)
	if !ok {
		return nil, domain.KanbanCard{}, ErrWeekNotFound
	}
	card, ok := wp.Card(cardID)
	if !ok {
		return nil, domain.KanbanCard{}, ErrCardNotFound
	}
	return st, card, nil
}

// SubTasks previews the suggestions plan generation would add for one card.
func (s *WeekService) SubTasks(ctx context.Context, userID, weekID, cardID string) ([]domain.KanbanCard, error) {
	_, card, err := s.card(ctx, userID, weekID, cardID)
	if err != nil {
		return nil, err
	}
	g := s.gen()
	return g.ScheduleSubTasks(card, g.SubTasks(card.Title)), nil
}

// ImportDump parses free text into cards of the current week.
func (s *WeekService) ImportDump(ctx context.Context, userID, text string) ([]domain.KanbanCard, error) {
	tr := otel.Tracer("services/WeekService")
	ctx, span := tr.Start(ctx, "ImportDump", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if len([]rune(text)) > MaxDumpRunes {
		return nil, ErrTooLong
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.ensureWeek(st)
	epoch := st.Epoch()

	pause(s.DumpDelay)

	g := s.gen()
	now := g.Now()
	wp := s.ensureWeekAt(st, epoch)
	if wp.ID == "" {
		return nil, ErrSessionEnded
	}
	parsed := parser.ParseWeekDump(text, g.NewID)
	out := make([]domain.KanbanCard, 0, len(parsed))
	for _, c := range parsed {
		if c.Day == "" {
			c.Day = domain.Monday
		}
		if c.Type == "" {
			c.Type = domain.CardOther
		}
		c.CreatedAt = now
		if _, ok := st.DispatchAt(epoch, store.AddCard{WeekID: wp.ID, Card: c}); !ok {
			return nil, ErrSessionEnded
		}
		out = append(out, c)
	}
	span.SetAttributes(attribute.Int("cards.added", len(out)))
	return out, nil
}

// ensureWeekAt is ensureWeek guarded by epoch. It returns a zero plan when
// the session ended.
func (s *WeekService) ensureWeekAt(st *store.Store, epoch uint64) domain.WeekPlan {
	now := s.gen().Now()
	if wp, ok := store.CurrentWeekPlan(st.State(), now); ok {
		if st.Epoch() != epoch {
			return domain.WeekPlan{}
		}
		return wp
	}
	_, ok := st.DispatchAt(epoch, store.AddWeekPlan{Plan: domain.WeekPlan{
		ID:            s.gen().NewID(),
		WeekStartDate: store.WeekStart(now),
		Cards:         []domain.KanbanCard{},
		CareerMoves:   []domain.CareerMove{},
	}})
	if !ok {
		return domain.WeekPlan{}
	}
	wp, _ := store.CurrentWeekPlan(st.State(), now)
	return wp
}

// GeneratePlan adds sub-task suggestions for every non-suggested card of the
// current week and replaces its career moves. A suggestion already on the
// board for the same parent card is skipped, so running it twice adds
// nothing new.
func (s *WeekService) GeneratePlan(ctx context.Context, userID string) (domain.WeekPlan, error) {
	tr := otel.Tracer("services/WeekService")
	ctx, span := tr.Start(ctx, "GeneratePlan", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.WeekPlan{}, err
	}
	if len(store.RealCards(s.ensureWeek(st))) == 0 {
		return domain.WeekPlan{}, ErrNoTasks
	}
	epoch := st.Epoch()

	pause(s.PlanDelay)

	wp := s.ensureWeekAt(st, epoch)
	if wp.ID == "" {
		return domain.WeekPlan{}, ErrSessionEnded
	}
	cur := st.State()
	g := s.gen()
	moves := g.CareerMoves(store.RealCards(wp), cur.ManagerCanvas, cur.FocusAreas())

	seen := make(map[string]bool, len(wp.Cards))
	for _, c := range wp.Cards {
		if c.IsSuggested {
			seen[suggestionKey(c.ParentID, c.Title)] = true
		}
	}
	added := 0
	for _, c := range wp.Cards {
		if c.IsSuggested || c.IsSample {
			continue
		}
		for _, t := range g.ScheduleSubTasks(c, g.SubTasks(c.Title)) {
			key := suggestionKey(c.ID, t.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			if _, ok := st.DispatchAt(epoch, store.AddCard{WeekID: wp.ID, Card: t}); !ok {
				return domain.WeekPlan{}, ErrSessionEnded
			}
			added++
		}
	}

	latest, ok := st.State().Week(wp.ID)
	if !ok {
		return domain.WeekPlan{}, ErrWeekNotFound
	}
	latest.CareerMoves = moves
	next, ok := st.DispatchAt(epoch, store.UpdateWeekPlan{Plan: latest})
	if !ok {
		return domain.WeekPlan{}, ErrSessionEnded
	}
	span.SetAttributes(attribute.Int("cards.suggested", added))
	out, _ := next.Week(wp.ID)
	return out, nil
}

func suggestionKey(parentID, title string) string {
	return parentID + "\x00" + strings.ToLower(title)
}

func (s *WeekService) move(ctx context.Context, userID, weekID, moveID string) (*store.Store, domain.WeekPlan, domain.CareerMove, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, domain.WeekPlan{}, domain.CareerMove{}, err
	}
	wp, ok := st.State().Week(weekID)
	if !ok {
		return nil, domain.WeekPlan{}, domain.CareerMove{}, ErrWeekNotFound
	}
	m, ok := wp.Move(moveID)
	if !ok {
		return nil, domain.WeekPlan{}, domain.CareerMove{}, ErrMoveNotFound
	}
	return st, wp, m, nil
}

// CommitMove marks a career move as committed.
func (s *WeekService) CommitMove(ctx context.Context, userID, weekID, moveID string) (domain.CareerMove, error) {
	st, _, m, err := s.move(ctx, userID, weekID, moveID)
	if err != nil {
		return domain.CareerMove{}, err
	}
	m.Committed = true
	st.Dispatch(store.UpdateCareerMove{WeekID: weekID, Move: m})
	return m, nil
}

// CompleteMove marks a career move as completed, which also commits it, and
// records it as a win. Completing an already completed move records nothing.
func (s *WeekService) CompleteMove(ctx context.Context, userID, weekID, moveID string) (domain.CareerMove, *domain.Win, error) {
	tr := otel.Tracer("services/WeekService")
	ctx, span := tr.Start(ctx, "CompleteMove", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("move.id", moveID),
	))
	defer span.End()

	st, _, m, err := s.move(ctx, userID, weekID, moveID)
	if err != nil {
		return domain.CareerMove{}, nil, err
	}
	if m.Completed {
		return m, nil, nil
	}
	m.Completed = true
	m.Committed = true
	st.Dispatch(store.UpdateCareerMove{WeekID: weekID, Move: m})

	w := s.gen().WinFromMove(m, weekID)
	st.Dispatch(store.AddWin{Win: w})
	return m, &w, nil
}

// RegenerateMove replaces a move with a fresh one of the same category.
func (s *WeekService) RegenerateMove(ctx context.Context, userID, weekID, moveID string) (domain.CareerMove, error) {
	st, wp, m, err := s.move(ctx, userID, weekID, moveID)
	if err != nil {
		return domain.CareerMove{}, err
	}
	fresh, ok := s.gen().MoveFor(m.Category, store.RealCards(wp), st.State().FocusAreas())
	if !ok {
		return domain.CareerMove{}, ErrMoveNotFound
	}
	moves := make([]domain.CareerMove, len(wp.CareerMoves))
	for i, x := range wp.CareerMoves {
		if x.ID == moveID {
			x = fresh
		}
		moves[i] = x
	}
	wp.CareerMoves = moves
	st.Dispatch(store.UpdateWeekPlan{Plan: wp})
	return fresh, nil
}

// MarkCardWin records a card as a win and marks it completed.
func (s *WeekService) MarkCardWin(ctx context.Context, userID, weekID, cardID string) (domain.KanbanCard, *domain.Win, error) {
	st, card, err := s.card(ctx, userID, weekID, cardID)
	if err != nil {
		return domain.KanbanCard{}, nil, err
	}
	if card.IsWin {
		return card, nil, nil
	}
	w := s.gen().WinFromCard(card, weekID)
	st.Dispatch(store.AddWin{Win: w})

	card.IsWin = true
	card.Completed = true
	st.Dispatch(store.UpdateCard{WeekID: weekID, Card: card})
	return card, &w, nil
}

// ReviewWeek marks the current week as reviewed.
func (s *WeekService) ReviewWeek(ctx context.Context, userID, notes string) (domain.WeekPlan, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.WeekPlan{}, err
	}
	wp := s.ensureWeek(st)
	wp.Reviewed = true
	wp.ReviewNotes = strings.TrimSpace(notes)
	next := st.Dispatch(store.UpdateWeekPlan{Plan: wp})
	out, _ := next.Week(wp.ID)
	return out, nil
}

// ToggleMilestone flips one milestone of the promotion path.
func (s *WeekService) ToggleMilestone(ctx context.Context, userID, milestoneID string) (domain.PromotionMilestone, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.PromotionMilestone{}, err
	}
	return toggleMilestone(st, st.Epoch(), milestoneID)
}

func toggleMilestone(st *store.Store, epoch uint64, milestoneID string) (domain.PromotionMilestone, error) {
	if st.Epoch() != epoch {
		return domain.PromotionMilestone{}, ErrSessionEnded
	}
	if st.State().PromotionPath == nil {
		return domain.PromotionMilestone{}, ErrNoPromotionPath
	}
	next, ok := st.DispatchAt(epoch, store.ToggleMilestone{MilestoneID: milestoneID})
	if !ok || next.PromotionPath == nil {
		return domain.PromotionMilestone{}, ErrSessionEnded
	}
	for _, m := range next.PromotionPath.Milestones {
		if m.ID == milestoneID {
			return m, nil
		}
	}
	return domain.PromotionMilestone{}, ErrMilestoneNotFound
}

// AddMilestoneTask puts a milestone on today's column of the current week.
func (s *WeekService) AddMilestoneTask(ctx context.Context, userID, milestoneID string) (domain.KanbanCard, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.KanbanCard{}, err
	}
	epoch := st.Epoch()
	path := st.State().PromotionPath
	if path == nil {
		return domain.KanbanCard{}, ErrNoPromotionPath
	}
	var ms *domain.PromotionMilestone
	for i := range path.Milestones {
		if path.Milestones[i].ID == milestoneID {
			ms = &path.Milestones[i]
			break
		}
	}
	if ms == nil {
		return domain.KanbanCard{}, ErrMilestoneNotFound
	}
	g := s.gen()
	wp := s.ensureWeek(st)
	card := g.MilestoneCard(*ms, store.TodayColumn(g.Now()))
	if _, ok := st.DispatchAt(epoch, store.AddCard{WeekID: wp.ID, Card: card}); !ok {
		return domain.KanbanCard{}, ErrSessionEnded
	}
	return card, nil
}

// Path returns the promotion path.
func (s *WeekService) Path(ctx context.Context, userID string) (domain.PromotionPath, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.PromotionPath{}, err
	}
	p := st.State().PromotionPath
	if p == nil {
		return domain.PromotionPath{}, ErrNoPromotionPath
	}
	return *p, nil
}
