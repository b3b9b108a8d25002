package generator

import (
	"strings"

	"github.com/tbourn/rocketmentor/internal/domain"
)

type subTaskRule struct {
	keywords []string
	tasks    []domain.KanbanCard
}

func suggested(title string, typ domain.CardType) domain.KanbanCard {
	return domain.KanbanCard{Title: title, Type: typ, IsSuggested: true}
}

// First matching rule wins.
var subTaskRules = []subTaskRule{
	{
		keywords: []string{"proposal", "deck", "presentation"},
		tasks: []domain.KanbanCard{
			suggested("Create first draft outline", domain.CardDeliverable),
			suggested("Send draft to manager for early feedback", domain.CardInternal),
			suggested("Incorporate feedback and polish", domain.CardDeliverable),
		},
	},
	{
		keywords: []string{"meeting", "call", "sync"},
		tasks: []domain.KanbanCard{
			suggested("Prepare meeting agenda/talking points", domain.CardInternal),
			suggested("Send pre-read to attendees", domain.CardInternal),
		},
	},
	{
		keywords: []string{"analysis", "model"},
		tasks: []domain.KanbanCard{
			suggested("Define analysis approach and key questions", domain.CardAnalysis),
			suggested("Build draft analysis", domain.CardAnalysis),
			suggested("Validate findings with manager", domain.CardInternal),
		},
	},
}

// SubTasks suggests follow-up steps for a task title. The result holds only
// title, type and the suggested flag; it is empty when no keyword matches.
func (g *Generator) SubTasks(title string) []domain.KanbanCard {
	lower := strings.ToLower(title)
	for _, r := range subTaskRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				out := make([]domain.KanbanCard, len(r.tasks))
				copy(out, r.tasks)
				return out
			}
		}
	}
	return []domain.KanbanCard{}
}

// ScheduleSubTasks turns suggestions for card into full board cards. The
// i-th suggestion lands floor(i/2)+1 weekdays before the parent, clamped to
// monday, and inherits the parent's project and id as ParentID.
func (g *Generator) ScheduleSubTasks(card domain.KanbanCard, tasks []domain.KanbanCard) []domain.KanbanCard {
	parent := card.Day.Index()
	now := g.Now()

	out := make([]domain.KanbanCard, 0, len(tasks))
	for i, t := range tasks {
		day := card.Day
		if parent >= 0 {
			day = domain.Weekdays[max(0, parent-i/2-1)]
		}
		typ := t.Type
		if typ == "" {
			typ = domain.CardOther
		}
		out = append(out, domain.KanbanCard{
			ID:          g.NewID(),
			Title:       t.Title,
			Day:         day,
			Type:        typ,
			Project:     card.Project,
			IsSuggested: true,
			ParentID:    card.ID,
			CreatedAt:   now,
		})
	}
	return out
}

// CareerMoves returns exactly one impact, one relationship and one craft
// move, in that order, none committed. The impact move anchors on the first
// deliverable or client/presentation card; the craft move on the first focus
// area. No rule reads canvas yet; it may be nil.
func (g *Generator) CareerMoves(cards []domain.KanbanCard, canvas *domain.ManagerCanvas, focusAreas []domain.FocusArea) []domain.CareerMove {
	return []domain.CareerMove{
		g.ImpactMove(cards),
		g.RelationshipMove(),
		g.CraftMove(focusAreas),
	}
}

// ImpactMove builds the impact-category move.
func (g *Generator) ImpactMove(cards []domain.KanbanCard) domain.CareerMove {
	m := domain.CareerMove{
		ID:                 g.NewID(),
		Title:              "Find one deliverable to own completely this week",
		Description:        "Look for an opportunity to take full ownership of a piece of work. Proactively update stakeholders on progress.",
		Category:           domain.MoveImpact,
		LinkedCompetencies: []string{domain.CompetencyOwnership, domain.CompetencyClientImpact},
		LinkedCardIDs:      []string{},
	}
	for _, c := range cards {
		lower := strings.ToLower(c.Title)
		if c.Type == domain.CardDeliverable || strings.Contains(lower, "client") || strings.Contains(lower, "presentation") {
			m.Title = `Own the "` + c.Title + `" deliverable end-to-end`
			m.Description = "Take full ownership of this deliverable. Send proactive updates to your manager before they ask. This demonstrates reliability and makes your impact visible."
			m.LinkedCardIDs = []string{c.ID}
			break
		}
	}
	return m
}

// RelationshipMove builds the relationship-category move. Its text is fixed.
func (g *Generator) RelationshipMove() domain.CareerMove {
	return domain.CareerMove{
		ID:                 g.NewID(),
		Title:              "Have a 10-minute check-in with your manager",
		Description:        "Ask about priorities for the week and what would make their life easier. This builds trust and ensures you're focused on what matters most to them.",
		Category:           domain.MoveRelationship,
		LinkedCompetencies: []string{domain.CompetencyClientImpact, domain.CompetencyTeaming},
		LinkedCardIDs:      []string{},
	}
}

// CraftMove builds the craft-category move.
func (g *Generator) CraftMove(focusAreas []domain.FocusArea) domain.CareerMove {
	m := domain.CareerMove{
		ID:                 g.NewID(),
		Title:              `Improve one deliverable beyond "good enough"`,
		Description:        "Take one piece of work this week and invest extra effort to make it excellent. This builds your craft and creates visible proof of quality.",
		Category:           domain.MoveCraft,
		LinkedCompetencies: []string{domain.CompetencyCommunication},
		LinkedCardIDs:      []string{},
	}
	if len(focusAreas) > 0 {
		f := focusAreas[0]
		m.Title = "Practice: " + f.Title
		m.Description = f.Description
		if len(f.LinkedCompetencies) > 0 {
			m.LinkedCompetencies = append([]string(nil), f.LinkedCompetencies...)
		}
	}
	return m
}

// MoveFor regenerates a single move of the given category.
func (g *Generator) MoveFor(cat domain.MoveCategory, cards []domain.KanbanCard, focusAreas []domain.FocusArea) (domain.CareerMove, bool) {
	switch cat {
	case domain.MoveImpact:
		return g.ImpactMove(cards), true
	case domain.MoveRelationship:
		return g.RelationshipMove(), true
	case domain.MoveCraft:
		return g.CraftMove(focusAreas), true
	}
	return domain.CareerMove{}, false
}
