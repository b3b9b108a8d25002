package generator

import (
	"regexp"
	"strings"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// MaxWinTitleRunes caps titles derived from free text.
const MaxWinTitleRunes = 100

const defaultWinAction = "I took ownership of the deliverable, proactively communicated progress, and ensured alignment with stakeholders."

var sentenceEnd = regexp.MustCompile(`[.!?]`)

// WinDescription renders title and rawText as a Situation/Task/Action/Result
// narrative. rawText fills the Action section; an empty rawText uses a fixed
// sentence instead.
func (g *Generator) WinDescription(title, rawText string) string {
	action := rawText
	if action == "" {
		action = defaultWinAction
	}
	var b strings.Builder
	b.WriteString("**Situation:** During a project requiring ")
	b.WriteString(strings.ToLower(title))
	b.WriteString(".\n\n**Task:** I was responsible for delivering this work on time with high quality.\n\n**Action:** ")
	b.WriteString(action)
	b.WriteString("\n\n**Result:** Successfully delivered the work, received positive feedback, and contributed to project success.")
	return b.String()
}

// WinTitle derives a title from free text: the first sentence, trimmed and
// clipped to MaxWinTitleRunes.
func (g *Generator) WinTitle(rawText string) string {
	first := strings.TrimSpace(sentenceEnd.Split(rawText, 2)[0])
	if r := []rune(first); len(r) > MaxWinTitleRunes {
		return string(r[:MaxWinTitleRunes])
	}
	return first
}

var competencyExamples = map[string]map[domain.FirmType]string{
	domain.CompetencyProblemSolving: {
		domain.FirmStrategy: "Structured a market entry analysis using a decision tree framework, identifying 3 key criteria that helped the team prioritize geographies.",
		domain.FirmBig4:     "Built a process mapping diagram that identified 4 efficiency improvements in the client's order-to-cash cycle.",
		"":                  "Applied a structured approach to break down a complex problem into manageable components.",
	},
	domain.CompetencyClientImpact: {
		domain.FirmStrategy: "Received positive feedback from the client CFO after presenting analysis findings that directly influenced their investment decision.",
		domain.FirmBig4:     "Built a strong working relationship with the client project lead, becoming their first point of contact for analysis questions.",
		"":                  "Delivered work that the client specifically mentioned as valuable in a steering meeting.",
	},
	domain.CompetencyOwnership: {
		domain.FirmStrategy: "Took ownership of the entire competitive analysis workstream, coordinating with 2 analysts and delivering ahead of schedule.",
		domain.FirmBig4:     "Proactively identified a data quality issue and fixed it before it impacted the project timeline.",
		"":                  "Took initiative on a project deliverable without being asked and delivered it successfully.",
	},
	domain.CompetencyTeaming: {
		domain.FirmStrategy: "Helped onboard a new analyst by creating a knowledge transfer document and pairing on the first analysis.",
		domain.FirmBig4:     "Stepped in to support a colleague who was overloaded, helping them meet their deadline.",
		"":                  "Supported teammates and contributed to a positive team dynamic.",
	},
	domain.CompetencyCommunication: {
		domain.FirmStrategy: `Restructured a 40-slide deck into a 15-slide executive summary with a clear "so what" on each page.`,
		domain.FirmBig4:     "Created a one-page summary that the partner used directly in the client steering meeting.",
		"":                  "Delivered a clear presentation that effectively communicated complex findings.",
	},
	domain.CompetencyCommercial: {
		domain.FirmStrategy: "Identified a potential follow-on engagement during client interviews and flagged it to the engagement manager.",
		domain.FirmBig4:     "Suggested a scope optimization that reduced project cost while maintaining deliverable quality.",
		"":                  "Showed awareness of project economics and opportunities for additional value.",
	},
}

// CompetencyExample suggests an example answer for the onboarding
// self-assessment. The empty firm key holds the per-competency default.
func (g *Generator) CompetencyExample(competencyID string, firm domain.FirmType) string {
	byFirm := competencyExamples[competencyID]
	if ex, ok := byFirm[firm]; ok {
		return ex
	}
	if ex, ok := byFirm[""]; ok {
		return ex
	}
	return "Added value in this area during a recent project."
}

// SampleCards are shown on an empty board. They are never persisted.
func (g *Generator) SampleCards() []domain.KanbanCard {
	now := g.Now()
	return []domain.KanbanCard{
		{
			ID:        "sample-1",
			Title:     "Example task (user-added type): Send final proposal to client on Friday",
			Day:       domain.Friday,
			Type:      domain.CardDeliverable,
			IsSample:  true,
			CreatedAt: now,
		},
		{
			ID:          "sample-2",
			Title:       "Example task (AI assist example): Prepare draft and send to manager on Wednesday",
			Day:         domain.Wednesday,
			Type:        domain.CardDeliverable,
			IsSuggested: true,
			IsSample:    true,
			CreatedAt:   now,
		},
	}
}

// SampleWin is inspiration content for an empty win library.
type SampleWin struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Competencies []string `json:"competencies"`
}

// SampleWins returns the fixed inspiration list.
func (g *Generator) SampleWins() []SampleWin {
	return []SampleWin{
		{
			Title:        "Led cross-functional initiative",
			Description:  "Coordinated 3 teams to deliver Q2 product launch ahead of schedule, resulting in 15% uptick in user engagement.",
			Competencies: []string{"leadership", "communication"},
		},
		{
			Title:        "Optimized key workflow",
			Description:  "Identified bottleneck in approval process and implemented automation, reducing turnaround time from 5 days to 1 day.",
			Competencies: []string{"problem-solving", "technical"},
		},
		{
			Title:        "Mentored junior team member",
			Description:  "Structured weekly 1:1s and pair programming sessions that accelerated new hire's ramp-up by 40%.",
			Competencies: []string{"leadership", "collaboration"},
		},
	}
}

// WinFromCard records a board card as a win.
func (g *Generator) WinFromCard(card domain.KanbanCard, weekID string) domain.Win {
	what := card.Description
	if what == "" {
		what = card.Title
	}
	return domain.Win{
		ID:             g.NewID(),
		Title:          card.Title,
		Description:    "Completed: " + what,
		Project:        card.Project,
		CompetencyTags: []string{},
		Date:           g.Now(),
		WeekID:         weekID,
		SourceType:     domain.WinFromKanban,
		SourceID:       card.ID,
	}
}

// WinFromMove records a completed career move as a win.
func (g *Generator) WinFromMove(m domain.CareerMove, weekID string) domain.Win {
	return domain.Win{
		ID:             g.NewID(),
		Title:          m.Title,
		Description:    m.Description,
		CompetencyTags: append([]string{}, m.LinkedCompetencies...),
		Date:           g.Now(),
		WeekID:         weekID,
		SourceType:     domain.WinFromMove,
		SourceID:       m.ID,
	}
}

// ManualWin builds a win from free text as typed into the win library.
func (g *Generator) ManualWin(rawText, project, metric string, tags []string) domain.Win {
	title := g.WinTitle(rawText)
	if tags == nil {
		tags = []string{}
	}
	return domain.Win{
		ID:             g.NewID(),
		Title:          title,
		Description:    g.WinDescription(title, rawText),
		RawText:        rawText,
		Project:        project,
		CompetencyTags: tags,
		Date:           g.Now(),
		SourceType:     domain.WinManual,
		Metric:         metric,
	}
}

// MilestoneCard turns a milestone into a plain task for today's column.
func (g *Generator) MilestoneCard(m domain.PromotionMilestone, day domain.DayOfWeek) domain.KanbanCard {
	return domain.KanbanCard{
		ID:        g.NewID(),
		Title:     m.Title,
		Day:       day,
		Type:      domain.CardOther,
		CreatedAt: g.Now(),
	}
}
