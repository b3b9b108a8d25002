package generator

import (
	"strings"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// CoachContext is what the coach may use to personalise a reply. Every field
// is optional.
type CoachContext struct {
	ManagerCanvas      *domain.ManagerCanvas
	FocusAreas         []domain.FocusArea
	UpcomingMilestones []domain.PromotionMilestone
}

func (c CoachContext) firstFocus() (domain.FocusArea, bool) {
	if len(c.FocusAreas) == 0 {
		return domain.FocusArea{}, false
	}
	return c.FocusAreas[0], true
}

func (c CoachContext) hasUpcoming(id string) bool {
	for _, m := range c.UpcomingMilestones {
		if m.ID == id {
			return true
		}
	}
	return false
}

// CoachRule pairs a predicate over the lower-cased message with the template
// it selects.
type CoachRule struct {
	Name   string
	Match  func(lower string) bool
	Render func(ctx CoachContext) string
}

func has(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CoachRules is evaluated in order; the first match wins.
var CoachRules = []CoachRule{
	{
		Name:   "pushback",
		Match:  func(l string) bool { return has(l, "deadline") && has(l, "unrealistic") },
		Render: renderPushback,
	},
	{
		Name:   "prioritize",
		Match:  func(l string) bool { return has(l, "prioritize", "too many tasks") },
		Render: renderPrioritize,
	},
	{
		Name:   "promotion",
		Match:  func(l string) bool { return has(l, "promotion") && has(l, "tell", "say", "conversation") },
		Render: renderPromotion,
	},
	{
		Name:   "update",
		Match:  func(l string) bool { return has(l, "update", "email", "draft") },
		Render: func(CoachContext) string { return updateTemplate },
	},
}

// CoachReply answers message with the first matching template, or the
// generic fallback.
func (g *Generator) CoachReply(message string, ctx CoachContext) string {
	_, reply := MatchCoach(message, ctx)
	return reply
}

// MatchCoach is CoachReply plus the name of the rule that fired ("fallback"
// when none did).
func MatchCoach(message string, ctx CoachContext) (string, string) {
	lower := strings.ToLower(message)
	for _, r := range CoachRules {
		if r.Match(lower) {
			return r.Name, r.Render(ctx)
		}
	}
	return "fallback", renderFallback(ctx)
}

func renderPushback(ctx CoachContext) string {
	var note string
	if ctx.ManagerCanvas != nil && ctx.ManagerCanvas.Style == StyleExecution {
		note = "\n*Given your manager's execution focus, lead with the options and be crisp about trade-offs.*"
	}
	return pushbackTemplate + note
}

func renderPrioritize(ctx CoachContext) string {
	line := "- Tasks that create visible wins"
	if f, ok := ctx.firstFocus(); ok {
		line = `- Your focus area: "` + f.Title + `" - pick tasks that let you demonstrate this`
	}
	return prioritizeHead + line + prioritizeTail
}

func renderPromotion(ctx CoachContext) string {
	var note string
	if ctx.hasUpcoming(domain.MilestoneManagerConversation) {
		note = "\n*This aligns with your upcoming milestone: \"Align with your manager on promotion goal\" - this conversation is exactly what you need.*"
	}
	return promotionHead + note + promotionTail
}

func renderFallback(ctx CoachContext) string {
	var note string
	if f, ok := ctx.firstFocus(); ok {
		note = "\n*Based on your focus area \"" + f.Title + "\", I'd especially focus on opportunities that let you demonstrate this.*"
	}
	return fallbackHead + note + fallbackTail
}

// Template bodies. Trailing double spaces are markdown line breaks and are
// part of the text.
const pushbackTemplate = `Here's how to approach this conversation:

**Frame it as problem-solving, not complaining:**

"I want to make sure we deliver quality work. I've mapped out what's needed, and I see a risk with [specific timeline]. Can I walk you through my thinking?"

**Come with options:**
- "We could de-scope X to hit the date"
- "We could bring in Y for specific task"` + "  " + `
- "We could deliver a draft by [date] and polish by [later date]"

**Key behaviors:**
- Be specific about what's at risk
- Never say "I can't" - say "here's what's possible"
- Show you've already tried to solve it

`

const prioritizeHead = `For prioritization, use this framework:

**Manager-visibility matrix:**
1. **Do first:** Work your manager will see or ask about
2. **Do second:** Work that affects client relationships` + "  " + `
3. **Do third:** Work that builds your competencies
4. **Delegate/defer:** Everything else

**This week, focus on:**
`

const prioritizeTail = `

**Pro tip:** Send your manager a quick note: "Given competing priorities, I'm planning to focus on X and Y today. Does that align with what you need?" This shows ownership AND ensures you're not working on the wrong things.`

const promotionHead = `Here's how to frame the promotion conversation:

**Opening:**
"I'd like to talk about my development path. I'm committed to growing here and I want to make sure I'm focused on the right things."

**Core message:**
"My goal is to be ready for [next level] by [timeframe]. I'd love your perspective on:
- What does 'ready' look like from your view?
- What evidence will matter most?
- Are there any gaps I should be addressing now?"

**Close:**
"What's the best way to check in on this periodically?"

`

const promotionTail = `

**What NOT to say:**
- Don't make it sound transactional
- Don't compare yourself to peers
- Don't ask "when will I be promoted?" - ask "what do I need to demonstrate?"`

const updateTemplate = `Here's a template for a strong weekly update:

---

**Subject:** Weekly update - [Your name] - [Week of X]

**This week:**
- ✅ [Completed item with impact] - [one-line result]
- ✅ [Completed item]` + " " + `
- 🔄 [In progress item] - on track for [date]

**Next week:**
- [Key deliverable 1]
- [Key deliverable 2]

**Flags/asks:**
- [Any blockers or decisions needed]

---

**Pro tips:**
- Lead with completions, not activities
- Include one "impact" statement (client reaction, time saved, etc.)
- Keep it under 10 lines
- Send Monday morning or Friday afternoon

Would you like me to help draft this based on your current week?`

const fallbackHead = `That's a great question. Let me think about this from a promotion perspective.

In consulting, success isn't just about doing good work. It's about making sure the right people see that work and associate you with positive outcomes.

**A few things to consider:**

1. **Manage up proactively:** Don't wait to be asked. Send updates before your manager needs them.

2. **Make your manager's life easier:** What's stressing them? Help solve it, even if it's not "your job."

3. **Build your story:** Everything you do should connect to a competency you want to demonstrate.

`

const fallbackTail = `

Is there a specific situation you'd like me to help you navigate?`
