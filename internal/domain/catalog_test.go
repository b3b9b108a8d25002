package domain

import "testing"

func TestCompetencies_CatalogOrderAndLookup(t *testing.T) {
	want := []string{
		CompetencyProblemSolving, CompetencyClientImpact, CompetencyOwnership,
		CompetencyTeaming, CompetencyCommunication, CompetencyCommercial,
	}
	got := Competencies()
	if len(got) != len(want) {
		t.Fatalf("catalog size = %d; want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.ID != want[i] {
			t.Fatalf("catalog[%d] = %q; want %q", i, c.ID, want[i])
		}
		if c.Name == "" || c.Description == "" || c.Icon == "" {
			t.Fatalf("incomplete catalog entry %+v", c)
		}
	}

	// Mutating the copy must not leak into the catalog.
	got[0].Name = "changed"
	if c, _ := LookupCompetency(CompetencyProblemSolving); c.Name == "changed" {
		t.Fatalf("Competencies() must return a copy")
	}
}

func TestCompetencyName_FallsBackToRawID(t *testing.T) {
	if got := CompetencyName(CompetencyCommercial); got != "Commercial Awareness" {
		t.Fatalf("CompetencyName = %q", got)
	}
	if got := CompetencyName("leadership"); got != "leadership" {
		t.Fatalf("unknown id should fall back to itself, got %q", got)
	}
	if _, ok := LookupCompetency("leadership"); ok {
		t.Fatalf("LookupCompetency should report missing ids")
	}
}

func TestMilestoneTemplates_Catalog(t *testing.T) {
	ts := MilestoneTemplates()
	if len(ts) != 8 {
		t.Fatalf("expected 8 templates, got %d", len(ts))
	}
	seen := map[string]bool{}
	for _, m := range ts {
		if seen[m.ID] {
			t.Fatalf("duplicate template id %q", m.ID)
		}
		seen[m.ID] = true
		if m.MonthsBefore < 1 || m.MonthsBefore > 18 {
			t.Fatalf("unexpected lead time %+v", m)
		}
	}
	if !seen[MilestoneManagerConversation] {
		t.Fatalf("manager conversation milestone missing")
	}
}

func TestLabels_TableAndFallback(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"target level", TargetSeniorManager.Label(), "Senior Manager"},
		{"current level", LevelBusinessAnalyst.Label(), "Business Analyst"},
		{"firm", FirmBig4.Label(), "Big 4 / Advisory"},
		{"horizon", Horizon6To12Months.Label(), "6-12 months"},
		{"card type", CardWorkshop.Label(), "Workshop"},
		{"style", StyleOperator.Label(), "Operator"},
		{"stress", StressClient.Label(), "Unhappy client / escalation"},
		{"praise", PraiseSlides.Label(), "Sharp slides and analyses"},
		{"unknown level", TargetLevel("principal_partner").Label(), "Principal Partner"},
		{"day", Wednesday.Label(), "Wednesday"},
		{"empty", FirmType("").Label(), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %q want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	for i, d := range Weekdays {
		if !d.Valid() || d.Index() != i {
			t.Fatalf("weekday %q invalid or misplaced", d)
		}
	}
	if DayOfWeek("saturday").Valid() {
		t.Fatalf("saturday is not a board column")
	}
	for _, ct := range []CardType{CardMeeting, CardWorkshop, CardAnalysis, CardDeliverable, CardInternal, CardOther} {
		if !ct.Valid() {
			t.Fatalf("%q should be valid", ct)
		}
	}
	if CardType("call").Valid() || MoveCategory("growth").Valid() || PromotionHorizon("2y").Valid() {
		t.Fatalf("unexpected valid enum")
	}
	if !Horizon18PlusMonths.Valid() || !StyleProblemSolver.Valid() || !PraiseTeamSupport.Valid() || !StressPolitics.Valid() {
		t.Fatalf("expected valid enums")
	}
	if !FirmInhouse.Valid() || !LevelAssociate.Valid() || !TargetManager.Valid() || !MoveCraft.Valid() {
		t.Fatalf("expected valid enums")
	}
}
