package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/rocketmentor/internal/domain"
)

func TestWinAdd_TitleAndDescription(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := e.signup(t, "ada@example.com").User.ID

	if _, err := e.wins.Add(ctx, uid, WinInput{RawText: "   "}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}
	w, err := e.wins.Add(ctx, uid, WinInput{
		RawText:        "Rebuilt the pricing model! Saved two weeks.",
		Project:        " Atlas ",
		CompetencyTags: []string{domain.CompetencyProblemSolving},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.Title != "Rebuilt the pricing model" || w.Project != "Atlas" || w.SourceType != domain.WinManual {
		t.Fatalf("win = %+v", w)
	}
	if w.Description != e.gen.WinDescription(w.Title, w.RawText) {
		t.Fatalf("description = %q", w.Description)
	}
}

func TestWinUpdateDeleteRegenerate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := e.signup(t, "ada@example.com").User.ID
	w, _ := e.wins.Add(ctx, uid, WinInput{RawText: "Led the client workshop"})

	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	got, err := e.wins.Update(ctx, uid, w.ID, WinPatch{Description: ptr("short"), Date: &date, CompetencyTags: []string{"teaming"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description != "short" || !got.Date.Equal(date) || got.Title != w.Title {
		t.Fatalf("win = %+v", got)
	}
	if _, err := e.wins.Update(ctx, uid, w.ID, WinPatch{Title: ptr(" ")}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}

	got, err = e.wins.RegenerateDescription(ctx, uid, w.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if !strings.HasPrefix(got.Description, "**Situation:**") || !strings.Contains(got.Description, "Led the client workshop") {
		t.Fatalf("description = %q", got.Description)
	}

	if err := e.wins.Delete(ctx, uid, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.wins.Get(ctx, uid, w.ID); !errors.Is(err, ErrWinNotFound) {
		t.Fatalf("want ErrWinNotFound, got %v", err)
	}
}

func sampleWins() []domain.Win {
	return []domain.Win{
		{ID: "1", Title: "Pricing model", Description: "Built a model", Project: "Atlas", CompetencyTags: []string{"problem_solving"}},
		{ID: "2", Title: "Client workshop", Description: "Ran the pricing workshop with the pricing team", Project: "Borealis", CompetencyTags: []string{"client_impact"}},
		{ID: "3", Title: "Onboarding", Description: "Mentored two analysts", CompetencyTags: []string{"teaming", "problem_solving"}},
	}
}

func ids(ws []domain.Win) string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return strings.Join(out, ",")
}

func TestFilterWins(t *testing.T) {
	tests := []struct {
		name string
		f    WinFilter
		want string
	}{
		{"all", WinFilter{}, "1,2,3"},
		{"query title or description", WinFilter{Query: "PRICING"}, "1,2"},
		{"competency", WinFilter{Competency: "problem_solving"}, "1,3"},
		{"project", WinFilter{Project: "Atlas"}, "1"},
		{"combined", WinFilter{Query: "pricing", Competency: "client_impact"}, "2"},
		{"no match", WinFilter{Query: "zebra"}, ""},
	}
	for _, tt := range tests {
		if got := ids(FilterWins(sampleWins(), tt.f)); got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFilterWins_Relevance(t *testing.T) {
	ws := []domain.Win{
		{ID: "a", Title: "Deck review", Description: "pricing"},
		{ID: "b", Title: "Pricing workshop", Description: "ran the pricing workshop for the client"},
	}
	if got := ids(FilterWins(ws, WinFilter{Query: "pricing workshop"})); got != "b" {
		t.Fatalf("substring filter = %q", got)
	}
	if got := ids(FilterWins(ws, WinFilter{Query: "pricing", SortByRelevance: true})); got != "a,b" && got != "b,a" {
		t.Fatalf("relevance = %q", got)
	}
}

func TestWinProjects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := e.signup(t, "ada@example.com").User.ID
	for _, in := range []WinInput{
		{RawText: "a", Project: "Atlas"},
		{RawText: "b"},
		{RawText: "c", Project: "Borealis"},
		{RawText: "d", Project: "Atlas"},
	} {
		if _, err := e.wins.Add(ctx, uid, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	ps, err := e.wins.Projects(ctx, uid)
	if err != nil || strings.Join(ps, ",") != "Atlas,Borealis" {
		t.Fatalf("projects = %v %v", ps, err)
	}
}

func TestWinsCSV(t *testing.T) {
	ws := []domain.Win{{
		Title:          `Said "yes"`,
		Description:    "line one, line two",
		Date:           time.Date(2025, 3, 7, 15, 0, 0, 0, time.UTC),
		CompetencyTags: []string{domain.CompetencyTeaming, "custom_tag"},
		SourceType:     domain.WinManual,
	}}
	want := "Title,Description,Project,Date,Competencies,Source\n" +
		`"Said ""yes""","line one, line two","","Mar 7, 2025","` + domain.CompetencyName(domain.CompetencyTeaming) + `, custom_tag","manual"`
	if got := WinsCSV(ws); got != want {
		t.Fatalf("csv =\n%s\nwant\n%s", got, want)
	}
	if got := WinsCSV(nil); got != "Title,Description,Project,Date,Competencies,Source" {
		t.Fatalf("empty csv = %q", got)
	}
}

func TestWinsMarkdown(t *testing.T) {
	ws := []domain.Win{
		{Title: "A", Description: "desc a", Project: "Atlas", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), CompetencyTags: []string{}},
		{Title: "B", Description: "desc b", Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), CompetencyTags: []string{"x"}},
	}
	want := "# Win History\n\n" +
		"## A\n\ndesc a\n\n- **Date:** Jan 5, 2025\n- **Project:** Atlas\n" +
		"\n---\n\n" +
		"## B\n\ndesc b\n\n- **Date:** Feb 1, 2025\n- **Competencies:** x\n"
	if got := WinsMarkdown(ws); got != want {
		t.Fatalf("markdown =\n%q\nwant\n%q", got, want)
	}
}

func TestWinExport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := e.signup(t, "ada@example.com").User.ID
	_, _ = e.wins.Add(ctx, uid, WinInput{RawText: "Won the pitch"})

	if _, err := e.wins.Export(ctx, uid, "pdf"); !errors.Is(err, ErrInvalidExportFormat) {
		t.Fatalf("want ErrInvalidExportFormat, got %v", err)
	}
	csv, err := e.wins.Export(ctx, uid, ExportCSV)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if csv.Filename != "wins-export-2025-03-12.csv" || !strings.HasPrefix(csv.ContentType, "text/csv") {
		t.Fatalf("csv export = %+v", csv)
	}
	if !strings.Contains(string(csv.Body), `"Won the pitch"`) {
		t.Fatalf("csv body = %s", csv.Body)
	}
	md, err := e.wins.Export(ctx, uid, ExportMarkdown)
	if err != nil || md.Filename != "wins-export-2025-03-12.md" || !strings.HasPrefix(string(md.Body), "# Win History\n\n## Won the pitch") {
		t.Fatalf("markdown export = %+v %v", md, err)
	}
}
