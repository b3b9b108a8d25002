// Package services – WinService
//
// WinService owns the win library: manual capture with a STAR description,
// edits, filtering and export.
package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/search"
	"github.com/tbourn/rocketmentor/internal/store"
)

// Export formats.
const (
	ExportCSV      = "csv"
	ExportMarkdown = "markdown"
)

// MaxWinRunes bounds the free text of a manual win.
const MaxWinRunes = 5000

const exportDateLayout = "Jan 2, 2006"

// WinService coordinates the win library.
type WinService struct {
	Workspaces *Workspaces
}

// WinInput is a manually captured win.
type WinInput struct {
	RawText        string   `json:"rawText"`
	Project        string   `json:"project"`
	Metric         string   `json:"metric"`
	CompetencyTags []string `json:"competencyTags"`
}

// WinPatch is a partial win update; nil fields are kept.
type WinPatch struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Project        *string    `json:"project,omitempty"`
	Metric         *string    `json:"metric,omitempty"`
	CompetencyTags []string   `json:"competencyTags,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
}

// WinFilter narrows List. Empty fields match everything. Query matches a
// case-insensitive substring of the title or description; with
// SortByRelevance the matches are ordered by word overlap with Query.
type WinFilter struct {
	Query           string
	Competency      string
	Project         string
	SortByRelevance bool
}

// Export is a rendered win history.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Add records a manual win. The title is the first sentence of RawText.
func (s *WinService) Add(ctx context.Context, userID string, in WinInput) (domain.Win, error) {
	tr := otel.Tracer("services/WinService")
	ctx, span := tr.Start(ctx, "Add", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if strings.TrimSpace(in.RawText) == "" {
		return domain.Win{}, ErrEmptyText
	}
	if len([]rune(in.RawText)) > MaxWinRunes {
		return domain.Win{}, ErrTooLong
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.Win{}, err
	}
	w := s.Workspaces.Generator().ManualWin(in.RawText, strings.TrimSpace(in.Project), strings.TrimSpace(in.Metric), slices.Clone(in.CompetencyTags))
	st.Dispatch(store.AddWin{Win: w})
	return w, nil
}

func (s *WinService) win(ctx context.Context, userID, winID string) (*store.Store, domain.Win, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, domain.Win{}, err
	}
	w, ok := st.State().Win(winID)
	if !ok {
		return nil, domain.Win{}, ErrWinNotFound
	}
	return st, w, nil
}

// Get returns one win.
func (s *WinService) Get(ctx context.Context, userID, winID string) (domain.Win, error) {
	_, w, err := s.win(ctx, userID, winID)
	return w, err
}

// Update applies p to one win.
func (s *WinService) Update(ctx context.Context, userID, winID string, p WinPatch) (domain.Win, error) {
	st, w, err := s.win(ctx, userID, winID)
	if err != nil {
		return domain.Win{}, err
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return domain.Win{}, ErrEmptyText
		}
		w.Title = t
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Project != nil {
		w.Project = strings.TrimSpace(*p.Project)
	}
	if p.Metric != nil {
		w.Metric = strings.TrimSpace(*p.Metric)
	}
	if p.CompetencyTags != nil {
		w.CompetencyTags = slices.Clone(p.CompetencyTags)
	}
	if p.Date != nil {
		w.Date = p.Date.UTC()
	}
	st.Dispatch(store.UpdateWin{Win: w})
	return w, nil
}

// Delete removes one win.
func (s *WinService) Delete(ctx context.Context, userID, winID string) error {
	st, _, err := s.win(ctx, userID, winID)
	if err != nil {
		return err
	}
	st.Dispatch(store.DeleteWin{WinID: winID})
	return nil
}

// RegenerateDescription rebuilds the STAR description from the raw text,
// or from the title when the win has none.
func (s *WinService) RegenerateDescription(ctx context.Context, userID, winID string) (domain.Win, error) {
	st, w, err := s.win(ctx, userID, winID)
	if err != nil {
		return domain.Win{}, err
	}
	raw := w.RawText
	if raw == "" {
		raw = w.Title
	}
	w.Description = s.Workspaces.Generator().WinDescription(w.Title, raw)
	st.Dispatch(store.UpdateWin{Win: w})
	return w, nil
}

// List returns the wins matching f, in library order unless
// f.SortByRelevance is set.
func (s *WinService) List(ctx context.Context, userID string, f WinFilter) ([]domain.Win, error) {
	tr := otel.Tracer("services/WinService")
	ctx, span := tr.Start(ctx, "List", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("sort.relevance", f.SortByRelevance),
	))
	defer span.End()

	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := FilterWins(st.State().Wins, f)
	span.SetAttributes(attribute.Int("wins.matched", len(out)))
	return out, nil
}

// FilterWins applies f to wins without touching any store.
func FilterWins(wins []domain.Win, f WinFilter) []domain.Win {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Win, 0, len(wins))
	for _, w := range wins {
		if q != "" && !strings.Contains(strings.ToLower(w.Title), q) && !strings.Contains(strings.ToLower(w.Description), q) {
			continue
		}
		if f.Competency != "" && !slices.Contains(w.CompetencyTags, f.Competency) {
			continue
		}
		if f.Project != "" && w.Project != f.Project {
			continue
		}
		out = append(out, w)
	}
	if f.SortByRelevance && q != "" && len(out) > 1 {
		docs := make([]search.Document, len(out))
		for i, w := range out {
			docs[i] = search.Document{ID: w.ID, Text: w.Title + "\n" + w.Description}
		}
		scores := search.Scores(search.NewIndex(docs), f.Query)
		slices.SortStableFunc(out, func(a, b domain.Win) int {
			sa, sb := scores[a.ID], scores[b.ID]
			switch {
			case sa > sb:
				return -1
			case sa < sb:
				return 1
			}
			return 0
		})
	}
	return out
}

// Projects lists the distinct non-empty projects in first-seen order.
func (s *WinService) Projects(ctx context.Context, userID string) ([]string, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, w := range st.State().Wins {
		if w.Project != "" && !slices.Contains(out, w.Project) {
			out = append(out, w.Project)
		}
	}
	return out, nil
}

// Export renders every win in format.
func (s *WinService) Export(ctx context.Context, userID, format string) (*Export, error) {
	tr := otel.Tracer("services/WinService")
	ctx, span := tr.Start(ctx, "Export", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("format", format),
	))
	defer span.End()

	if format != ExportCSV && format != ExportMarkdown {
		return nil, ErrInvalidExportFormat
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	day := s.Workspaces.Generator().Now().Format(time.DateOnly)
	wins := st.State().Wins
	if format == ExportCSV {
		return &Export{
			Filename:    "wins-export-" + day + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Body:        []byte(WinsCSV(wins)),
		}, nil
	}
	return &Export{
		Filename:    "wins-export-" + day + ".md",
		ContentType: "text/markdown; charset=utf-8",
		Body:        []byte(WinsMarkdown(wins)),
	}, nil
}

func competencyNames(tags []string) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = domain.CompetencyName(t)
	}
	return strings.Join(names, ", ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WinsCSV renders wins as CSV with every field quoted.
func WinsCSV(wins []domain.Win) string {
	lines := make([]string, 0, len(wins)+1)
	lines = append(lines, "Title,Description,Project,Date,Competencies,Source")
	for _, w := range wins {
		lines = append(lines, strings.Join([]string{
			quote(w.Title),
			quote(w.Description),
			quote(w.Project),
			quote(w.Date.UTC().Format(exportDateLayout)),
			quote(competencyNames(w.CompetencyTags)),
			quote(string(w.SourceType)),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// WinsMarkdown renders wins as a markdown document, one section per win.
func WinsMarkdown(wins []domain.Win) string {
	parts := make([]string, len(wins))
	for i, w := range wins {
		var b strings.Builder
		b.WriteString("## " + w.Title + "\n\n" + w.Description + "\n\n")
		b.WriteString("- **Date:** " + w.Date.UTC().Format(exportDateLayout))
		if w.Project != "" {
			b.WriteString("\n- **Project:** " + w.Project)
		}
		if names := competencyNames(w.CompetencyTags); names != "" {
			b.WriteString("\n- **Competencies:** " + names)
		}
		b.WriteString("\n")
		parts[i] = b.String()
	}
	return "# Win History\n\n" + strings.Join(parts, "\n---\n\n")
}
