package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorMuted     = lipgloss.Color("#6C7086") // Medium gray
)

// printer writes headings and result lines. Styling is only applied when
// the output is a terminal.
type printer struct {
	w        io.Writer
	title    lipgloss.Style
	subtitle lipgloss.Style
	muted    lipgloss.Style
	width    int
}

func newPrinter(w io.Writer) *printer {
	p := &printer{
		w:        w,
		title:    lipgloss.NewStyle(),
		subtitle: lipgloss.NewStyle(),
		muted:    lipgloss.NewStyle(),
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p
	}

	r := lipgloss.NewRenderer(f)
	p.title = r.NewStyle().Bold(true).Foreground(colorPrimary)
	p.subtitle = r.NewStyle().Bold(true).Foreground(colorSecondary)
	p.muted = r.NewStyle().Foreground(colorMuted)
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		p.width = width
	}
	return p
}

// Title prints a heading underlined to its own width.
func (p *printer) Title(s string) {
	rule := lipgloss.Width(s)
	if p.width > 0 && rule > p.width {
		rule = p.width
	}
	fmt.Fprintln(p.w, p.title.Render(s))
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("=", rule)))
}

// Subtitle prints a secondary heading.
func (p *printer) Subtitle(s string) {
	fmt.Fprintln(p.w, p.subtitle.Render(s))
}

func (p *printer) Person(person domain.Person) {
	fmt.Fprintf(p.w, "  %s %s\n", person.Name, p.muted.Render("("+person.Identifier+")"))
}

func (p *printer) Object(o *domain.CulturalHeritageObject) {
	fmt.Fprintf(p.w, "  [%s] %s %s\n", o.Identifier, o.Title, p.muted.Render(string(o.Class)))
	p.fields(
		"owner", o.Owner,
		"place", o.Place,
		"date", o.Date,
	)
	if len(o.HasAuthor) > 0 {
		names := make([]string, 0, len(o.HasAuthor))
		for _, a := range o.HasAuthor {
			names = append(names, fmt.Sprintf("%s (%s)", a.Name, a.Identifier))
		}
		p.fields("authors", strings.Join(names, "; "))
	}
}

func (p *printer) Activity(a domain.Activity) {
	title := ""
	if a.RefersTo != nil {
		title = a.RefersTo.Title
	}
	fmt.Fprintf(p.w, "  %s of [%s] %s\n", a.Kind, a.ObjectID(), title)
	p.fields(
		"institute", a.Institute,
		"person", a.Person,
		"technique", a.Technique,
		"start", a.Start,
		"end", a.End,
		"tools", strings.Join(a.Tools, ", "),
	)
}

// fields prints non-empty label/value pairs on one indented line.
func (p *printer) fields(pairs ...string) {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		parts = append(parts, p.muted.Render(pairs[i]+":")+" "+pairs[i+1])
	}
	if len(parts) > 0 {
		fmt.Fprintf(p.w, "      %s\n", strings.Join(parts, "  "))
	}
}

type personView struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type objectView struct {
	Type       string       `json:"type"`
	Identifier string       `json:"identifier"`
	Title      string       `json:"title"`
	Owner      string       `json:"owner"`
	Place      string       `json:"place"`
	Date       string       `json:"date,omitempty"`
	Authors    []personView `json:"authors"`
}

type activityView struct {
	Kind      string   `json:"kind"`
	RefersTo  string   `json:"refers_to"`
	Institute string   `json:"institute"`
	Person    string   `json:"person,omitempty"`
	Technique string   `json:"technique,omitempty"`
	Start     string   `json:"start,omitempty"`
	End       string   `json:"end,omitempty"`
	Tools     []string `json:"tools"`
}

func toPersonView(p domain.Person) personView {
	return personView{Identifier: p.Identifier, Name: p.Name}
}

func toObjectView(o *domain.CulturalHeritageObject) objectView {
	v := objectView{
		Type:       string(o.Class),
		Identifier: o.Identifier,
		Title:      o.Title,
		Owner:      o.Owner,
		Place:      o.Place,
		Date:       o.Date,
		Authors:    make([]personView, 0, len(o.HasAuthor)),
	}
	for _, a := range o.HasAuthor {
		v.Authors = append(v.Authors, toPersonView(a))
	}
	return v
}

func toActivityView(a domain.Activity) activityView {
	tools := a.Tools
	if tools == nil {
		tools = []string{}
	}
	return activityView{
		Kind:      string(a.Kind),
		RefersTo:  a.ObjectID(),
		Institute: a.Institute,
		Person:    a.Person,
		Technique: a.Technique,
		Start:     a.Start,
		End:       a.End,
		Tools:     tools,
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputPeople(cmd *cobra.Command, heading string, people []domain.Person) error {
	if jsonOutput {
		views := make([]personView, 0, len(people))
		for _, p := range people {
			views = append(views, toPersonView(p))
		}
		return outputJSON(cmd, views)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.Title(heading)
	if len(people) == 0 {
		cmd.Println("No people found.")
		return nil
	}
	p.Subtitle(countOf(len(people), "person", "people"))
	for _, person := range people {
		p.Person(person)
	}
	return nil
}

func outputObjects(cmd *cobra.Command, heading string, objects []*domain.CulturalHeritageObject) error {
	if jsonOutput {
		views := make([]objectView, 0, len(objects))
		for _, o := range objects {
			views = append(views, toObjectView(o))
		}
		return outputJSON(cmd, views)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.Title(heading)
	if len(objects) == 0 {
		cmd.Println("No objects found.")
		return nil
	}
	p.Subtitle(countOf(len(objects), "object", "objects"))
	for _, o := range objects {
		p.Object(o)
	}
	return nil
}

func outputActivities(cmd *cobra.Command, heading string, activities []domain.Activity) error {
	if jsonOutput {
		views := make([]activityView, 0, len(activities))
		for _, a := range activities {
			views = append(views, toActivityView(a))
		}
		return outputJSON(cmd, views)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.Title(heading)
	if len(activities) == 0 {
		cmd.Println("No activities found.")
		return nil
	}
	p.Subtitle(countOf(len(activities), "activity", "activities"))
	for _, a := range activities {
		p.Activity(a)
	}
	return nil
}

func outputEntity(cmd *cobra.Command, id string, e domain.Entity) error {
	switch v := e.(type) {
	case *domain.CulturalHeritageObject:
		return outputObjects(cmd, "Object "+id, []*domain.CulturalHeritageObject{v})
	case domain.Person:
		return outputPeople(cmd, "Person "+id, []domain.Person{v})
	case nil:
		if jsonOutput {
			cmd.Println("null")
			return nil
		}
		cmd.Printf("No entity found for %s.\n", id)
		return nil
	default:
		return fmt.Errorf("unexpected entity type %T", e)
	}
}

func countOf(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
