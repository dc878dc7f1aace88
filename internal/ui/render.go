// Package ui renders casetracker views for the terminal.
package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/search"
	"github.com/yourusername/casetracker/internal/utils"
)

const (
	MsgNoMatches  = "No inmates matched your search."
	MsgNoInmate   = "No inmate matched given URL parameters."
	notApplicable = "-"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorBorder  = lipgloss.Color("#2C4A54")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
)

// Styles used across views.
var Styles = struct {
	Title, Label, Muted, Warning, Error lipgloss.Style
	WarningBox                          lipgloss.Style
	Header, Cell                        lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Label:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(colorBorder),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorWarning).
		Padding(0, 1),
	Header: lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1),
	Cell:   lipgloss.NewStyle().Padding(0, 1),
}

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Styles.Muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			return Styles.Cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// SearchResults lists matches, followed by any provider errors.
func SearchResults(res search.Result) string {
	var b strings.Builder
	if len(res.Inmates) == 0 {
		b.WriteString(MsgNoMatches + "\n")
	} else {
		rows := make([][]string, len(res.Inmates))
		for i, in := range res.Inmates {
			rows[i] = []string{
				in.Jurisdiction,
				utils.FormatID(in.ID),
				utils.FullName(in.FirstName, in.LastName),
				utils.OrNotAvailable(in.Unit.Name),
				utils.OrNotAvailable(in.Release),
			}
		}
		b.WriteString(grid([]string{"Jurisdiction", "ID", "Name", "Unit", "Release"}, rows))
		b.WriteString("\n")
	}
	for _, e := range res.Errors {
		b.WriteString(Styles.Error.Render(e) + "\n")
	}
	return b.String()
}

// Inmate renders the profile block of the detail view.
func Inmate(agg models.InmateAggregate) string {
	u := agg.Unit
	address := strings.TrimSpace(strings.Join(nonEmpty(u.Street1, u.Street2, strings.TrimSpace(fmt.Sprintf("%s, %s %s", u.City, u.State, u.Zipcode))), ", "))
	if u.City == "" {
		address = ""
	}

	info := [][2]string{
		{"Name", utils.FullName(agg.FirstName, agg.LastName)},
		{"ID", utils.FormatID(agg.ID)},
		{"Jurisdiction", agg.Jurisdiction},
		{"Unit", utils.OrNotAvailable(u.Name)},
		{"Address", utils.OrNotAvailable(address)},
		{"Sex", utils.OrNotAvailable(agg.Sex)},
		{"Race", utils.OrNotAvailable(agg.Race)},
		{"Release", utils.OrNotAvailable(agg.Release)},
		{"Last updated", agg.DatetimeFetched.Format("2006-01-02 15:04")},
		{"Postmark gap", strconv.Itoa(agg.MinPostmarkTimedelta) + " days"},
	}
	if agg.URL != "" {
		info = append(info, [2]string{"Source", agg.URL})
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(utils.FullName(agg.FirstName, agg.LastName)) + "\n")
	for _, kv := range info {
		fmt.Fprintf(&b, "%s %s\n", Styles.Label.Render(fmt.Sprintf("%-13s", kv[0]+":")), kv[1])
	}
	if w := Warnings(nonEmpty(agg.EntryAgeWarning, agg.ReleaseWarning)); w != "" {
		b.WriteString(w)
	}
	return b.String()
}

// Requests renders the request table.
func Requests(rows []models.Request) string {
	if len(rows) == 0 {
		return Styles.Muted.Render("No requests.") + "\n"
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{strconv.Itoa(r.Index), dateOrDash(r.DatePostmarked), dateOrDash(r.DateProcessed), string(r.Action)}
	}
	return grid([]string{"#", "Postmarked", "Processed", "Action"}, out) + "\n"
}

// Comments renders the comment table.
func Comments(rows []models.Comment) string {
	if len(rows) == 0 {
		return Styles.Muted.Render("No comments.") + "\n"
	}
	out := make([][]string, len(rows))
	for i, c := range rows {
		out[i] = []string{strconv.Itoa(c.Index), c.Datetime.Format("2006-01-02 15:04"), c.Author, c.Body}
	}
	return grid([]string{"#", "Written", "Author", "Comment"}, out) + "\n"
}

// Warnings renders postmark warnings in a box; "" when there are none.
func Warnings(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = Styles.Warning.Render("! " + m)
	}
	return Styles.WarningBox.Render(strings.Join(lines, "\n")) + "\n"
}

// FieldErrors renders the errors attached to an editor, sorted by field.
func FieldErrors(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(Styles.Error.Render(f+": "+errs[f]) + "\n")
	}
	return b.String()
}

func dateOrDash(d models.Date) string {
	if d.IsZero() {
		return notApplicable
	}
	return d.String()
}

func nonEmpty(ss ...string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
