// Package export renders assignments and notes as CSV, JSON and Markdown
// documents for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/satchel/internal/models"
)

// DateLayout formats dates in CSV and Markdown output.
const DateLayout = "2006-01-02 15:04"

// AssignmentHeaders is the CSV header row.
var AssignmentHeaders = []string{
	"Title", "Subject", "Description", "Due Date", "Priority", "Status",
	"Estimated Hours", "Actual Hours", "Tags", "Created At",
}

// AssignmentsCSV writes assignments as CSV with a header row.
func AssignmentsCSV(w io.Writer, assignments []models.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AssignmentHeaders); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}
	for _, a := range assignments {
		actual := ""
		if a.ActualHours != nil {
			actual = formatHours(*a.ActualHours)
		}
		row := []string{
			a.Title,
			a.Subject,
			a.Description,
			a.DueDate.Format(DateLayout),
			string(a.Priority),
			string(a.Status),
			formatHours(a.EstimatedHours),
			actual,
			strings.Join(a.Tags, ", "),
			a.CreatedAt.Format(DateLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: csv row %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: csv flush: %w", err)
	}
	return nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// AssignmentsDocument is the JSON export envelope for assignments.
type AssignmentsDocument struct {
	ExportDate       time.Time           `json:"exportDate"`
	TotalAssignments int                 `json:"totalAssignments"`
	Assignments      []models.Assignment `json:"assignments"`
}

// NotesDocument is the JSON export envelope for notes.
type NotesDocument struct {
	ExportDate time.Time     `json:"exportDate"`
	TotalNotes int           `json:"totalNotes"`
	Notes      []models.Note `json:"notes"`
}

// AssignmentsJSON writes an indented AssignmentsDocument stamped with now.
func AssignmentsJSON(w io.Writer, assignments []models.Assignment, now time.Time) error {
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return writeJSON(w, AssignmentsDocument{
		ExportDate:       now.UTC(),
		TotalAssignments: len(assignments),
		Assignments:      assignments,
	})
}

// NotesJSON writes an indented NotesDocument stamped with now.
func NotesJSON(w io.Writer, notes []models.Note, now time.Time) error {
	if notes == nil {
		notes = []models.Note{}
	}
	return writeJSON(w, NotesDocument{
		ExportDate: now.UTC(),
		TotalNotes: len(notes),
		Notes:      notes,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

// NotesMarkdown writes notes as a Markdown document, one section per note.
func NotesMarkdown(w io.Writer, notes []models.Note, now time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Notes\n\nExported %s, %d notes.\n", now.UTC().Format(DateLayout), len(notes))
	for _, n := range notes {
		fmt.Fprintf(&b, "\n## %s\n\n", n.Title)
		fmt.Fprintf(&b, "- Subject: %s\n", n.Subject)
		if len(n.Tags) > 0 {
			fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(n.Tags, ", "))
		}
		if n.AssignmentID != nil {
			fmt.Fprintf(&b, "- Assignment: %s\n", *n.AssignmentID)
		}
		fmt.Fprintf(&b, "- Updated: %s\n\n", n.UpdatedAt.Format(DateLayout))
		b.WriteString(n.Content)
		b.WriteString("\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("export: markdown: %w", err)
	}
	return nil
}

// Filename returns prefix_<timestamp>.ext for a download.
func Filename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02_15-04-05"), ext)
}
