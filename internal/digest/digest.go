// Package digest builds due-date reminder digests from assignments and
// delivers them to a chat platform on a cron schedule.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/satchel/internal/models"
)

// Color constants for digest severity.
const (
	ColorOverdue  = "#e53935"
	ColorUpcoming = "#ff9800"
)

// maxListed caps how many assignments of each kind appear in a message body.
const maxListed = 10

// Notifier delivers a formatted digest to a chat platform.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a platform-neutral chat message.
type Message struct {
	ChannelID string  // target channel; adapters fall back to their default
	Text      string  // plain-text fallback
	Title     string  // headline
	Body      string  // detail text
	Color     string  // sidebar color hint
	Fields    []Field // key-value metadata pairs
}

// Field is a key-value pair displayed alongside the message.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Source supplies assignments with their statuses brought up to date.
type Source interface {
	GetAll() ([]models.Assignment, error)
}

// Report lists unfinished assignments that need attention.
type Report struct {
	GeneratedAt time.Time
	Horizon     time.Duration
	Overdue     []models.Assignment
	Upcoming    []models.Assignment
}

// Build collects overdue assignments and those due within horizon of now.
// Completed assignments never appear. Returns nil when nothing is due.
func Build(src Source, now time.Time, horizon time.Duration) (*Report, error) {
	all, err := src.GetAll()
	if err != nil {
		return nil, fmt.Errorf("digest: build: %w", err)
	}

	report := &Report{GeneratedAt: now, Horizon: horizon}
	cutoff := now.Add(horizon)
	for _, a := range all {
		if a.Status == models.StatusCompleted {
			continue
		}
		switch {
		case a.DueDate.Before(now):
			report.Overdue = append(report.Overdue, a)
		case !a.DueDate.After(cutoff):
			report.Upcoming = append(report.Upcoming, a)
		}
	}

	if len(report.Overdue) == 0 && len(report.Upcoming) == 0 {
		return nil, nil
	}
	return report, nil
}

// Format renders a report as a Message.
func Format(r *Report) Message {
	days := int(r.Horizon / (24 * time.Hour))
	title := fmt.Sprintf("Satchel digest: %d overdue, %d due in the next %d days",
		len(r.Overdue), len(r.Upcoming), days)

	var sections []string
	if len(r.Overdue) > 0 {
		sections = append(sections, "*Overdue*\n"+listAssignments(r.Overdue, r.GeneratedAt))
	}
	if len(r.Upcoming) > 0 {
		sections = append(sections, "*Upcoming*\n"+listAssignments(r.Upcoming, r.GeneratedAt))
	}

	color := ColorUpcoming
	if len(r.Overdue) > 0 {
		color = ColorOverdue
	}

	var hours float64
	for _, a := range r.Overdue {
		hours += a.EstimatedHours
	}
	for _, a := range r.Upcoming {
		hours += a.EstimatedHours
	}

	return Message{
		Text:  title,
		Title: title,
		Body:  strings.Join(sections, "\n\n"),
		Color: color,
		Fields: []Field{
			{Name: "Overdue", Value: fmt.Sprintf("%d", len(r.Overdue)), Short: true},
			{Name: "Upcoming", Value: fmt.Sprintf("%d", len(r.Upcoming)), Short: true},
			{Name: "Estimated hours", Value: fmt.Sprintf("%.1f", hours), Short: true},
		},
	}
}

func listAssignments(as []models.Assignment, now time.Time) string {
	var lines []string
	for i, a := range as {
		if i == maxListed {
			lines = append(lines, fmt.Sprintf("...and %d more", len(as)-maxListed))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s (%s, %s priority) %s",
			a.Title, a.Subject, a.Priority, dueIn(a.DueDate, now)))
	}
	return strings.Join(lines, "\n")
}

// dueIn describes a due date relative to now, rounded to hours or days.
func dueIn(due, now time.Time) string {
	d := due.Sub(now)
	late := d < 0
	if late {
		d = -d
	}

	var span string
	switch {
	case d < time.Hour:
		span = "under an hour"
	case d < 48*time.Hour:
		span = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		span = fmt.Sprintf("%dd", int(d.Hours()/24))
	}

	if late {
		return "overdue by " + span
	}
	return "due in " + span
}
