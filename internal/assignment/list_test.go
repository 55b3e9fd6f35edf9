package assignment

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/models"
)

func seedList(t *testing.T, svc *Service) {
	t.Helper()
	rows := []struct {
		title    string
		subject  string
		due      time.Duration
		priority models.Priority
		hours    float64
		tags     []string
	}{
		{"Essay", "History", 48 * time.Hour, models.PriorityLow, 5, []string{"writing"}},
		{"Lab report", "Chemistry", 24 * time.Hour, models.PriorityHigh, 2, []string{"lab", "writing"}},
		{"Problem set", "Math", 72 * time.Hour, models.PriorityMedium, 3, nil},
		{"Reading", "history of art", -24 * time.Hour, models.PriorityHigh, 1, []string{"reading"}},
	}
	for _, r := range rows {
		mustCreate(t, svc, models.AssignmentInput{
			Title:          r.title,
			Subject:        r.subject,
			DueDate:        baseTime.Add(r.due),
			Priority:       r.priority,
			EstimatedHours: r.hours,
			Tags:           r.tags,
		})
	}
}

func listTitles(p []models.Assignment) string {
	var out []string
	for _, a := range p {
		out = append(out, a.Title)
	}
	return strings.Join(out, ",")
}

func TestList_FiltersAndSorts(t *testing.T) {
	tests := []struct {
		name string
		opts ListOptions
		want string
	}{
		{"default due date asc", ListOptions{}, "Reading,Lab report,Essay,Problem set"},
		{"due date desc", ListOptions{SortOrder: "desc"}, "Problem set,Essay,Lab report,Reading"},
		{"status overdue", ListOptions{Status: models.StatusOverdue}, "Reading"},
		{"priority high", ListOptions{Priority: models.PriorityHigh}, "Reading,Lab report"},
		{"subject substring", ListOptions{Subject: "HIST"}, "Reading,Essay"},
		{"tag overlap", ListOptions{Tags: []string{"writing", "none"}}, "Lab report,Essay"},
		{"due range", ListOptions{DueFrom: baseTime, DueTo: baseTime.Add(48 * time.Hour)}, "Lab report,Essay"},
		{"query", ListOptions{Query: "set"}, "Problem set"},
		{"by title", ListOptions{SortBy: SortTitle}, "Essay,Lab report,Problem set,Reading"},
		{"by priority desc", ListOptions{SortBy: SortPriority, SortOrder: "desc"}, "Lab report,Reading,Problem set,Essay"},
		{"by hours", ListOptions{SortBy: SortEstimatedHours}, "Reading,Lab report,Problem set,Essay"},
		{"by subject", ListOptions{SortBy: SortSubject}, "Lab report,Essay,Reading,Problem set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			seedList(t, svc)
			page, err := svc.List(tt.opts)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got := listTitles(page.Data); got != tt.want {
				t.Errorf("List = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestList_PaginationMath(t *testing.T) {
	svc, _, _ := newTestService(t)
	for i := 1; i <= 23; i++ {
		mustCreate(t, svc, models.AssignmentInput{
			Title:          fmt.Sprintf("Task %02d", i),
			Subject:        "CS",
			DueDate:        baseTime.Add(time.Duration(i) * time.Hour),
			EstimatedHours: 1,
		})
	}

	page, err := svc.List(ListOptions{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := listTitles(page.Data); got != "Task 21,Task 22,Task 23" {
		t.Errorf("Data = %s", got)
	}
	p := page.Pagination
	if p.Total != 23 || p.TotalPages != 3 || p.HasNext || !p.HasPrev || p.Page != 3 || p.Limit != 10 {
		t.Errorf("Pagination = %+v", p)
	}
}

func TestList_HugePageIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedList(t, svc)

	page, err := svc.List(ListOptions{Page: math.MaxInt, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Data) != 0 {
		t.Errorf("Data = %s, want none", listTitles(page.Data))
	}
	p := page.Pagination
	if p.Page != math.MaxInt || p.TotalPages != 1 || p.HasNext || !p.HasPrev {
		t.Errorf("Pagination = %+v", p)
	}
}

func TestList_InvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  ListOptions
		field string
	}{
		{"status", ListOptions{Status: "done"}, "status"},
		{"priority", ListOptions{Priority: "urgent"}, "priority"},
		{"sort field", ListOptions{SortBy: "color"}, "sortBy"},
		{"sort order", ListOptions{SortOrder: "up"}, "sortOrder"},
		{"page", ListOptions{Page: -1}, "page"},
		{"limit", ListOptions{Limit: 101}, "limit"},
		{"range", ListOptions{DueFrom: baseTime, DueTo: baseTime.Add(-time.Hour)}, "dueTo"},
		{"query", ListOptions{Query: strings.Repeat("q", 101)}, "q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			_, err := svc.List(tt.opts)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
			names := fieldNames(t, err)
			if len(names) != 1 || names[0] != tt.field {
				t.Errorf("fields = %v, want [%s]", names, tt.field)
			}
		})
	}
}

func TestIsValidTransition(t *testing.T) {
	for from := range ValidTransitions {
		if !isValidTransition(from, from) {
			t.Errorf("%s -> %s should be allowed", from, from)
		}
		if from != models.StatusOverdue && isValidTransition(from, models.StatusOverdue) {
			t.Errorf("%s -> overdue should be rejected", from)
		}
	}
	if !isValidTransition(models.StatusCompleted, models.StatusNotStarted) {
		t.Error("reopen should be allowed")
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		status models.Status
		due    time.Duration
		want   models.Status
	}{
		{models.StatusNotStarted, time.Hour, models.StatusNotStarted},
		{models.StatusNotStarted, -time.Hour, models.StatusOverdue},
		{models.StatusInProgress, -time.Hour, models.StatusOverdue},
		{models.StatusCompleted, -time.Hour, models.StatusCompleted},
		{models.StatusOverdue, -time.Hour, models.StatusOverdue},
	}
	for _, tt := range tests {
		a := models.Assignment{Status: tt.status, DueDate: baseTime.Add(tt.due)}
		if got := DeriveStatus(a, baseTime); got != tt.want {
			t.Errorf("DeriveStatus(%s, %v) = %s, want %s", tt.status, tt.due, got, tt.want)
		}
	}
}
