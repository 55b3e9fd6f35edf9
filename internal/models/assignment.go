// Package models defines the records Satchel persists.
package models

import (
	"slices"
	"time"
)

// Status is the lifecycle state of an assignment.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
)

// Statuses lists every legal status in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusOverdue}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Priority ranks how urgent an assignment is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every legal priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of Priorities.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Rank orders priorities low=0, medium=1, high=2. Unknown values rank -1.
func (p Priority) Rank() int {
	return slices.Index(Priorities, p)
}

// Assignment is a unit of coursework with a due date.
type Assignment struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Subject        string    `json:"subject"`
	DueDate        time.Time `json:"dueDate"`
	Priority       Priority  `json:"priority"`
	Status         Status    `json:"status"`
	EstimatedHours float64   `json:"estimatedHours"`
	ActualHours    *float64  `json:"actualHours,omitempty"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RecordID returns the assignment's ID.
func (a Assignment) RecordID() string { return a.ID }

// AssignmentInput carries the caller-supplied fields for a new assignment.
type AssignmentInput struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Subject        string    `json:"subject"`
	DueDate        time.Time `json:"dueDate"`
	Priority       Priority  `json:"priority"`
	EstimatedHours float64   `json:"estimatedHours"`
	Tags           []string  `json:"tags"`
}

// AssignmentPatch lists the fields an update may change. Nil means "leave as is".
type AssignmentPatch struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Subject        *string    `json:"subject,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Priority       *Priority  `json:"priority,omitempty"`
	Status         *Status    `json:"status,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	ActualHours    *float64   `json:"actualHours,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p AssignmentPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Subject == nil &&
		p.DueDate == nil && p.Priority == nil && p.Status == nil &&
		p.EstimatedHours == nil && p.ActualHours == nil && p.Tags == nil
}
