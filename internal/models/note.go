package models

import "time"

// Note is free-form text, optionally linked to an assignment.
//
// AssignmentID is a weak reference: nothing checks that the assignment
// exists, and deleting the assignment leaves the note untouched.
type Note struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Subject        string    `json:"subject"`
	Tags           []string  `json:"tags"`
	AssignmentID   *string   `json:"assignmentId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}

// RecordID returns the note's ID.
func (n Note) RecordID() string { return n.ID }

// NoteInput carries the caller-supplied fields for a new note.
type NoteInput struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Subject      string   `json:"subject"`
	Tags         []string `json:"tags"`
	AssignmentID string   `json:"assignmentId"`
}

// NotePatch lists the fields an update may change. Nil means "leave as is".
// An empty AssignmentID unlinks the note.
type NotePatch struct {
	Title        *string   `json:"title,omitempty"`
	Content      *string   `json:"content,omitempty"`
	Subject      *string   `json:"subject,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	AssignmentID *string   `json:"assignmentId,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Subject == nil &&
		p.Tags == nil && p.AssignmentID == nil
}
