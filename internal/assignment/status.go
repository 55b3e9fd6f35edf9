package assignment

import (
	"slices"
	"time"

	"github.com/zulandar/satchel/internal/models"
)

// ValidTransitions maps each status to the statuses a caller may move it to.
// Overdue is never a target: it is only derived from the due date.
var ValidTransitions = map[models.Status][]models.Status{
	models.StatusNotStarted: {models.StatusInProgress, models.StatusCompleted},
	models.StatusInProgress: {models.StatusNotStarted, models.StatusCompleted},
	models.StatusCompleted:  {models.StatusInProgress, models.StatusNotStarted},
	models.StatusOverdue:    {models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted},
}

// isValidTransition checks whether a caller may move from one status to
// another. Staying put is always allowed.
func isValidTransition(from, to models.Status) bool {
	if from == to {
		return true
	}
	return slices.Contains(ValidTransitions[from], to)
}

// DeriveStatus returns the effective status of a at now. Completed is
// sticky; anything else past its due date is overdue.
func DeriveStatus(a models.Assignment, now time.Time) models.Status {
	if a.Status == models.StatusCompleted {
		return models.StatusCompleted
	}
	if a.DueDate.Before(now) {
		return models.StatusOverdue
	}
	return a.Status
}

// refresh applies DeriveStatus in place and reports whether it changed a.
func refresh(a *models.Assignment, now time.Time) bool {
	status := DeriveStatus(*a, now)
	if status == a.Status {
		return false
	}
	a.Status = status
	a.UpdatedAt = now
	return true
}
