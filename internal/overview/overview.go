// Package overview combines per-entity statistics with raw record counts.
package overview

import (
	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/note"
	"github.com/zulandar/satchel/internal/store"
)

// Overview is the dashboard summary.
type Overview struct {
	Assignments assignment.Stats `json:"assignments"`
	Notes       note.Stats       `json:"notes"`
	Records     store.Counts     `json:"records"`
}

// Build collects stats from both services and the raw file counts in dir.
// Assignment stats are computed first, so any overdue recomputation is
// already persisted when the files are counted.
func Build(assignments *assignment.Service, notes *note.Service, dir store.DataDir) (*Overview, error) {
	as, err := assignments.GetStats()
	if err != nil {
		return nil, err
	}
	return &Overview{
		Assignments: *as,
		Notes:       notes.GetStats(),
		Records:     dir.Counts(),
	}, nil
}
