// Package assignment owns the assignment lifecycle: validation, derived
// overdue status, status transitions and queries.
package assignment

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/logging"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/store"
	"github.com/zulandar/satchel/internal/validate"
)

// UpcomingWindow is how far ahead GetUpcoming looks.
const UpcomingWindow = 7 * 24 * time.Hour

// MaxHours bounds estimated and actual hours.
const MaxHours = 1000

// Stats aggregates assignment counts and hours.
type Stats struct {
	Total               int     `json:"total"`
	NotStarted          int     `json:"notStarted"`
	InProgress          int     `json:"inProgress"`
	Completed           int     `json:"completed"`
	Overdue             int     `json:"overdue"`
	TotalEstimatedHours float64 `json:"totalEstimatedHours"`
	TotalActualHours    float64 `json:"totalActualHours"`
}

// Service enforces assignment invariants on top of a record store.
type Service struct {
	store *store.Store[models.Assignment]
	now   func() time.Time
	newID func() string
}

// ServiceOpts holds parameters for NewService.
type ServiceOpts struct {
	Store *store.Store[models.Assignment]
	Now   func() time.Time // defaults to time.Now
	NewID func() string    // defaults to uuid.NewString
}

// NewService creates a Service.
func NewService(opts ServiceOpts) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("assignment: store is required")
	}
	s := &Service{store: opts.Store, now: opts.Now, newID: opts.NewID}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

func internal(op string, err error) error {
	return apperr.Internal(fmt.Errorf("assignment: %s: %w", op, err))
}

// Create validates in and stores a new not-started assignment.
func (s *Service) Create(in models.AssignmentInput) (*models.Assignment, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	var v validate.Checker
	if v.Required("title", in.Title) {
		v.MaxLen("title", in.Title, validate.MaxTitle)
	}
	if v.Required("subject", in.Subject) {
		v.MaxLen("subject", in.Subject, validate.MaxSubject)
	}
	v.MaxLen("description", in.Description, validate.MaxDescription)
	if in.DueDate.IsZero() {
		v.Add("dueDate", "dueDate is required")
	}
	switch {
	case in.EstimatedHours == 0:
		v.Add("estimatedHours", "estimatedHours is required")
	case in.EstimatedHours < 0:
		v.Add("estimatedHours", "estimatedHours must be a positive number")
	case in.EstimatedHours > MaxHours:
		v.Addf("estimatedHours", "estimatedHours must not exceed %d", MaxHours)
	}
	if !in.Priority.Valid() {
		v.Add("priority", "priority must be low, medium, or high")
	}
	v.Tags(in.Tags)
	if err := v.Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.now()
	a := models.Assignment{
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Subject:        subject,
		DueDate:        in.DueDate,
		Priority:       in.Priority,
		Status:         models.StatusNotStarted,
		EstimatedHours: in.EstimatedHours,
		Tags:           tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := s.store.Modify(func(records []models.Assignment) ([]models.Assignment, bool, error) {
		if err := checkTitle(records, title, subject, ""); err != nil {
			return nil, false, err
		}
		a.ID = s.newID()
		return append(records, a), true, nil
	})
	if err != nil {
		return nil, storeErr("create", err)
	}
	return &a, nil
}

// checkTitle rejects title when another assignment in subject already uses
// it, ignoring case. exceptID is skipped.
func checkTitle(records []models.Assignment, title, subject, exceptID string) error {
	for _, a := range records {
		if a.ID != exceptID && a.Subject == subject && strings.EqualFold(a.Title, title) {
			return apperr.Conflict(fmt.Sprintf("An assignment titled %q already exists in %s", title, subject))
		}
	}
	return nil
}

// storeErr passes application errors raised inside a store callback
// through and wraps everything else as internal.
func storeErr(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return internal(op, err)
}

// GetAll returns every assignment with its status brought up to date. Any
// recomputed statuses are persisted in a single write.
func (s *Service) GetAll() ([]models.Assignment, error) {
	now := s.now()
	var refreshed int
	all, err := s.store.Modify(func(records []models.Assignment) ([]models.Assignment, bool, error) {
		for i := range records {
			if refresh(&records[i], now) {
				refreshed++
			}
		}
		return records, refreshed > 0, nil
	})
	if err != nil {
		return nil, internal("refresh statuses", err)
	}
	if refreshed > 0 {
		logging.Logger.WithFields(logrus.Fields{
			"count": refreshed,
			"path":  s.store.Path(),
		}).Info("assignment: marked overdue")
	}
	return all, nil
}

// GetByID returns the assignment with id, or nil. A recomputed status is
// persisted before returning.
func (s *Service) GetByID(id string) (*models.Assignment, error) {
	now := s.now()
	var (
		found   *models.Assignment
		changed bool
	)
	_, err := s.store.Modify(func(records []models.Assignment) ([]models.Assignment, bool, error) {
		i := indexOf(records, id)
		if i < 0 {
			return records, false, nil
		}
		changed = refresh(&records[i], now)
		a := records[i]
		found = &a
		return records, changed, nil
	})
	if err != nil {
		return nil, internal("refresh status", err)
	}
	if changed {
		logging.Logger.WithFields(logrus.Fields{
			"id":   id,
			"path": s.store.Path(),
		}).Info("assignment: marked overdue")
	}
	return found, nil
}

func indexOf(records []models.Assignment, id string) int {
	return slices.IndexFunc(records, func(a models.Assignment) bool { return a.ID == id })
}

// UpdateByID applies patch to the assignment with id. It returns nil when
// no such assignment exists. Nothing is written if validation fails.
func (s *Service) UpdateByID(id string, patch models.AssignmentPatch) (*models.Assignment, error) {
	var v validate.Checker
	if patch.Title != nil {
		v.NotBlank("title", patch.Title)
		v.MaxLen("title", *patch.Title, validate.MaxTitle)
	}
	if patch.Subject != nil {
		v.NotBlank("subject", patch.Subject)
		v.MaxLen("subject", *patch.Subject, validate.MaxSubject)
	}
	if patch.Description != nil {
		v.MaxLen("description", *patch.Description, validate.MaxDescription)
	}
	if patch.DueDate != nil && patch.DueDate.IsZero() {
		v.Add("dueDate", "dueDate must be a valid date")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		v.Add("priority", "priority must be low, medium, or high")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		v.Add("status", "status must be not-started, in-progress, completed, or overdue")
	}
	if h := patch.EstimatedHours; h != nil && (*h <= 0 || *h > MaxHours) {
		v.Addf("estimatedHours", "estimatedHours must be greater than 0 and at most %d", MaxHours)
	}
	if h := patch.ActualHours; h != nil && (*h < 0 || *h > MaxHours) {
		v.Addf("actualHours", "actualHours must be between 0 and %d", MaxHours)
	}
	if patch.Tags != nil {
		v.Tags(*patch.Tags)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *models.Assignment
	_, err := s.store.Modify(func(records []models.Assignment) ([]models.Assignment, bool, error) {
		i := indexOf(records, id)
		if i < 0 {
			return records, false, nil
		}
		a := records[i]
		if patch.Status != nil {
			if err := checkTransition(DeriveStatus(a, now), *patch.Status); err != nil {
				return nil, false, err
			}
		}
		applyPatch(&a, patch)
		if patch.Title != nil || patch.Subject != nil {
			if err := checkTitle(records, a.Title, a.Subject, id); err != nil {
				return nil, false, err
			}
		}
		a.UpdatedAt = now
		refresh(&a, now)
		records[i] = a
		updated = &a
		return records, true, nil
	})
	if err != nil {
		return nil, storeErr("update", err)
	}
	return updated, nil
}

func applyPatch(a *models.Assignment, p models.AssignmentPatch) {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		a.Description = strings.TrimSpace(*p.Description)
	}
	if p.Subject != nil {
		a.Subject = strings.TrimSpace(*p.Subject)
	}
	if p.DueDate != nil {
		a.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.EstimatedHours != nil {
		a.EstimatedHours = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		h := *p.ActualHours
		a.ActualHours = &h
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, (*p.Tags)...)
	}
}

func checkTransition(from, to models.Status) error {
	if isValidTransition(from, to) {
		return nil
	}
	return apperr.Conflict(fmt.Sprintf("invalid status transition from %q to %q; valid transitions: %v", from, to, ValidTransitions[from]))
}

// UpdateStatus moves the assignment with id to status, subject to
// ValidTransitions. It returns nil when no such assignment exists.
func (s *Service) UpdateStatus(id string, status models.Status) (*models.Assignment, error) {
	return s.UpdateByID(id, models.AssignmentPatch{Status: &status})
}

// DeleteByID removes the assignment with id and reports whether it existed.
// Notes linked to it are left alone.
func (s *Service) DeleteByID(id string) (bool, error) {
	ok, err := s.store.DeleteByID(id)
	if err != nil {
		return false, internal("delete", err)
	}
	return ok, nil
}

// GetByStatus returns assignments whose stored status equals status.
func (s *Service) GetByStatus(status models.Status) ([]models.Assignment, error) {
	if !status.Valid() {
		var v validate.Checker
		v.Add("status", "status must be not-started, in-progress, completed, or overdue")
		return nil, v.Err()
	}
	return s.findBy("status", string(status))
}

// GetBySubject returns assignments whose subject equals subject exactly.
func (s *Service) GetBySubject(subject string) ([]models.Assignment, error) {
	return s.findBy("subject", subject)
}

func (s *Service) findBy(field, value string) ([]models.Assignment, error) {
	out, err := s.store.FindBy(map[string]any{field: value})
	if err != nil {
		return nil, internal("find by "+field, err)
	}
	return out, nil
}

// GetUpcoming returns unfinished assignments due within UpcomingWindow,
// including ones already overdue.
func (s *Service) GetUpcoming() ([]models.Assignment, error) {
	return s.DueWithin(UpcomingWindow)
}

// DueWithin returns unfinished assignments due no later than now+d.
func (s *Service) DueWithin(d time.Duration) ([]models.Assignment, error) {
	all, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Add(d)
	return keep(all, func(a models.Assignment) bool {
		return a.Status != models.StatusCompleted && !a.DueDate.After(cutoff)
	}), nil
}

// GetOverdue returns unfinished assignments whose due date has passed.
func (s *Service) GetOverdue() ([]models.Assignment, error) {
	all, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	now := s.now()
	return keep(all, func(a models.Assignment) bool {
		return a.Status != models.StatusCompleted && a.DueDate.Before(now)
	}), nil
}

// Search returns assignments whose title, description, subject or any tag
// contains query, ignoring case.
func (s *Service) Search(query string) ([]models.Assignment, error) {
	var v validate.Checker
	query = v.Query(query)
	if err := v.Err(); err != nil {
		return nil, err
	}
	all, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(query)
	return keep(all, func(a models.Assignment) bool { return matchesQuery(a, term) }), nil
}

// matchesQuery expects term already lower-cased.
func matchesQuery(a models.Assignment, term string) bool {
	if strings.Contains(strings.ToLower(a.Title), term) ||
		strings.Contains(strings.ToLower(a.Description), term) ||
		strings.Contains(strings.ToLower(a.Subject), term) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// GetStats counts assignments per status and sums their hours.
func (s *Service) GetStats() (*Stats, error) {
	all, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	st := &Stats{Total: len(all)}
	for _, a := range all {
		switch a.Status {
		case models.StatusNotStarted:
			st.NotStarted++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusCompleted:
			st.Completed++
		case models.StatusOverdue:
			st.Overdue++
		}
		st.TotalEstimatedHours += a.EstimatedHours
		if a.ActualHours != nil {
			st.TotalActualHours += *a.ActualHours
		}
	}
	return st, nil
}

func keep(all []models.Assignment, match func(models.Assignment) bool) []models.Assignment {
	out := []models.Assignment{}
	for _, a := range all {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}
