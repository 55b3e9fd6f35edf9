// Package note manages notes: validation, last-accessed tracking, search
// and per-subject statistics.
package note

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/logging"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/store"
	"github.com/zulandar/satchel/internal/validate"
)

// Stats summarizes the note collection.
type Stats struct {
	Total                int            `json:"total"`
	BySubject            map[string]int `json:"bySubject"`
	TotalTags            int            `json:"totalTags"`
	UniqueTags           int            `json:"uniqueTags"`
	AverageContentLength int            `json:"averageContentLength"`
}

// Service enforces note invariants on top of a record store.
type Service struct {
	store *store.Store[models.Note]
	now   func() time.Time
	newID func() string
}

// ServiceOpts holds parameters for NewService.
type ServiceOpts struct {
	Store *store.Store[models.Note]
	Now   func() time.Time
	NewID func() string
}

// NewService creates a Service. Now and NewID default to time.Now and
// uuid.NewString.
func NewService(opts ServiceOpts) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("note: store is required")
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
	return apperr.Internal(fmt.Errorf("note: %s: %w", op, err))
}

// Create validates in and stores a new note.
func (s *Service) Create(in models.NoteInput) (*models.Note, error) {
	var v validate.Checker
	if v.Required("title", in.Title) {
		v.MaxLen("title", in.Title, validate.MaxTitle)
	}
	if v.Required("content", in.Content) {
		v.MaxLen("content", in.Content, validate.MaxContent)
	}
	if v.Required("subject", in.Subject) {
		v.MaxLen("subject", in.Subject, validate.MaxSubject)
	}
	v.Tags(in.Tags)
	if err := v.Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	dupes := s.store.Filter(func(n models.Note) bool {
		return n.Subject == subject && strings.EqualFold(n.Title, title)
	})
	if len(dupes) > 0 {
		logging.Logger.WithFields(logrus.Fields{
			"title":   title,
			"subject": subject,
		}).Warn("note: duplicate title in subject")
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.now()
	n := models.Note{
		ID:             s.newID(),
		Title:          title,
		Content:        strings.TrimSpace(in.Content),
		Subject:        subject,
		Tags:           tags,
		AssignmentID:   linkID(in.AssignmentID),
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	}

	created, err := s.store.Create(n)
	if err != nil {
		return nil, internal("create", err)
	}
	return &created, nil
}

// linkID returns nil for a blank assignment id.
func linkID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

// GetAll returns every note in storage order.
func (s *Service) GetAll() []models.Note {
	return s.store.ReadAll()
}

// GetByID returns the note with id and stamps its lastAccessedAt, or nil.
func (s *Service) GetByID(id string) (*models.Note, error) {
	now := s.now()
	n, err := s.store.UpdateByID(id, func(n *models.Note) {
		n.LastAccessedAt = now
	})
	if err != nil {
		return nil, internal("touch", err)
	}
	return n, nil
}

// UpdateByID applies patch to the note with id. It returns nil when no such
// note exists.
func (s *Service) UpdateByID(id string, patch models.NotePatch) (*models.Note, error) {
	var v validate.Checker
	if patch.Title != nil {
		v.NotBlank("title", patch.Title)
		v.MaxLen("title", *patch.Title, validate.MaxTitle)
	}
	if patch.Content != nil {
		v.NotBlank("content", patch.Content)
		v.MaxLen("content", *patch.Content, validate.MaxContent)
	}
	if patch.Subject != nil {
		v.NotBlank("subject", patch.Subject)
		v.MaxLen("subject", *patch.Subject, validate.MaxSubject)
	}
	if patch.Tags != nil {
		v.Tags(*patch.Tags)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	n, err := s.store.UpdateByID(id, func(n *models.Note) {
		if patch.Title != nil {
			n.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Content != nil {
			n.Content = strings.TrimSpace(*patch.Content)
		}
		if patch.Subject != nil {
			n.Subject = strings.TrimSpace(*patch.Subject)
		}
		if patch.Tags != nil {
			n.Tags = append([]string{}, (*patch.Tags)...)
		}
		if patch.AssignmentID != nil {
			n.AssignmentID = linkID(*patch.AssignmentID)
		}
		n.UpdatedAt = now
		n.LastAccessedAt = now
	})
	if err != nil {
		return nil, internal("update", err)
	}
	return n, nil
}

// DeleteByID removes the note with id and reports whether it existed.
func (s *Service) DeleteByID(id string) (bool, error) {
	ok, err := s.store.DeleteByID(id)
	if err != nil {
		return false, internal("delete", err)
	}
	return ok, nil
}

// GetByAssignment returns notes linked to assignmentID.
func (s *Service) GetByAssignment(assignmentID string) ([]models.Note, error) {
	return s.findBy("assignmentId", assignmentID)
}

// GetBySubject returns notes whose subject equals subject exactly.
func (s *Service) GetBySubject(subject string) ([]models.Note, error) {
	return s.findBy("subject", subject)
}

func (s *Service) findBy(field, value string) ([]models.Note, error) {
	out, err := s.store.FindBy(map[string]any{field: value})
	if err != nil {
		return nil, internal("find by "+field, err)
	}
	return out, nil
}

// Search returns notes whose title, content, subject or any tag contains
// query, ignoring case.
func (s *Service) Search(query string) ([]models.Note, error) {
	var v validate.Checker
	query = v.Query(query)
	if err := v.Err(); err != nil {
		return nil, err
	}
	term := strings.ToLower(query)
	return s.store.Filter(func(n models.Note) bool { return matchesQuery(n, term) }), nil
}

func matchesQuery(n models.Note, term string) bool {
	if strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Content), term) ||
		strings.Contains(strings.ToLower(n.Subject), term) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), term)
	})
}

// GetStats counts notes per subject and summarizes tags and content length.
func (s *Service) GetStats() Stats {
	notes := s.store.ReadAll()
	st := Stats{Total: len(notes), BySubject: map[string]int{}}
	unique := map[string]struct{}{}
	var contentLen int
	for _, n := range notes {
		st.BySubject[n.Subject]++
		st.TotalTags += len(n.Tags)
		for _, tag := range n.Tags {
			unique[tag] = struct{}{}
		}
		contentLen += utf8.RuneCountInString(n.Content)
	}
	st.UniqueTags = len(unique)
	if len(notes) > 0 {
		st.AverageContentLength = int(math.Round(float64(contentLen) / float64(len(notes))))
	}
	return st
}

// ListOptions holds optional filters for List.
type ListOptions struct {
	Subject      string // case-insensitive substring
	AssignmentID string
	Query        string
}

// List returns notes matching opts, most recently updated first.
func (s *Service) List(opts ListOptions) ([]models.Note, error) {
	var term string
	if opts.Query != "" {
		var v validate.Checker
		term = strings.ToLower(v.Query(opts.Query))
		if err := v.Err(); err != nil {
			return nil, err
		}
	}
	subject := strings.ToLower(opts.Subject)

	out := s.store.Filter(func(n models.Note) bool {
		if subject != "" && !strings.Contains(strings.ToLower(n.Subject), subject) {
			return false
		}
		if opts.AssignmentID != "" && (n.AssignmentID == nil || *n.AssignmentID != opts.AssignmentID) {
			return false
		}
		return term == "" || matchesQuery(n, term)
	})
	slices.SortStableFunc(out, func(a, b models.Note) int {
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})
	return out, nil
}
