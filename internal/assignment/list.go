package assignment

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/zulandar/satchel/internal/listing"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/validate"
)

// Sort fields accepted by List.
const (
	SortDueDate        = "dueDate"
	SortCreatedAt      = "createdAt"
	SortUpdatedAt      = "updatedAt"
	SortTitle          = "title"
	SortSubject        = "subject"
	SortPriority       = "priority"
	SortStatus         = "status"
	SortEstimatedHours = "estimatedHours"
)

// SortFields lists every accepted sort field.
var SortFields = []string{
	SortDueDate, SortCreatedAt, SortUpdatedAt, SortTitle,
	SortSubject, SortPriority, SortStatus, SortEstimatedHours,
}

// ListOptions holds optional filters, ordering and paging for List.
// Zero values mean "no filter" or the default.
type ListOptions struct {
	Status   models.Status
	Priority models.Priority
	Subject  string // case-insensitive substring
	Tags     []string
	DueFrom  time.Time
	DueTo    time.Time
	Query    string

	SortBy    string // defaults to dueDate
	SortOrder string // asc or desc, defaults to asc

	Page  int
	Limit int
}

// normalize fills defaults and validates opts.
func (o *ListOptions) normalize() error {
	o.Page, o.Limit = listing.Normalize(o.Page, o.Limit)
	if o.SortBy == "" {
		o.SortBy = SortDueDate
	}
	if o.SortOrder == "" {
		o.SortOrder = listing.Asc
	}

	var v validate.Checker
	if o.Status != "" && !o.Status.Valid() {
		v.Add("status", "status must be not-started, in-progress, completed, or overdue")
	}
	if o.Priority != "" && !o.Priority.Valid() {
		v.Add("priority", "priority must be low, medium, or high")
	}
	if !slices.Contains(SortFields, o.SortBy) {
		v.Addf("sortBy", "sortBy must be one of %s", strings.Join(SortFields, ", "))
	}
	if o.SortOrder != listing.Asc && o.SortOrder != listing.Desc {
		v.Add("sortOrder", "sortOrder must be asc or desc")
	}
	if o.Page < 1 {
		v.Add("page", "page must be a positive integer")
	}
	if o.Limit < 1 || o.Limit > listing.MaxLimit {
		v.Addf("limit", "limit must be between 1 and %d", listing.MaxLimit)
	}
	if !o.DueFrom.IsZero() && !o.DueTo.IsZero() && o.DueTo.Before(o.DueFrom) {
		v.Add("dueTo", "dueTo must not be before dueFrom")
	}
	if o.Query != "" {
		o.Query = v.Query(o.Query)
	}
	return v.Err()
}

func (o ListOptions) match(a models.Assignment) bool {
	if o.Status != "" && a.Status != o.Status {
		return false
	}
	if o.Priority != "" && a.Priority != o.Priority {
		return false
	}
	if o.Subject != "" && !strings.Contains(strings.ToLower(a.Subject), strings.ToLower(o.Subject)) {
		return false
	}
	if len(o.Tags) > 0 && !slices.ContainsFunc(a.Tags, func(t string) bool { return slices.Contains(o.Tags, t) }) {
		return false
	}
	if !o.DueFrom.IsZero() && a.DueDate.Before(o.DueFrom) {
		return false
	}
	if !o.DueTo.IsZero() && a.DueDate.After(o.DueTo) {
		return false
	}
	if o.Query != "" && !matchesQuery(a, strings.ToLower(o.Query)) {
		return false
	}
	return true
}

// compareBy returns an ordering for field. Ties keep insertion order.
func compareBy(field string) func(a, b models.Assignment) int {
	switch field {
	case SortCreatedAt:
		return func(a, b models.Assignment) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortUpdatedAt:
		return func(a, b models.Assignment) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case SortTitle:
		return func(a, b models.Assignment) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortSubject:
		return func(a, b models.Assignment) int {
			return cmp.Compare(strings.ToLower(a.Subject), strings.ToLower(b.Subject))
		}
	case SortPriority:
		return func(a, b models.Assignment) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case SortStatus:
		return func(a, b models.Assignment) int { return cmp.Compare(a.Status, b.Status) }
	case SortEstimatedHours:
		return func(a, b models.Assignment) int { return cmp.Compare(a.EstimatedHours, b.EstimatedHours) }
	default:
		return func(a, b models.Assignment) int { return a.DueDate.Compare(b.DueDate) }
	}
}

// List filters, sorts and paginates assignments. Statuses are brought up to
// date first, so filtering on overdue sees every overdue assignment.
func (s *Service) List(opts ListOptions) (listing.Page[models.Assignment], error) {
	if err := opts.normalize(); err != nil {
		return listing.Page[models.Assignment]{}, err
	}
	all, err := s.GetAll()
	if err != nil {
		return listing.Page[models.Assignment]{}, err
	}

	matched := keep(all, opts.match)
	less := compareBy(opts.SortBy)
	if opts.SortOrder == listing.Desc {
		slices.SortStableFunc(matched, func(a, b models.Assignment) int { return less(b, a) })
	} else {
		slices.SortStableFunc(matched, less)
	}
	return listing.Paginate(matched, opts.Page, opts.Limit), nil
}
