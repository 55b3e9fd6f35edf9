package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/note"
	"github.com/zulandar/satchel/internal/validate"
)

// bindJSON decodes the request body into v, writing the error envelope and
// returning false on failure.
func bindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	switch {
	case isBodyTooLarge(err):
		fail(c, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		fail(c, http.StatusBadRequest, "Request body is required")
	default:
		fail(c, http.StatusBadRequest, "Invalid JSON format")
	}
	return false
}

type assignmentRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Subject        string   `json:"subject"`
	DueDate        string   `json:"dueDate"`
	Priority       string   `json:"priority"`
	EstimatedHours float64  `json:"estimatedHours"`
	Tags           []string `json:"tags"`
}

func (r assignmentRequest) input() (models.AssignmentInput, error) {
	in := models.AssignmentInput{
		Title:          r.Title,
		Description:    r.Description,
		Subject:        r.Subject,
		Priority:       models.Priority(r.Priority),
		EstimatedHours: r.EstimatedHours,
		Tags:           r.Tags,
	}
	if strings.TrimSpace(r.DueDate) == "" {
		return in, nil
	}
	due, err := validate.ParseDate(r.DueDate)
	if err != nil {
		return in, apperr.Validation(apperr.FieldError{Field: "dueDate", Message: "dueDate must be a valid ISO 8601 date"})
	}
	in.DueDate = due
	return in, nil
}

type assignmentPatchRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Subject        *string   `json:"subject"`
	DueDate        *string   `json:"dueDate"`
	Priority       *string   `json:"priority"`
	Status         *string   `json:"status"`
	EstimatedHours *float64  `json:"estimatedHours"`
	ActualHours    *float64  `json:"actualHours"`
	Tags           *[]string `json:"tags"`
}

func (r assignmentPatchRequest) patch() (models.AssignmentPatch, error) {
	p := models.AssignmentPatch{
		Title:          r.Title,
		Description:    r.Description,
		Subject:        r.Subject,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		Tags:           r.Tags,
	}
	if r.Priority != nil {
		prio := models.Priority(*r.Priority)
		p.Priority = &prio
	}
	if r.Status != nil {
		status := models.Status(*r.Status)
		p.Status = &status
	}
	if r.DueDate != nil {
		due, err := validate.ParseDate(*r.DueDate)
		if err != nil {
			return p, apperr.Validation(apperr.FieldError{Field: "dueDate", Message: "dueDate must be a valid ISO 8601 date"})
		}
		p.DueDate = &due
	}
	if p.IsEmpty() {
		return p, apperr.New(http.StatusBadRequest, "No fields to update")
	}
	return p, nil
}

// assignmentListOptions parses list query parameters.
func assignmentListOptions(c *gin.Context) (assignment.ListOptions, error) {
	var v validate.Checker
	opts := assignment.ListOptions{
		Status:    models.Status(c.Query("status")),
		Priority:  models.Priority(c.Query("priority")),
		Subject:   strings.TrimSpace(c.Query("subject")),
		Query:     c.Query("q"),
		SortBy:    c.Query("sortBy"),
		SortOrder: strings.ToLower(c.Query("sortOrder")),
		Page:      queryInt(c, &v, "page", "page must be a positive integer"),
		Limit:     queryInt(c, &v, "limit", "limit must be between 1 and 100"),
		DueFrom:   queryDate(c, &v, "dueFrom"),
		DueTo:     queryDate(c, &v, "dueTo"),
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}
	return opts, v.Err()
}

func queryInt(c *gin.Context, v *validate.Checker, key, msg string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		v.Add(key, msg)
		return 0
	}
	return n
}

func queryDate(c *gin.Context, v *validate.Checker, key string) time.Time {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}
	}
	t, err := validate.ParseDate(raw)
	if err != nil {
		v.Addf(key, "%s must be a valid ISO 8601 date", key)
	}
	return t
}

func noteListOptions(c *gin.Context) note.ListOptions {
	return note.ListOptions{
		Subject:      strings.TrimSpace(c.Query("subject")),
		AssignmentID: strings.TrimSpace(c.Query("assignmentId")),
		Query:        c.Query("q"),
	}
}
