package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/models"
)

var errAssignmentNotFound = apperr.NotFound("Assignment not found")

func (h *handler) listAssignments(c *gin.Context) {
	opts, err := assignmentListOptions(c)
	if err != nil {
		failErr(c, err)
		return
	}
	page, err := h.assignments.List(opts)
	if err != nil {
		failErr(c, err)
		return
	}
	respondPage(c, page, "Assignments retrieved successfully")
}

func (h *handler) createAssignment(c *gin.Context) {
	var req assignmentRequest
	if !bindJSON(c, &req) || !checkDeadline(c) {
		return
	}
	in, err := req.input()
	if err != nil {
		failErr(c, err)
		return
	}
	a, err := h.assignments.Create(in)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, a, "Assignment created successfully")
}

func (h *handler) getAssignment(c *gin.Context) {
	a, err := h.assignments.GetByID(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	if a == nil {
		failErr(c, errAssignmentNotFound)
		return
	}
	respond(c, http.StatusOK, a, "Assignment retrieved successfully")
}

func (h *handler) updateAssignment(c *gin.Context) {
	var req assignmentPatchRequest
	if !bindJSON(c, &req) || !checkDeadline(c) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		failErr(c, err)
		return
	}
	a, err := h.assignments.UpdateByID(c.Param("id"), patch)
	if err != nil {
		failErr(c, err)
		return
	}
	if a == nil {
		failErr(c, errAssignmentNotFound)
		return
	}
	respond(c, http.StatusOK, a, "Assignment updated successfully")
}

func (h *handler) updateAssignmentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &req) || !checkDeadline(c) {
		return
	}
	if req.Status == "" {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}
	a, err := h.assignments.UpdateStatus(c.Param("id"), models.Status(req.Status))
	if err != nil {
		failErr(c, err)
		return
	}
	if a == nil {
		failErr(c, errAssignmentNotFound)
		return
	}
	respond(c, http.StatusOK, a, "Assignment status updated to "+req.Status)
}

func (h *handler) deleteAssignment(c *gin.Context) {
	ok, err := h.assignments.DeleteByID(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	if !ok {
		failErr(c, errAssignmentNotFound)
		return
	}
	respond(c, http.StatusOK, nil, "Assignment deleted successfully")
}

func (h *handler) searchAssignments(c *gin.Context) {
	results, err := h.assignments.Search(c.Query("q"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Search completed successfully")
}

func (h *handler) upcomingAssignments(c *gin.Context) {
	results, err := h.assignments.GetUpcoming()
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Upcoming assignments retrieved successfully")
}

func (h *handler) overdueAssignments(c *gin.Context) {
	results, err := h.assignments.GetOverdue()
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Overdue assignments retrieved successfully")
}

func (h *handler) assignmentStats(c *gin.Context) {
	stats, err := h.assignments.GetStats()
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "Assignment statistics retrieved successfully")
}

func (h *handler) assignmentsByStatus(c *gin.Context) {
	results, err := h.assignments.GetByStatus(models.Status(c.Param("status")))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Assignments retrieved successfully")
}

func (h *handler) assignmentsBySubject(c *gin.Context) {
	results, err := h.assignments.GetBySubject(c.Param("subject"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Assignments retrieved successfully")
}
