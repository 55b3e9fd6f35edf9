package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/models"
)

var errNoteNotFound = apperr.NotFound("Note not found")

func (h *handler) listNotes(c *gin.Context) {
	notes, err := h.notes.List(noteListOptions(c))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, notes, "Notes retrieved successfully")
}

func (h *handler) createNote(c *gin.Context) {
	var in models.NoteInput
	if !bindJSON(c, &in) || !checkDeadline(c) {
		return
	}
	n, err := h.notes.Create(in)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, n, "Note created successfully")
}

func (h *handler) getNote(c *gin.Context) {
	n, err := h.notes.GetByID(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	if n == nil {
		failErr(c, errNoteNotFound)
		return
	}
	respond(c, http.StatusOK, n, "Note retrieved successfully")
}

func (h *handler) updateNote(c *gin.Context) {
	var patch models.NotePatch
	if !bindJSON(c, &patch) || !checkDeadline(c) {
		return
	}
	if patch.IsEmpty() {
		failErr(c, apperr.New(http.StatusBadRequest, "No fields to update"))
		return
	}
	n, err := h.notes.UpdateByID(c.Param("id"), patch)
	if err != nil {
		failErr(c, err)
		return
	}
	if n == nil {
		failErr(c, errNoteNotFound)
		return
	}
	respond(c, http.StatusOK, n, "Note updated successfully")
}

func (h *handler) deleteNote(c *gin.Context) {
	ok, err := h.notes.DeleteByID(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	if !ok {
		failErr(c, errNoteNotFound)
		return
	}
	respond(c, http.StatusOK, nil, "Note deleted successfully")
}

func (h *handler) searchNotes(c *gin.Context) {
	results, err := h.notes.Search(c.Query("q"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Search completed successfully")
}

func (h *handler) noteStats(c *gin.Context) {
	respond(c, http.StatusOK, h.notes.GetStats(), "Note statistics retrieved successfully")
}

func (h *handler) notesByAssignment(c *gin.Context) {
	results, err := h.notes.GetByAssignment(c.Param("assignmentId"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Notes retrieved successfully")
}

func (h *handler) notesBySubject(c *gin.Context) {
	results, err := h.notes.GetBySubject(c.Param("subject"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, results, "Notes retrieved successfully")
}
