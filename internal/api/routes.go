package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/note"
	"github.com/zulandar/satchel/internal/store"
)

type handler struct {
	assignments *assignment.Service
	notes       *note.Service
	dataDir     store.DataDir
	version     string
	now         func() time.Time
}

// registerRoutes sets up every /api route on the gin router.
func registerRoutes(router *gin.Engine, h *handler) {
	api := router.Group("/api")
	api.GET("", h.info)
	api.GET("/health", h.health)
	api.GET("/stats", h.overview)

	a := api.Group("/assignments")
	a.GET("", h.listAssignments)
	a.POST("", h.createAssignment)
	a.GET("/search", h.searchAssignments)
	a.GET("/upcoming", h.upcomingAssignments)
	a.GET("/overdue", h.overdueAssignments)
	a.GET("/stats", h.assignmentStats)
	a.GET("/status/:status", h.assignmentsByStatus)
	a.GET("/subject/:subject", h.assignmentsBySubject)
	a.GET("/:id", h.getAssignment)
	a.PUT("/:id", h.updateAssignment)
	a.PATCH("/:id/status", h.updateAssignmentStatus)
	a.DELETE("/:id", h.deleteAssignment)

	n := api.Group("/notes")
	n.GET("", h.listNotes)
	n.POST("", h.createNote)
	n.GET("/search", h.searchNotes)
	n.GET("/stats", h.noteStats)
	n.GET("/assignment/:assignmentId", h.notesByAssignment)
	n.GET("/subject/:subject", h.notesBySubject)
	n.GET("/:id", h.getNote)
	n.PUT("/:id", h.updateNote)
	n.DELETE("/:id", h.deleteNote)

	e := api.Group("/export")
	e.GET("/assignments.csv", h.exportAssignmentsCSV)
	e.GET("/assignments.json", h.exportAssignmentsJSON)
	e.GET("/notes.json", h.exportNotesJSON)
	e.GET("/notes.md", h.exportNotesMarkdown)
}
