package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/export"
	"github.com/zulandar/satchel/internal/logging"
	"github.com/zulandar/satchel/internal/overview"
)

func (h *handler) info(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"name":    "Satchel API",
		"version": h.version,
		"endpoints": gin.H{
			"assignments": "/api/assignments",
			"notes":       "/api/notes",
			"stats":       "/api/stats",
			"export":      "/api/export",
			"health":      "/api/health",
		},
	}, "Satchel API")
}

func (h *handler) health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"timestamp": h.now().UTC(),
		"records":   h.dataDir.Counts(),
	}, "API is healthy")
}

func (h *handler) overview(c *gin.Context) {
	ov, err := overview.Build(h.assignments, h.notes, h.dataDir)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, ov, "Statistics retrieved successfully")
}

// download streams a generated file as an attachment.
func (h *handler) download(c *gin.Context, prefix, ext, contentType string, write func(io.Writer) error) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(prefix, ext, h.now())+`"`)
	c.Status(http.StatusOK)
	if err := write(c.Writer); err != nil {
		logging.Logger.WithError(err).WithField("path", c.Request.URL.Path).Error("api: export failed")
	}
}

func (h *handler) exportAssignmentsCSV(c *gin.Context) {
	all, err := h.assignments.GetAll()
	if err != nil {
		failErr(c, err)
		return
	}
	h.download(c, "assignments", "csv", "text/csv; charset=utf-8", func(w io.Writer) error {
		return export.AssignmentsCSV(w, all)
	})
}

func (h *handler) exportAssignmentsJSON(c *gin.Context) {
	all, err := h.assignments.GetAll()
	if err != nil {
		failErr(c, err)
		return
	}
	h.download(c, "assignments", "json", "application/json; charset=utf-8", func(w io.Writer) error {
		return export.AssignmentsJSON(w, all, h.now())
	})
}

func (h *handler) exportNotesJSON(c *gin.Context) {
	notes := h.notes.GetAll()
	h.download(c, "notes", "json", "application/json; charset=utf-8", func(w io.Writer) error {
		return export.NotesJSON(w, notes, h.now())
	})
}

func (h *handler) exportNotesMarkdown(c *gin.Context) {
	notes := h.notes.GetAll()
	h.download(c, "notes", "md", "text/markdown; charset=utf-8", func(w io.Writer) error {
		return export.NotesMarkdown(w, notes, h.now())
	})
}
