package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/apperr"
	"github.com/zulandar/satchel/internal/listing"
	"github.com/zulandar/satchel/internal/logging"
)

// Response is the envelope around every API reply.
type Response struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Pagination *listing.Pagination `json:"pagination,omitempty"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, Response{Success: true, Data: data, Message: msg})
}

func respondPage[T any](c *gin.Context, page listing.Page[T], msg string) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       page.Data,
		Pagination: &page.Pagination,
		Message:    msg,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Error: msg})
}

// failErr maps err to an error envelope. Internal causes are logged, never
// returned to the client.
func failErr(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logging.Logger.WithError(err).
			WithField("path", c.Request.URL.Path).
			Error("api: internal error")
	}
	resp := Response{Error: apperr.PublicMessage(err)}
	if ae, ok := apperr.As(err); ok {
		resp.Errors = ae.Fields
	}
	c.AbortWithStatusJSON(status, resp)
}
