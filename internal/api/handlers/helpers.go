package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"water-route-service/internal/domain"
	"water-route-service/internal/platform/obs"
	"water-route-service/internal/ports"
)

const problemContentType = "application/problem+json"

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeProblem(c *gin.Context, status int, typ, title, detail string) {
	p := Problem{
		Type:      "https://water-route-service/problems/" + typ,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  c.Request.URL.Path,
		RequestID: obs.RequestID(c.Request.Context()),
	}
	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(status, p)
}

// writeError maps a service error onto a problem document.
// Details of internal failures are logged but never sent to the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinateFormat):
		writeProblem(c, http.StatusBadRequest, "invalid-coordinates", "Invalid coordinate format", err.Error())
	case errors.Is(err, domain.ErrNoValidStops):
		writeProblem(c, http.StatusBadRequest, "no-valid-stops", "No valid stops", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(c, http.StatusBadRequest, "invalid-input", "Invalid input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(c, http.StatusNotFound, "not-found", "Resource not found", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(c, http.StatusConflict, "invalid-transition", "Invalid state transition", err.Error())
	case errors.Is(err, ports.ErrLockBusy):
		writeProblem(c, http.StatusConflict, "busy", "Resource busy", "another update is in progress, retry shortly")
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		writeProblem(c, http.StatusInternalServerError, "internal", "Internal server error", "an internal error occurred")
	}
}

func writeBadRequest(c *gin.Context, detail string) {
	writeProblem(c, http.StatusBadRequest, "invalid-input", "Invalid input", detail)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
