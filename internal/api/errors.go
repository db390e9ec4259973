package api

import (
	"net/http"

	"vrsurvey/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an application error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeSchemaInvalid:
		return http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeImportError, errors.CodeDatabaseError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error", "code"}. Server-side failures are
// logged.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
