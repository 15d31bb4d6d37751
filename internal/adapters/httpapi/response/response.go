// Package response renders service errors as JSON.
package response

import (
	"minisocial/internal/apperror"
	"net/http"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:   http.StatusBadRequest,
	apperror.KindDuplicate:    http.StatusConflict,
	apperror.KindUnauthorized: http.StatusUnauthorized,
	apperror.KindForbidden:    http.StatusForbidden,
	apperror.KindNotFound:     http.StatusNotFound,
	apperror.KindRateLimited:  http.StatusTooManyRequests,
	apperror.KindInternal:     http.StatusInternalServerError,
}

// Status maps an error category to its HTTP status.
func Status(kind apperror.Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error writes {"error","code"} for err. The error is also attached to the
// gin context so the request logger records the cause.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperror.KindOf(err)
	c.JSON(Status(kind), gin.H{"error": apperror.MessageOf(err), "code": string(kind)})
}

// Abort is Error for middleware: the remaining handlers are skipped.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperror.KindOf(err)
	c.AbortWithStatusJSON(Status(kind), gin.H{"error": apperror.MessageOf(err), "code": string(kind)})
}
