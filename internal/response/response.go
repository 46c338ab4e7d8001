// Package response writes the JSON envelope every endpoint answers with and
// maps service errors onto status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/sirupsen/logrus"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func OK(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes err as a failed envelope. Internal failures are logged and
// reported without detail.
func Error(ctx *gin.Context, log *logrus.Entry, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.WithError(err).WithField("path", ctx.FullPath()).Error("request failed")
	}
	ctx.JSON(StatusFor(kind), Envelope{Success: false, Message: apperr.MessageOf(err)})
}

// Abort is Error for middleware: the remaining handlers are skipped.
func Abort(ctx *gin.Context, log *logrus.Entry, err error) {
	Error(ctx, log, err)
	ctx.Abort()
}
