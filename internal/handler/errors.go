package handler

import (
	"context"
	"errors"
	"net/http"

	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest is the non-standard code for a request the client abandoned.
const StatusClientClosedRequest = 499

// ErrorBody is the one error shape every endpoint returns.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTP maps a service error to a status and body. Messages of domain errors are
// passed through; everything else becomes a generic internal error.
func ToHTTP(err error) (int, ErrorBody) {
	status, code, msg := http.StatusInternalServerError, "internal", "internal error"

	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, service.ErrConflict):
		// a repeated attend is a client error, not a uniqueness clash
		status, code = http.StatusBadRequest, "conflict"
	case errors.Is(err, service.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, "permission_denied"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrorBody{Code: "canceled", Message: "request canceled"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorBody{Code: "deadline_exceeded", Message: "request timed out"}
	default:
		return status, ErrorBody{Code: code, Message: msg}
	}

	var de *service.Error
	if errors.As(err, &de) && de.Message != "" {
		msg = de.Message
	} else if err != nil {
		msg = code
	}
	return status, ErrorBody{Code: code, Message: msg}
}

// WriteError aborts the chain with the mapped error, tagging it with the request id.
func WriteError(c *gin.Context, err error) {
	status, body := ToHTTP(err)
	body.RequestID = c.Writer.Header().Get("X-Request-Id")
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Code:      "invalid_argument",
		Message:   msg,
		RequestID: c.Writer.Header().Get("X-Request-Id"),
	})
}
