package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error     string              `json:"error"`
	Message   string              `json:"message"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
	Retryable bool                `json:"retryable,omitempty"`
}

// statusFor maps an analyzer error onto an HTTP status
func statusFor(err error) int {
	switch domain.ErrorKind(err) {
	case "validation":
		return http.StatusBadRequest
	case "numerical":
		return http.StatusUnprocessableEntity
	case "timeout":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes err with its mapped status. Internal errors are not
// echoed to the client.
func errorResponse(c echo.Context, err error) error {
	status := statusFor(err)
	body := ErrorResponse{Error: domain.ErrorKind(err), Message: err.Error()}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	var te *domain.TimeoutError
	if errors.As(err, &te) {
		body.Retryable = te.Retryable()
		if te.Budget > 0 {
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(te.Budget.Seconds())+1))
		}
	}
	if status == http.StatusInternalServerError {
		body.Message = "Something went wrong"
	}
	return c.JSON(status, body)
}

// badRequest writes a 400 for malformed requests that never reached the analyzer
func badRequest(c echo.Context, format string, args ...any) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation",
		Message: fmt.Sprintf(format, args...),
	})
}
