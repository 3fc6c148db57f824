// Package web holds the response envelope and gin middleware shared by all
// HTTP handlers.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coffee-order-system/internal/apperr"
)

// Response is the uniform API envelope.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OK writes a success envelope with the given HTTP status.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// Fail classifies err and writes the matching error envelope.
func Fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(StatusFor(appErr), Response{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(err *apperr.Error) int {
	switch err.Kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
