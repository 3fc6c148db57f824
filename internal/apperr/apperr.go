// Package apperr defines the error taxonomy shared by all services: every
// failed operation is classified as an invalid argument, a missing entity or
// a store failure, and carries the machine-readable code the API envelope
// exposes to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindNotFound
	KindStoreFailure
)

// Error codes surfaced in the API envelope.
const (
	CodeMenusFetchError         = "MENUS_FETCH_ERROR"
	CodeMenuNotFound            = "MENU_NOT_FOUND"
	CodeInvalidStockValue       = "INVALID_STOCK_VALUE"
	CodeStockUpdateError        = "STOCK_UPDATE_ERROR"
	CodeOrdersFetchError        = "ORDERS_FETCH_ERROR"
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeOrderCreateError        = "ORDER_CREATE_ERROR"
	CodeInvalidItems            = "INVALID_ITEMS"
	CodeInvalidTotalAmount      = "INVALID_TOTAL_AMOUNT"
	CodeTotalAmountMismatch     = "TOTAL_AMOUNT_MISMATCH"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeInvalidStatus           = "INVALID_STATUS"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeStatusUpdateError       = "STATUS_UPDATE_ERROR"
	CodeInvalidRequestBody      = "INVALID_REQUEST_BODY"
	CodeNotFound                = "NOT_FOUND"
	CodeInternalError           = "INTERNAL_SERVER_ERROR"
)

// Error is the application error type. Details is an optional payload echoed
// back to the client for diagnostics.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Invalid builds a client error for malformed or out-of-range input.
func Invalid(code, message string, details any) *Error {
	return &Error{Kind: KindInvalidArgument, Code: code, Message: message, Details: details}
}

// NotFound builds an error for a referenced entity that does not exist.
func NotFound(code, message string, details any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message, Details: details}
}

// Store wraps an underlying persistence failure. The cause stays available
// through errors.Unwrap for logging but is not serialized to clients.
func Store(code, message string, cause error) *Error {
	return &Error{Kind: KindStoreFailure, Code: code, Message: message, cause: cause}
}

// From extracts an *Error from err, classifying anything unrecognized as an
// internal store failure so unexpected errors never leak raw messages.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Store(CodeInternalError, "internal server error", err)
}
