package ctl

import (
	"errors"
	"fmt"
)

// Error is a problem+json style error returned over the control socket.
type Error struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

func ErrBadRequest(detail string) *Error {
	return &Error{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *Error {
	return &Error{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) *Error {
	return &Error{Status: 409, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) *Error {
	return &Error{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into *Error.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal(err.Error())
}
