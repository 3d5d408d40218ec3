package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ResponseError is an error that is safe to show to the caller. Status is the
// HTTP status it maps to.
type ResponseError struct {
	Msg    string
	Status int
}

func (e ResponseError) Error() string { return e.Msg }

func NewResponseError(status int, format string, args ...interface{}) error {
	return ResponseError{
		Msg:    fmt.Sprintf(format, args...),
		Status: status,
	}
}

// StatusOf reports the HTTP status carried by err, or 500 when err is not a
// ResponseError.
func StatusOf(err error) int {
	var respErr ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status
	}
	return http.StatusInternalServerError
}
