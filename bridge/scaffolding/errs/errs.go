// Package errs provides types and support related to web error functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value  int
	name   string
	status int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return ec.name
}

// HTTPStatus returns the status an error with this code answers with.
func (ec ErrCode) HTTPStatus() int {
	return ec.status
}

// The set of error codes the bridge layer produces.
var (
	InvalidArgument = ErrCode{value: 1, name: "invalid_argument", status: http.StatusBadRequest}
	NotFound        = ErrCode{value: 2, name: "not_found", status: http.StatusNotFound}
	Internal        = ErrCode{value: 3, name: "internal", status: http.StatusInternalServerError}

	// InternalOnlyLog is logged in full but answered with a generic
	// internal error.
	InternalOnlyLog = ErrCode{value: 4, name: "internal_only_log", status: http.StatusInternalServerError}
)

// Error represents an error in the system.
type Error struct {
	Code     ErrCode  `json:"-"`
	Message  string   `json:"error"`
	Details  []string `json:"details,omitempty"`
	FuncName string   `json:"-"`
	FileName string   `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on a error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// WithDetails attaches the individual problems behind the error.
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json; charset=utf-8", err
}

// HTTPStatus implements the web package httpStatus interface so the
// framework can provide the correct status code.
func (e *Error) HTTPStatus() int {
	if e.Code.status == 0 {
		return http.StatusInternalServerError
	}
	return e.Code.status
}

// GetError returns the *Error in err's chain, or nil.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
