package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is a bare {"error": message} body with a status. Domain
// errors use richer types; this one covers failures inside the framework.
type ErrorResponse struct {
	Message string `json:"error"`
	status  int
}

func NewError(status int, msg string) ErrorResponse {
	return ErrorResponse{Message: msg, status: status}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json; charset=utf-8", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}
