package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxBodyBytes caps the request body Decode will read.
const MaxBodyBytes = 10 << 20

// Decode failures, distinguishable with errors.Is.
var (
	ErrEmptyBody        = errors.New("request body is empty")
	ErrInvalidJSON      = errors.New("invalid JSON")
	ErrUnsupportedMedia = errors.New("content type must be application/json")
	ErrBodyTooLarge     = errors.New("request body too large")
)

// Param returns the web call parameters from the request.
func Param(r *http.Request, key string) string {
	return r.PathValue(key)
}

// HasBody reports whether the request carries a non-empty body.
func HasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// IsJSON reports whether the request declares a JSON content type.
func IsJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// Decode reads a JSON request body into v. A body sent with a non-JSON
// content type fails with ErrUnsupportedMedia; malformed JSON, including
// trailing data after the first value, fails with ErrInvalidJSON.
func Decode(r *http.Request, v any) error {
	if !HasBody(r) {
		return ErrEmptyBody
	}
	if !IsJSON(r) {
		return ErrUnsupportedMedia
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("unable to read request body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return ErrBodyTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}

	return nil
}
