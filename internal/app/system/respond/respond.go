// Package respond writes JSON responses and maps request failures onto
// HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Error kinds carried in the "error" field of a failure body.
const (
	KindUnauthorized         = "unauthorized"
	KindBadCredentials       = "bad_credentials"
	KindForbidden            = "forbidden"
	KindNotFound             = "not_found"
	KindBadRequest           = "bad_request"
	KindConflict             = "conflict"
	KindPayloadTooLarge      = "payload_too_large"
	KindUnsupportedMediaType = "unsupported_media_type"
	KindInternal             = "internal"
)

// HTTPError is a failure that knows how it should be reported to the client.
type HTTPError struct {
	Status  int
	Kind    string
	Message string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(status int, kind, msg string) *HTTPError {
	return &HTTPError{Status: status, Kind: kind, Message: msg}
}

func Unauthorized(msg string) *HTTPError {
	return newError(http.StatusUnauthorized, KindUnauthorized, msg)
}

func BadCredentials(msg string) *HTTPError {
	return newError(http.StatusUnauthorized, KindBadCredentials, msg)
}

func Forbidden(msg string) *HTTPError {
	return newError(http.StatusForbidden, KindForbidden, msg)
}

func NotFound(msg string) *HTTPError {
	return newError(http.StatusNotFound, KindNotFound, msg)
}

func BadRequest(msg string) *HTTPError {
	return newError(http.StatusBadRequest, KindBadRequest, msg)
}

func Conflict(msg string) *HTTPError {
	return newError(http.StatusConflict, KindConflict, msg)
}

func PayloadTooLarge(msg string) *HTTPError {
	return newError(http.StatusRequestEntityTooLarge, KindPayloadTooLarge, msg)
}

func UnsupportedMediaType(msg string) *HTTPError {
	return newError(http.StatusUnsupportedMediaType, KindUnsupportedMediaType, msg)
}

// body is the JSON shape of every failure response.
type body struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Fail reports err to the client. An *HTTPError anywhere in the chain is
// written as-is; anything else is logged and reported as a generic 500 so
// driver and storage details never reach the client.
func Fail(w http.ResponseWriter, log *zap.Logger, err error) {
	var he *HTTPError
	if errors.As(err, &he) {
		JSON(w, he.Status, body{Error: he.Kind, Message: he.Message})
		return
	}
	if log != nil {
		log.Error("request failed", zap.Error(err))
	}
	JSON(w, http.StatusInternalServerError, body{Error: KindInternal, Message: "internal server error"})
}
