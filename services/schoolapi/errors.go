package schoolapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies facade errors.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindServer
	KindUnauthorized
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindUnauthorized:
		return "unauthorized"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

const (
	msgNetwork      = "Network error. Please check your connection."
	msgUnexpected   = "An unexpected error occurred."
	msgUnauthorized = "Session expired. Please log in again."
	msgCanceled     = "Request canceled."
)

// Error is the normalized error returned by every facade call.
// Message is safe to show to users as is.
type Error struct {
	Kind    Kind
	Status  int // HTTP status; 0 when no response was received
	Message string
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts the facade *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }
func IsNetwork(err error) bool      { return isKind(err, KindNetwork) }
func IsCanceled(err error) bool     { return isKind(err, KindCanceled) }

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindServer && apiErr.Status == 404
}

func isKind(err error, kind Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == kind
}

func transportError(ctx context.Context, method, path string, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindCanceled, Message: msgCanceled, Method: method, Path: path, Err: ctxErr}
	}
	return &Error{Kind: KindNetwork, Message: msgNetwork, Method: method, Path: path, Err: err}
}

func unexpectedError(method, path string, status int, err error) *Error {
	return &Error{Kind: KindUnknown, Status: status, Message: msgUnexpected, Method: method, Path: path, Err: err}
}

// statusError builds the error of a non-2xx response. The message is read from the body's
// "error" then "message" field.
func statusError(method, path string, status int, body []byte) *Error {
	kind := KindServer
	fallback := fmt.Sprintf("Request failed with status %d", status)
	if status == 401 {
		kind = KindUnauthorized
		fallback = msgUnauthorized
	}
	msg := bodyMessage(body)
	if msg == "" {
		msg = fallback
	}
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: msg,
		Method:  method,
		Path:    path,
		Err:     errors.Errorf("%s %s: status %d", method, path, status),
	}
}

func bodyMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
