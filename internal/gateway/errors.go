package gateway

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed round trip.
type Kind int

const (
	// KindTransport covers dial, timeout and I/O failures, an open breaker,
	// and bodies that do not decode.
	KindTransport Kind = iota + 1
	// KindProtocol is a non-2xx response.
	KindProtocol
	// KindEmptyResponse is a 2xx response without a body.
	KindEmptyResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

var ErrEmptyResponse = errors.New("empty response")

// Error is the failure outcome of every gateway call. Message is the text
// meant for the user.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}

func IsKind(err error, kind Kind) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == kind
}

// serverMessage picks the text of an error response: the "error" field of a
// JSON object, else the raw body, else fallback.
func serverMessage(body []byte, fallback string) string {
	if gjson.ValidBytes(body) {
		if field := gjson.GetBytes(body, "error"); field.Type == gjson.String && field.String() != "" {
			return field.String()
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

func isEmptyBody(body []byte) bool {
	text := strings.TrimSpace(string(body))
	return text == "" || text == "null"
}
